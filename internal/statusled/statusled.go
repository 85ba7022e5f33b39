// Package statusled drives a GPIO status LED with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package statusled

// LED controls a single status LED.
type LED interface {
	// Set drives the LED on or off.
	Set(on bool) error

	// Close releases GPIO resources.
	Close() error
}

// DefaultPin is the BCM pin number of the status LED.
const DefaultPin = 21
