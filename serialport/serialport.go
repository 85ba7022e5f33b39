// Package serialport enumerates host serial ports and validates that a
// target port (e.g. /dev/ttyUSB0) is present, identifying common USB serial
// adapters by VID:PID. The real enumeration uses go.bug.st/serial; the fake
// allows testing without hardware.
package serialport

import (
	"fmt"
	"strings"
)

// Known USB serial adapter IDs (uppercase hex, as reported by the host).
const (
	vidFTDI     = "0403"
	pidFT232    = "6001"
	vidProlific = "067B"
	pidPL2303   = "2303"
)

// PortInfo describes one enumerated serial port.
type PortInfo struct {
	// Name is the device path, e.g. /dev/ttyUSB0.
	Name string

	// IsUSB reports whether the port is a USB adapter.
	IsUSB bool

	// VID and PID identify the USB vendor/device (empty for non-USB ports).
	VID string
	PID string

	// Product is the adapter's self-reported product string, if any.
	Product string
}

// Lister enumerates the host's serial ports.
type Lister interface {
	List() ([]PortInfo, error)
}

// Validate checks whether target is an available serial port on the host.
// It returns the validity result and a human-readable descriptor: the
// adapter identity on a hit, or the list of available ports on a miss.
func Validate(target string) (bool, string, error) {
	return ValidateWith(RealLister{}, target)
}

// ValidateWith is Validate against an explicit Lister. Useful for tests.
func ValidateWith(l Lister, target string) (bool, string, error) {
	ports, err := l.List()
	if err != nil {
		return false, "", fmt.Errorf("enumerate serial ports: %w", err)
	}

	for _, port := range ports {
		if port.Name != target {
			continue
		}
		return true, describe(port), nil
	}

	if len(ports) == 0 {
		return false, "no serial ports found", nil
	}

	names := make([]string, len(ports))
	for i, port := range ports {
		names[i] = port.Name
	}
	return false, "available ports: " + strings.Join(names, ", "), nil
}

func describe(port PortInfo) string {
	if !port.IsUSB {
		return fmt.Sprintf("serial port %s", port.Name)
	}
	vid := strings.ToUpper(port.VID)
	pid := strings.ToUpper(port.PID)
	switch {
	case vid == vidFTDI && pid == pidFT232:
		return fmt.Sprintf("Serial FTDI FT232 (RS485/RS422/RS232) on %s", port.Name)
	case vid == vidProlific && pid == pidPL2303:
		return fmt.Sprintf("Serial Prolific PL2303 (RS232) on %s", port.Name)
	default:
		return fmt.Sprintf("Serial vendor/device %s:%s on %s", vid, pid, port.Name)
	}
}
