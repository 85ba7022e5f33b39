package serialport

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// RealLister enumerates serial ports via the host OS.
type RealLister struct{}

// List returns the host's serial ports with USB details where available.
func (RealLister) List() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("detailed ports list: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:    d.Name,
			IsUSB:   d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Product: d.Product,
		})
	}
	return ports, nil
}
