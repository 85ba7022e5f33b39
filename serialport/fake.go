package serialport

// FakeLister returns scripted ports for test assertions.
type FakeLister struct {
	// Ports are returned by List in order.
	Ports []PortInfo

	// ListError, if set, will be returned by List.
	ListError error
}

// List returns the scripted ports.
func (f FakeLister) List() ([]PortInfo, error) {
	if f.ListError != nil {
		return nil, f.ListError
	}
	return f.Ports, nil
}
