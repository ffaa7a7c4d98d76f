package startlight

import (
	"errors"
	"fmt"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// BugstDriver opens endpoints through go.bug.st/serial. It works on Linux,
// macOS and Windows.
type BugstDriver struct{}

var (
	_ Driver         = BugstDriver{}
	_ DetailedLister = BugstDriver{}
)

func (BugstDriver) Name() string { return "bugst" }

// Open opens endpoint 8N1 with non-blocking reads. With PreventReset the
// initial modem bits keep DTR and RTS low so the line never toggles them.
func (BugstDriver) Open(endpoint string, mode Mode) (Session, error) {
	m := &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	if mode.PreventReset {
		m.InitialStatusBits = &serial.ModemOutputBits{DTR: false, RTS: false}
	}

	port, err := serial.Open(endpoint, m)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", endpoint, translatePortError(err))
	}

	// Zero timeout: Read returns immediately with whatever is buffered
	if err := port.SetReadTimeout(0); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	return port, nil
}

func (BugstDriver) List() ([]string, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}
	return ports, nil
}

func (BugstDriver) ListDetailed() ([]PortDetails, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	details := make([]PortDetails, 0, len(ports))
	for _, p := range ports {
		d := PortDetails{
			Name:        p.Name,
			Description: portDescription(p.Name),
			IsUSB:       p.IsUSB,
		}
		if p.IsUSB {
			d.VendorID = p.VID
			d.ProductID = p.PID
			d.SerialNumber = p.SerialNumber
			d.Product = p.Product
		}
		details = append(details, d)
	}
	return details, nil
}

// translatePortError maps go.bug.st error codes onto the package sentinels,
// keeping the original error in the chain
func translatePortError(err error) error {
	var portErr *serial.PortError
	if !errors.As(err, &portErr) {
		return err
	}

	switch portErr.Code() {
	case serial.PortBusy:
		return fmt.Errorf("%w: %w", ErrDeviceInUse, err)
	case serial.PortNotFound:
		return fmt.Errorf("%w: %w", ErrDeviceNotFound, err)
	case serial.PermissionDenied:
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case serial.InvalidSpeed:
		return fmt.Errorf("%w: %w", ErrInvalidBaudRate, err)
	default:
		return err
	}
}
