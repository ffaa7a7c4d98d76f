package startlight

import (
	"fmt"
	"io"
	"strings"
)

// Mode holds the line settings a driver applies when opening an endpoint
type Mode struct {
	BaudRate int
	// PreventReset keeps DTR and RTS inactive while the line comes up
	PreventReset bool
}

// Session is one open serial line. Read must not block when nothing is
// waiting; it returns 0, nil instead.
type Session interface {
	io.ReadWriteCloser
	Drain() error
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// BufferedSession is implemented by sessions that can report how many bytes
// are waiting to be read
type BufferedSession interface {
	Session
	Buffered() (int, error)
}

// Driver opens sessions and enumerates endpoints
type Driver interface {
	Name() string
	Open(endpoint string, mode Mode) (Session, error)
	List() ([]string, error)
}

// PortDetails describes an endpoint, including USB metadata when known
type PortDetails struct {
	Name         string
	Description  string
	IsUSB        bool
	VendorID     string
	ProductID    string
	SerialNumber string
	Product      string
}

// DetailedLister is implemented by drivers that can report USB metadata
type DetailedLister interface {
	ListDetailed() ([]PortDetails, error)
}

// NewDriver returns the hardware driver registered under name. An empty name
// selects the portable go.bug.st driver.
func NewDriver(name string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bugst":
		return BugstDriver{}, nil
	case "termios":
		return TermiosDriver{}, nil
	default:
		return nil, fmt.Errorf("unknown driver %q", name)
	}
}
