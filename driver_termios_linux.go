package startlight

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// TermiosDriver talks to Linux tty devices directly through termios ioctls.
// Unlike BugstDriver its sessions report how many bytes are waiting.
type TermiosDriver struct{}

var (
	_ Driver          = TermiosDriver{}
	_ DetailedLister  = TermiosDriver{}
	_ BufferedSession = (*termiosPort)(nil)
)

// termiosPort is a raw tty file descriptor
type termiosPort struct {
	mu     sync.RWMutex
	fd     int
	closed bool
}

func (TermiosDriver) Name() string { return "termios" }

// Open opens the device without waiting for carrier, switches it to raw 8N1
// and, in prevent-reset mode, drops DTR and RTS before anything is sent
func (TermiosDriver) Open(endpoint string, mode Mode) (Session, error) {
	baud, err := getBaudRate(mode.BaudRate)
	if err != nil {
		return nil, err
	}

	fd, err := unix.Open(endpoint, unix.O_RDWR|unix.O_NOCTTY|unix.O_NONBLOCK|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", endpoint, translateErrno(err))
	}

	if err := configurePort(fd, baud, mode.PreventReset); err != nil {
		unix.Close(fd)
		return nil, err
	}

	if mode.PreventReset {
		if err := clearModemLines(fd, unix.TIOCM_DTR|unix.TIOCM_RTS); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("failed to clear DTR/RTS: %w", err)
		}
	}

	// VMIN=0/VTIME=0 already make reads return immediately; drop O_NONBLOCK
	// so writes block normally
	if err := unix.SetNonblock(fd, false); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to clear O_NONBLOCK: %w", err)
	}

	return &termiosPort{fd: fd}, nil
}

func (TermiosDriver) List() ([]string, error) {
	return ListPorts()
}

func (TermiosDriver) ListDetailed() ([]PortDetails, error) {
	ports, err := ListPorts()
	if err != nil {
		return nil, err
	}
	details := make([]PortDetails, 0, len(ports))
	for _, p := range ports {
		details = append(details, GetPortDetails(p))
	}
	return details, nil
}

// translateErrno maps open(2) failures onto the package sentinels
func translateErrno(err error) error {
	switch {
	case errors.Is(err, unix.ENOENT), errors.Is(err, unix.ENXIO), errors.Is(err, unix.ENODEV):
		return fmt.Errorf("%w: %w", ErrDeviceNotFound, err)
	case errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM):
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	case errors.Is(err, unix.EBUSY):
		return fmt.Errorf("%w: %w", ErrDeviceInUse, err)
	default:
		return err
	}
}

// getBaudRate converts an integer baud rate to the unix constant
func getBaudRate(rate int) (uint32, error) {
	switch rate {
	case 1200:
		return unix.B1200, nil
	case 2400:
		return unix.B2400, nil
	case 4800:
		return unix.B4800, nil
	case 9600:
		return unix.B9600, nil
	case 19200:
		return unix.B19200, nil
	case 38400:
		return unix.B38400, nil
	case 57600:
		return unix.B57600, nil
	case 115200:
		return unix.B115200, nil
	case 230400:
		return unix.B230400, nil
	case 460800:
		return unix.B460800, nil
	case 921600:
		return unix.B921600, nil
	default:
		return 0, ErrInvalidBaudRate
	}
}

// configurePort puts the line in raw mode with non-blocking reads
func configurePort(fd int, baud uint32, preventReset bool) error {
	termios, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return fmt.Errorf("failed to get termios: %v", err)
	}

	termios.Cflag = unix.CS8 | unix.CREAD | unix.CLOCAL
	if !preventReset {
		// Drop DTR on close like a normal tty
		termios.Cflag |= unix.HUPCL
	}
	termios.Iflag = 0
	termios.Oflag = 0
	termios.Lflag = 0

	termios.Cc[unix.VMIN] = 0
	termios.Cc[unix.VTIME] = 0

	termios.Cflag = (termios.Cflag &^ unix.CBAUD) | baud
	termios.Ispeed = baud
	termios.Ospeed = baud

	if err := unix.IoctlSetTermios(fd, unix.TCSETS, termios); err != nil {
		return fmt.Errorf("failed to set termios: %v", err)
	}
	return nil
}

func clearModemLines(fd int, bits int) error {
	return unix.IoctlSetPointerInt(fd, unix.TIOCMBIC, bits)
}

func (p *termiosPort) Read(buf []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrSessionClosed
	}

	n, err := unix.Read(p.fd, buf)
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
		return 0, nil
	}
	if n < 0 {
		n = 0
	}
	return n, err
}

func (p *termiosPort) Write(data []byte) (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrSessionClosed
	}

	n, err := unix.Write(p.fd, data)
	if n < 0 {
		n = 0
	}
	return n, err
}

// Buffered returns the number of bytes in the input queue (TIOCINQ)
func (p *termiosPort) Buffered() (int, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0, ErrSessionClosed
	}

	return unix.IoctlGetInt(p.fd, unix.TIOCINQ)
}

// Drain waits until all output written to the port has been transmitted
func (p *termiosPort) Drain() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrSessionClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCSBRK, 1)
}

// ResetInputBuffer discards any unread input data
func (p *termiosPort) ResetInputBuffer() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrSessionClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCIFLUSH)
}

// ResetOutputBuffer discards any unwritten output data
func (p *termiosPort) ResetOutputBuffer() error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrSessionClosed
	}

	return unix.IoctlSetInt(p.fd, unix.TCFLSH, unix.TCOFLUSH)
}

func (p *termiosPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrSessionClosed
	}

	p.closed = true
	return unix.Close(p.fd)
}
