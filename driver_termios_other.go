//go:build !linux

package startlight

// TermiosDriver is only implemented on Linux
type TermiosDriver struct{}

var _ Driver = TermiosDriver{}

func (TermiosDriver) Name() string { return "termios" }

func (TermiosDriver) Open(string, Mode) (Session, error) {
	return nil, ErrDriverUnavailable
}

func (TermiosDriver) List() ([]string, error) {
	return nil, ErrDriverUnavailable
}
