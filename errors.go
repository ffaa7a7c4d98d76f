package startlight

import "errors"

// Predefined error types for robust error handling
var (
	ErrDeviceNotFound   = errors.New("serial device not found")
	ErrPermissionDenied = errors.New("permission denied accessing serial device")
	ErrDeviceInUse      = errors.New("serial device already in use")
	ErrInvalidBaudRate  = errors.New("invalid baud rate")
	ErrInvalidConfig    = errors.New("invalid handshake configuration")
	ErrSessionClosed    = errors.New("serial session is closed")

	// Driver layer errors
	ErrTransportUnavailable = errors.New("no serial driver available")
	ErrDriverUnavailable    = errors.New("serial driver not supported on this platform")
	ErrNotConfigured        = errors.New("no endpoint configured")
	ErrDriverPanic          = errors.New("serial driver panicked")

	// Handshake errors, wrapped around the underlying driver error
	ErrOpenFailed  = errors.New("failed to open endpoint")
	ErrWriteFailed = errors.New("failed to write command")
	ErrReadFailed  = errors.New("failed to read response")
	ErrNoToken     = errors.New("no confirmation token before deadline")
)
