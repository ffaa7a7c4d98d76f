package startlight

import (
	"log/slog"
	"time"
)

// Defaults for the handshake. The manager boundary uses a longer timeout than
// a bare handler.
const (
	DefaultBaudRate       = 9600
	DefaultTimeout        = 10 * time.Second
	DefaultHandlerTimeout = 2 * time.Second
	DefaultRetries        = 2
	DefaultRetryDelay     = 120 * time.Millisecond
	DefaultSettleDelay    = 50 * time.Millisecond
	DefaultPollInterval   = 10 * time.Millisecond
)

// Params holds the connection parameters used by every send
type Params struct {
	Endpoint string
	BaudRate int
	Timeout  time.Duration
}

// Configured reports whether an endpoint has been set
func (p Params) Configured() bool {
	return p.Endpoint != ""
}

// withDefaults fills unset or invalid fields
func (p Params) withDefaults(timeout time.Duration) Params {
	if p.BaudRate <= 0 {
		p.BaudRate = DefaultBaudRate
	}
	if p.Timeout <= 0 {
		p.Timeout = timeout
	}
	return p
}

// Config holds the handler configuration
type Config struct {
	Retries      int
	RetryDelay   time.Duration
	SettleDelay  time.Duration
	PollInterval time.Duration
	PreventReset bool
	Logger       *slog.Logger
}

// Option is a functional option for configuring a handler
type Option func(*Config) error

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Retries:      DefaultRetries,
		RetryDelay:   DefaultRetryDelay,
		SettleDelay:  DefaultSettleDelay,
		PollInterval: DefaultPollInterval,
		PreventReset: true,
		Logger:       slog.New(slog.DiscardHandler),
	}
}

// WithRetries sets how many open attempts are made before giving up
func WithRetries(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return ErrInvalidConfig
		}
		c.Retries = n
		return nil
	}
}

// WithRetryDelay sets the pause between failed open attempts
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.RetryDelay = d
		return nil
	}
}

// WithSettleDelay sets the pause between opening the line and clearing its buffers
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) error {
		if d < 0 {
			return ErrInvalidConfig
		}
		c.SettleDelay = d
		return nil
	}
}

// WithPollInterval sets the sleep between empty reads while waiting for the token
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return ErrInvalidConfig
		}
		c.PollInterval = d
		return nil
	}
}

// WithPreventReset controls whether DTR and RTS are held inactive on open.
// Many Arduino-style boards reboot when DTR is asserted, so it is on by default.
func WithPreventReset(enabled bool) Option {
	return func(c *Config) error {
		c.PreventReset = enabled
		return nil
	}
}

// WithLogger sets the structured logger used for handshake traces
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return ErrInvalidConfig
		}
		c.Logger = l
		return nil
	}
}
