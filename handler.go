package startlight

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultToken is the confirmation the device sends back, matched
// case-insensitively anywhere in the response
var DefaultToken = []byte("ok")

// Handler performs raw I/O against one endpoint. Each send opens and closes
// its own Conn, so a Handler is safe for concurrent use.
type Handler struct {
	driver Driver
	config Config
	log    *slog.Logger

	mu     sync.RWMutex
	params Params
}

// NewHandler creates a handler over driver. A nil driver yields a handler
// whose sends report ReasonTransportUnavailable.
func NewHandler(driver Driver, opts ...Option) (*Handler, error) {
	config := DefaultConfig()
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	return &Handler{
		driver: driver,
		config: config,
		log:    config.Logger,
		params: Params{}.withDefaults(DefaultHandlerTimeout),
	}, nil
}

// Available reports whether a driver layer is present
func (h *Handler) Available() bool {
	return h != nil && h.driver != nil
}

// Configure replaces the stored parameters. Sends already in flight keep
// the parameters they started with.
func (h *Handler) Configure(p Params) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.params = p.withDefaults(DefaultHandlerTimeout)
}

// Params returns the stored parameters
func (h *Handler) Params() Params {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.params
}

// ListEndpoints returns the visible endpoints, or an empty slice when the
// driver is missing or enumeration fails
func (h *Handler) ListEndpoints() []string {
	if !h.Available() {
		return []string{}
	}

	ports, err := h.driver.List()
	if err != nil {
		h.log.Debug("endpoint enumeration failed", "driver", h.driver.Name(), "error", err)
		return []string{}
	}
	if ports == nil {
		return []string{}
	}
	h.log.Debug("endpoints listed", "driver", h.driver.Name(), "ports", ports)
	return ports
}

// ListDetailed returns endpoint metadata. Drivers without USB support yield
// names and descriptions only.
func (h *Handler) ListDetailed() []PortDetails {
	if !h.Available() {
		return []PortDetails{}
	}

	if dl, ok := h.driver.(DetailedLister); ok {
		details, err := dl.ListDetailed()
		if err == nil {
			return details
		}
		h.log.Debug("detailed enumeration failed, using names only", "driver", h.driver.Name(), "error", err)
	}

	ports := h.ListEndpoints()
	details := make([]PortDetails, 0, len(ports))
	for _, p := range ports {
		details = append(details, PortDetails{Name: p, Description: portDescription(p)})
	}
	return details
}

// Open opens p.Endpoint, retrying up to the configured number of attempts.
// Earlier failures are not reported when a later attempt succeeds.
func (h *Handler) Open(p Params) (*Conn, error) {
	if !h.Available() {
		return nil, ErrTransportUnavailable
	}
	p = p.withDefaults(DefaultHandlerTimeout)
	if !p.Configured() {
		return nil, ErrNotConfigured
	}

	mode := Mode{BaudRate: p.BaudRate, PreventReset: h.config.PreventReset}

	var lastErr error
	for attempt := 1; attempt <= h.config.Retries; attempt++ {
		h.log.Debug("opening endpoint",
			"endpoint", p.Endpoint,
			"baud", p.BaudRate,
			"prevent_reset", mode.PreventReset,
			"attempt", attempt,
			"retries", h.config.Retries,
		)

		sess, err := h.driver.Open(p.Endpoint, mode)
		if err == nil {
			conn := newConn(p.Endpoint, sess, h.log)
			h.settle(conn)
			h.log.Debug("endpoint open", "endpoint", p.Endpoint, "attempt", attempt)
			return conn, nil
		}

		lastErr = err
		h.log.Debug("open attempt failed", "endpoint", p.Endpoint, "attempt", attempt, "error", err)
		if attempt < h.config.Retries {
			time.Sleep(h.config.RetryDelay)
		}
	}

	return nil, fmt.Errorf("%w %s after %d attempts: %w", ErrOpenFailed, p.Endpoint, h.config.Retries, lastErr)
}

// settle gives the device a moment after open and then drops anything it
// printed while the line came up. Buffer reset failures are not fatal.
func (h *Handler) settle(c *Conn) {
	if h.config.SettleDelay > 0 {
		time.Sleep(h.config.SettleDelay)
	}
	if err := c.sess.ResetInputBuffer(); err != nil {
		h.log.Warn("input buffer reset failed", "endpoint", c.endpoint, "error", err)
	}
	if err := c.sess.ResetOutputBuffer(); err != nil {
		h.log.Warn("output buffer reset failed", "endpoint", c.endpoint, "error", err)
	}
}

// SendAndWaitForToken sends payload using the stored parameters and waits
// for token. An empty token means DefaultToken.
func (h *Handler) SendAndWaitForToken(payload, token []byte) Result {
	return h.exchange(h.Params(), payload, token)
}

// exchange runs one open/write/wait cycle. The Conn is closed before the
// result is returned on every path.
func (h *Handler) exchange(p Params, payload, token []byte) Result {
	if !h.Available() {
		return failed(ReasonTransportUnavailable, ErrTransportUnavailable)
	}
	p = p.withDefaults(DefaultHandlerTimeout)
	if !p.Configured() {
		return failed(ReasonTransportUnavailable, ErrNotConfigured)
	}
	if len(token) == 0 {
		token = DefaultToken
	}

	conn, err := h.Open(p)
	if err != nil {
		h.log.Info("handshake failed", "endpoint", p.Endpoint, "reason", ReasonOpenError, "error", err)
		return failed(ReasonOpenError, err)
	}
	defer conn.Close()

	h.log.Debug("sending payload", "endpoint", p.Endpoint, "payload", fmt.Sprintf("%q", payload))
	if err := conn.writeAll(payload); err != nil {
		h.log.Info("handshake failed", "endpoint", p.Endpoint, "reason", ReasonWriteError, "error", err)
		return failed(ReasonWriteError, fmt.Errorf("%w: %w", ErrWriteFailed, err))
	}

	res := h.waitForToken(conn, p, token)
	if res.OK {
		h.log.Info("handshake confirmed", "endpoint", p.Endpoint)
	} else {
		h.log.Info("handshake failed", "endpoint", p.Endpoint, "reason", res.Reason, "error", res.Err)
	}
	return res
}

// waitForToken polls conn until token shows up in the accumulated response
// or p.Timeout elapses. The deadline starts after the write.
func (h *Handler) waitForToken(conn *Conn, p Params, token []byte) Result {
	deadline := time.Now().Add(p.Timeout)
	needle := bytes.ToLower(token)
	var received []byte

	h.log.Debug("waiting for token", "endpoint", p.Endpoint, "token", string(token), "timeout", p.Timeout)
	for time.Now().Before(deadline) {
		chunk, err := conn.poll()
		if err != nil {
			return failed(ReasonReadError, fmt.Errorf("%w: %w", ErrReadFailed, err))
		}

		if len(chunk) > 0 {
			received = append(received, chunk...)
			h.log.Debug("received chunk", "endpoint", p.Endpoint, "chunk", fmt.Sprintf("%q", chunk), "buffer", fmt.Sprintf("%q", received))
			if bytes.Contains(bytes.ToLower(received), needle) {
				return succeeded()
			}
			continue
		}

		if wait := min(h.config.PollInterval, time.Until(deadline)); wait > 0 {
			time.Sleep(wait)
		}
	}

	return failed(ReasonTimeout, ErrNoToken)
}

// Conn is a live session on one endpoint. It is owned by a single send and
// closed exactly once, however many times Close is called.
type Conn struct {
	endpoint string
	sess     Session
	log      *slog.Logger

	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

func newConn(endpoint string, sess Session, log *slog.Logger) *Conn {
	return &Conn{endpoint: endpoint, sess: sess, log: log}
}

// Endpoint returns the endpoint the connection was opened on
func (c *Conn) Endpoint() string { return c.endpoint }

// Closed reports whether Close has been called
func (c *Conn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Write writes data to the session
func (c *Conn) Write(data []byte) (int, error) {
	if c.Closed() {
		return 0, ErrSessionClosed
	}
	return c.sess.Write(data)
}

// Read reads whatever is waiting without blocking
func (c *Conn) Read(buf []byte) (int, error) {
	if c.Closed() {
		return 0, ErrSessionClosed
	}
	return c.sess.Read(buf)
}

// Close releases the session. Errors are logged, never returned.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()

		c.log.Debug("closing endpoint", "endpoint", c.endpoint)
		if err := c.sess.Close(); err != nil {
			c.log.Warn("close failed", "endpoint", c.endpoint, "error", err)
		}
	})
}

// writeAll writes data in full and waits for it to leave the host
func (c *Conn) writeAll(data []byte) error {
	for written := 0; written < len(data); {
		n, err := c.Write(data[written:])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("short write after %d of %d bytes", written, len(data))
		}
		written += n
	}
	return c.sess.Drain()
}

// poll reads what is waiting. Sessions that cannot report a byte count, or
// report zero, get a single-byte read instead.
func (c *Conn) poll() ([]byte, error) {
	if c.Closed() {
		return nil, ErrSessionClosed
	}

	want := 1
	if bs, ok := c.sess.(BufferedSession); ok {
		if n, err := bs.Buffered(); err == nil && n > 0 {
			want = n
		}
	}

	buf := make([]byte, want)
	n, err := c.sess.Read(buf)
	if err != nil {
		return nil, err
	}
	return buf[:n], nil
}
