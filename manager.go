package startlight

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/sync/singleflight"
)

// StartCommand is the payload that arms the start light
var StartCommand = []byte("start\n")

// Manager is the entry point for hosts. It owns the connection parameters
// and dispatches start commands to its Handler, synchronously or on a
// goroutine per request.
type Manager struct {
	handler *Handler
	log     *slog.Logger

	mu     sync.RWMutex
	params Params

	// Concurrent sends with identical parameters share a single
	// open/write/wait cycle
	flights singleflight.Group

	// Serializes exchanges per endpoint
	linesMu sync.Mutex
	lines   map[string]*sync.Mutex
}

// NewManager creates a manager over h. A nil handler means no driver layer
// is available; every send then reports ReasonTransportUnavailable.
func NewManager(h *Handler) *Manager {
	m := &Manager{
		handler: h,
		log:     slog.New(slog.DiscardHandler),
		params:  Params{}.withDefaults(DefaultTimeout),
		lines:   make(map[string]*sync.Mutex),
	}
	if h != nil {
		m.log = h.log
		h.Configure(m.params)
	}
	return m
}

// Handler returns the underlying handler, which may be nil
func (m *Manager) Handler() *Handler {
	return m.handler
}

// Params returns the stored parameters
func (m *Manager) Params() Params {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.params
}

// ListEndpoints returns the visible endpoints; never nil
func (m *Manager) ListEndpoints() []string {
	if m.handler == nil {
		return []string{}
	}
	return m.handler.ListEndpoints()
}

// ListDetailed returns endpoint metadata; never nil
func (m *Manager) ListDetailed() []PortDetails {
	if m.handler == nil {
		return []PortDetails{}
	}
	return m.handler.ListDetailed()
}

// ValidateAndSet stores new parameters and pushes them to the handler.
// baudRate and timeoutSeconds may be numbers, numeric strings or (for the
// timeout) a time.Duration; anything unusable falls back to 9600 baud and
// 10 seconds. No I/O is performed.
func (m *Manager) ValidateAndSet(endpoint string, baudRate, timeoutSeconds any) Params {
	p := Params{
		Endpoint: strings.TrimSpace(endpoint),
		BaudRate: coerceBaudRate(baudRate),
		Timeout:  coerceTimeout(timeoutSeconds),
	}

	m.mu.Lock()
	m.params = p
	m.mu.Unlock()

	if m.handler != nil {
		m.handler.Configure(p)
	}

	m.log.Debug("parameters set", "endpoint", p.Endpoint, "baud", p.BaudRate, "timeout", p.Timeout)
	return p
}

func coerceBaudRate(v any) int {
	var (
		baud int
		err  error
	)
	// Strings are always decimal; "010" is ten, not eight
	if s, ok := v.(string); ok {
		baud, err = strconv.Atoi(strings.TrimSpace(s))
	} else {
		baud, err = cast.ToIntE(v)
	}
	if err != nil || baud <= 0 {
		return DefaultBaudRate
	}
	return baud
}

func coerceTimeout(v any) time.Duration {
	switch t := v.(type) {
	case time.Duration:
		if t > 0 {
			return t
		}
		return DefaultTimeout
	case string:
		v = strings.TrimSpace(t)
	}

	secs, err := cast.ToFloat64E(v)
	if err != nil || secs <= 0 || math.IsNaN(secs) {
		return DefaultTimeout
	}
	// Values past the Duration range would wrap negative
	ns := secs * float64(time.Second)
	if ns >= float64(math.MaxInt64) || ns < 1 {
		return DefaultTimeout
	}
	return time.Duration(ns)
}

// SendStartSync sends the start command and blocks until the device
// confirms, the timeout elapses or the send fails. A positive
// timeoutOverride replaces the stored timeout for this call only.
func (m *Manager) SendStartSync(timeoutOverride ...time.Duration) Result {
	return m.send(m.snapshot(timeoutOverride))
}

// SendStartAsync runs SendStartSync on its own goroutine and hands the
// result to onResult on that goroutine, exactly once. Hosts with a
// single-threaded UI must marshal the callback themselves. The send cannot
// be cancelled; the returned Pending only tracks completion.
func (m *Manager) SendStartAsync(onResult func(Result), timeoutOverride ...time.Duration) *Pending {
	p := m.snapshot(timeoutOverride)
	pending := &Pending{done: make(chan struct{})}

	go func() {
		defer close(pending.done)
		m.log.Debug("async send started", "endpoint", p.Endpoint)
		res := m.send(p)
		pending.res = res
		m.log.Debug("async send finished", "endpoint", p.Endpoint, "ok", res.OK, "reason", res.Reason)
		m.deliver(onResult, res)
	}()

	return pending
}

// snapshot copies the stored parameters, applying an optional override
func (m *Manager) snapshot(timeoutOverride []time.Duration) Params {
	p := m.Params()
	if len(timeoutOverride) > 0 && timeoutOverride[0] > 0 {
		m.log.Debug("timeout overridden for one send", "timeout", timeoutOverride[0], "stored", p.Timeout)
		p.Timeout = timeoutOverride[0]
	}
	return p
}

func (m *Manager) send(p Params) Result {
	if !m.handler.Available() {
		return failed(ReasonTransportUnavailable, ErrTransportUnavailable)
	}
	if !p.Configured() {
		return failed(ReasonTransportUnavailable, ErrNotConfigured)
	}

	key := fmt.Sprintf("%s|%d|%d", p.Endpoint, p.BaudRate, p.Timeout)
	v, _, shared := m.flights.Do(key, func() (any, error) {
		line := m.line(p.Endpoint)
		line.Lock()
		defer line.Unlock()
		return m.exchange(p), nil
	})
	res := v.(Result)
	res.Shared = shared
	return res
}

// line returns the mutex guarding endpoint
func (m *Manager) line(endpoint string) *sync.Mutex {
	m.linesMu.Lock()
	defer m.linesMu.Unlock()
	mu, ok := m.lines[endpoint]
	if !ok {
		mu = &sync.Mutex{}
		m.lines[endpoint] = mu
	}
	return mu
}

// exchange runs one handshake, turning a driver panic into a failed result
func (m *Manager) exchange(p Params) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("driver panicked", "endpoint", p.Endpoint, "panic", r)
			res = failed(ReasonReadError, fmt.Errorf("%w: %v", ErrDriverPanic, r))
		}
	}()
	return m.handler.exchange(p, StartCommand, DefaultToken)
}

// deliver invokes fn, containing any panic so a faulty callback cannot take
// the host down
func (m *Manager) deliver(fn func(Result), res Result) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("result callback panicked", "panic", r)
		}
	}()
	fn(res)
}

// Pending tracks an asynchronous send
type Pending struct {
	done chan struct{}
	res  Result
}

// Done is closed once the send has finished and its callback has returned
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the send has finished and returns its result
func (p *Pending) Wait() Result {
	<-p.done
	return p.res
}
