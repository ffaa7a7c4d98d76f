package startlight

import (
	"bytes"
	"fmt"
	"sort"
	"sync"
	"time"
)

// SimReply is a chunk the simulated device sends After the first write
type SimReply struct {
	After time.Duration
	Data  []byte
}

// SimEndpoint scripts the behaviour of one simulated device
type SimEndpoint struct {
	Replies []SimReply

	// OpenFailures opens fail before one succeeds; negative fails forever
	OpenFailures int
	OpenErr      error

	WriteErr error
	DrainErr error
	ResetErr error

	// ReadErr is returned by Read once ReadErrAfter has passed since the write
	ReadErr      error
	ReadErrAfter time.Duration

	// Unbuffered sessions do not implement BufferedSession, forcing the
	// one-byte read fallback
	Unbuffered bool
}

// SimDriver is an in-memory Driver for tests and demos
type SimDriver struct {
	mu        sync.Mutex
	endpoints map[string]SimEndpoint
	attempts  map[string]int
	sessions  []*SimSession
	ListErr   error
}

var _ Driver = (*SimDriver)(nil)

// NewSimDriver creates a driver with no endpoints
func NewSimDriver() *SimDriver {
	return &SimDriver{
		endpoints: make(map[string]SimEndpoint),
		attempts:  make(map[string]int),
	}
}

// Add registers or replaces a simulated endpoint
func (d *SimDriver) Add(name string, ep SimEndpoint) *SimDriver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.endpoints[name] = ep
	return d
}

func (d *SimDriver) Name() string { return "sim" }

func (d *SimDriver) Open(endpoint string, mode Mode) (Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ep, ok := d.endpoints[endpoint]
	if !ok {
		return nil, fmt.Errorf("failed to open %s: %w", endpoint, ErrDeviceNotFound)
	}

	d.attempts[endpoint]++
	if ep.OpenFailures < 0 || d.attempts[endpoint] <= ep.OpenFailures {
		err := ep.OpenErr
		if err == nil {
			err = ErrDeviceInUse
		}
		return nil, fmt.Errorf("failed to open %s: %w", endpoint, err)
	}

	s := &SimSession{endpoint: endpoint, ep: ep, mode: mode}
	d.sessions = append(d.sessions, s)
	if ep.Unbuffered {
		return s, nil
	}
	return &bufferedSimSession{s}, nil
}

func (d *SimDriver) List() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ListErr != nil {
		return nil, d.ListErr
	}
	names := make([]string, 0, len(d.endpoints))
	for name := range d.endpoints {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Attempts returns how many opens were attempted on endpoint
func (d *SimDriver) Attempts(endpoint string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attempts[endpoint]
}

// Sessions returns every session opened so far, oldest first
func (d *SimDriver) Sessions() []*SimSession {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*SimSession(nil), d.sessions...)
}

// SimSession is one open simulated line
type SimSession struct {
	mu        sync.Mutex
	endpoint  string
	ep        SimEndpoint
	mode      Mode
	written   bytes.Buffer
	writtenAt time.Time
	released  int
	pending   []byte
	closes    int
	resets    int
}

type bufferedSimSession struct {
	*SimSession
}

func (s *bufferedSimSession) Buffered() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closes > 0 {
		return 0, ErrSessionClosed
	}
	s.release()
	return len(s.pending), nil
}

// release moves replies that are due into the pending buffer
func (s *SimSession) release() {
	if s.writtenAt.IsZero() {
		return
	}
	elapsed := time.Since(s.writtenAt)
	for s.released < len(s.ep.Replies) && s.ep.Replies[s.released].After <= elapsed {
		s.pending = append(s.pending, s.ep.Replies[s.released].Data...)
		s.released++
	}
}

func (s *SimSession) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closes > 0 {
		return 0, ErrSessionClosed
	}
	if s.ep.ReadErr != nil && !s.writtenAt.IsZero() && time.Since(s.writtenAt) >= s.ep.ReadErrAfter {
		return 0, s.ep.ReadErr
	}

	s.release()
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

func (s *SimSession) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closes > 0 {
		return 0, ErrSessionClosed
	}
	if s.ep.WriteErr != nil {
		return 0, s.ep.WriteErr
	}
	if s.writtenAt.IsZero() {
		s.writtenAt = time.Now()
	}
	return s.written.Write(p)
}

func (s *SimSession) Drain() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closes > 0 {
		return ErrSessionClosed
	}
	return s.ep.DrainErr
}

func (s *SimSession) ResetInputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resets++
	s.pending = nil
	return s.ep.ResetErr
}

func (s *SimSession) ResetOutputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resets++
	return s.ep.ResetErr
}

// Close counts every call so tests can check a session is closed exactly once
func (s *SimSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closes++
	if s.closes > 1 {
		return ErrSessionClosed
	}
	return nil
}

// Endpoint returns the endpoint the session was opened on
func (s *SimSession) Endpoint() string { return s.endpoint }

// Mode returns the line settings requested by the opener
func (s *SimSession) Mode() Mode { return s.mode }

// Written returns everything written to the session
func (s *SimSession) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.written.Bytes())
}

// Closes returns how many times Close was called
func (s *SimSession) Closes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closes
}

// Resets returns how many buffer resets were requested
func (s *SimSession) Resets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resets
}
