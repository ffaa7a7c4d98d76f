package models

import (
	"sync"
	"time"

	"github.com/allbin/startlight"
	tea "github.com/charmbracelet/bubbletea"
)

// ArmState is where the arm screen is in its send cycle
type ArmState int

const (
	ArmStateIdle ArmState = iota
	ArmStateArming
	ArmStateConfirmed
	ArmStateFailed
)

func (s ArmState) String() string {
	switch s {
	case ArmStateArming:
		return "ARMING"
	case ArmStateConfirmed:
		return "CONFIRMED"
	case ArmStateFailed:
		return "FAILED"
	default:
		return "IDLE"
	}
}

// Sender is the part of startlight.Manager the arm screen drives
type Sender interface {
	SendStartAsync(onResult func(startlight.Result), timeoutOverride ...time.Duration) *startlight.Pending
	Params() startlight.Params
	ListEndpoints() []string
}

// ResultMsg carries a finished send back into the bubbletea loop
type ResultMsg struct {
	Result   startlight.Result
	Started  time.Time
	Finished time.Time
}

func (r ResultMsg) Elapsed() time.Duration {
	return r.Finished.Sub(r.Started)
}

// PortsMsg carries a fresh endpoint scan
type PortsMsg struct {
	Ports []string
}

type ArmModel struct {
	sender Sender

	// Posts messages into the running program; set to Program.Send
	dispatch func(tea.Msg)

	state   ArmState
	started time.Time
	history []ResultMsg
	ports   []string
	ready   bool

	mu sync.RWMutex
}

func NewArmModel(sender Sender) *ArmModel {
	return &ArmModel{
		sender:  sender,
		history: make([]ResultMsg, 0),
	}
}

// SetDispatch installs the function used to hand results to the UI loop
func (m *ArmModel) SetDispatch(fn func(tea.Msg)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatch = fn
}

func (m *ArmModel) Params() startlight.Params {
	return m.sender.Params()
}

// Fire starts an asynchronous send. It returns false while a send is
// already in flight or when no dispatcher is installed.
func (m *ArmModel) Fire() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == ArmStateArming || m.dispatch == nil {
		return false
	}

	started := time.Now()
	dispatch := m.dispatch
	m.state = ArmStateArming
	m.started = started

	m.sender.SendStartAsync(func(res startlight.Result) {
		dispatch(ResultMsg{Result: res, Started: started, Finished: time.Now()})
	})
	return true
}

// Complete records a finished send
func (m *ArmModel) Complete(msg ResultMsg) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if msg.Result.OK {
		m.state = ArmStateConfirmed
	} else {
		m.state = ArmStateFailed
	}
	m.history = append(m.history, msg)
}

func (m *ArmModel) State() ArmState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *ArmModel) IsArming() bool {
	return m.State() == ArmStateArming
}

// Waiting reports how long the current send has been in flight
func (m *ArmModel) Waiting() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state != ArmStateArming {
		return 0
	}
	return time.Since(m.started)
}

// Last returns the most recent result, if any
func (m *ArmModel) Last() (ResultMsg, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.history) == 0 {
		return ResultMsg{}, false
	}
	return m.history[len(m.history)-1], true
}

func (m *ArmModel) History() []ResultMsg {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]ResultMsg(nil), m.history...)
}

// ClearHistory forgets past results; an in-flight send is unaffected
func (m *ArmModel) ClearHistory() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = make([]ResultMsg, 0)
	if m.state != ArmStateArming {
		m.state = ArmStateIdle
	}
}

// ScanPorts lists endpoints off the UI goroutine and dispatches a PortsMsg
func (m *ArmModel) ScanPorts() {
	m.mu.RLock()
	dispatch := m.dispatch
	m.mu.RUnlock()
	if dispatch == nil {
		return
	}
	go func() {
		dispatch(PortsMsg{Ports: m.sender.ListEndpoints()})
	}()
}

func (m *ArmModel) SetPorts(ports []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ports = ports
}

func (m *ArmModel) Ports() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ports
}

func (m *ArmModel) IsReady() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

func (m *ArmModel) SetReady(ready bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = ready
}
