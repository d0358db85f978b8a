// Package state tracks the live GPS session of every rider.
package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"
)

// Session states
const (
	StateIdle     = "idle"
	StateTracking = "tracking"
	StatePaused   = "paused"
)

// Events
const (
	EventStart  = "start"
	EventPause  = "pause"
	EventResume = "resume"
	EventStop   = "stop"
)

// Session is the live view of a rider's tracking session.
type Session struct {
	RiderID      string    `json:"rider_id"`
	State        string    `json:"state"`
	Since        time.Time `json:"since"`
	SessionID    string    `json:"session_id,omitempty"`
	TripID       int64     `json:"trip_id,omitempty"`
	StartedAt    time.Time `json:"started_at,omitempty"`
	DistanceKm   float64   `json:"distance_km"`
	FixCount     int       `json:"fix_count"`
	Latitude     float64   `json:"latitude,omitempty"`
	Longitude    float64   `json:"longitude,omitempty"`
	Speed        float64   `json:"speed"`
	LastFixAt    time.Time `json:"last_fix_at,omitempty"`
	LastActivity time.Time `json:"last_activity"`
}

// Active reports whether the session has an open trip.
func (s Session) Active() bool {
	return s.State == StateTracking || s.State == StatePaused
}

// Machine is the state machine of one rider.
type Machine struct {
	mu            sync.RWMutex
	opMu          sync.Mutex
	riderID       string
	fsm           *fsm.FSM
	state         *Session
	onStateChange func(riderID, from, to string)
}

func NewMachine(riderID string, onStateChange func(riderID, from, to string)) *Machine {
	now := time.Now()
	m := &Machine{
		riderID:       riderID,
		onStateChange: onStateChange,
		state: &Session{
			RiderID:      riderID,
			State:        StateIdle,
			Since:        now,
			LastActivity: now,
		},
	}

	m.fsm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: EventStart, Src: []string{StateIdle}, Dst: StateTracking},
			{Name: EventPause, Src: []string{StateTracking}, Dst: StatePaused},
			{Name: EventResume, Src: []string{StatePaused}, Dst: StateTracking},
			{Name: EventStop, Src: []string{StateTracking, StatePaused}, Dst: StateIdle},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				if m.onStateChange != nil && e.Src != e.Dst {
					m.onStateChange(m.riderID, e.Src, e.Dst)
				}
			},
		},
	)

	return m
}

func (m *Machine) CurrentState() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Current()
}

// Snapshot returns a copy of the session.
func (m *Machine) Snapshot() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := *m.state
	s.State = m.fsm.Current()
	return s
}

func (m *Machine) Update(update func(s *Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	update(m.state)
}

// Trigger fires event. Leaving a session through stop clears the per-trip fields.
func (m *Machine) Trigger(event string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fsm.Event(context.Background(), event); err != nil {
		return fmt.Errorf("trigger event %s: %w", event, err)
	}

	now := time.Now()
	m.state.State = m.fsm.Current()
	m.state.Since = now
	m.state.LastActivity = now
	if m.state.State == StateIdle {
		*m.state = Session{
			RiderID:      m.riderID,
			State:        StateIdle,
			Since:        now,
			LastActivity: now,
		}
	}
	return nil
}

func (m *Machine) Can(event string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fsm.Can(event)
}

// Exclusive runs fn while no other Exclusive call on this machine runs.
// Multi-step operations such as opening a trip and starting the session use it.
func (m *Machine) Exclusive(fn func() error) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return fn()
}

// Manager keeps one machine per rider.
type Manager struct {
	mu       sync.RWMutex
	machines map[string]*Machine
	onChange func(riderID, from, to string)
}

func NewManager(onChange func(riderID, from, to string)) *Manager {
	return &Manager{
		machines: make(map[string]*Machine),
		onChange: onChange,
	}
}

func (m *Manager) GetOrCreate(riderID string) *Machine {
	m.mu.Lock()
	defer m.mu.Unlock()

	if machine, ok := m.machines[riderID]; ok {
		return machine
	}

	machine := NewMachine(riderID, m.onChange)
	m.machines[riderID] = machine
	return machine
}

func (m *Manager) Get(riderID string) (*Machine, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	machine, ok := m.machines[riderID]
	return machine, ok
}

// Active returns the machines that currently hold an open session.
func (m *Manager) Active() []*Machine {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var active []*Machine
	for _, machine := range m.machines {
		if machine.Snapshot().Active() {
			active = append(active, machine)
		}
	}
	return active
}
