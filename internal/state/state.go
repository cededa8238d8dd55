// Package state provides thread-safe state management for the application:
// it owns the current prepared brightness session and guarantees queries
// never race with a re-prepare.
package state

import (
	"sync"
	"time"

	"github.com/litescript/ls-skyglow/internal/astro"
	"github.com/litescript/ls-skyglow/internal/observation"
	"github.com/litescript/ls-skyglow/internal/skybright"
)

// EventType represents the type of sky state change event.
type EventType string

const (
	EventSunrise  EventType = "SUNRISE"
	EventSunset   EventType = "SUNSET"
	EventMoonrise EventType = "MOONRISE"
	EventMoonset  EventType = "MOONSET"
)

// Event represents a horizon crossing detected between two updates.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AzDeg     float64   `json:"az_deg"`
}

// HistorySample is one zenith luminance point in the history buffer.
type HistorySample struct {
	Timestamp time.Time
	Luminance float64 // cd/m²
}

// Manager handles all shared sky state with thread-safe access. Each Update
// publishes a freshly prepared session; published sessions are never mutated
// again, so snapshots stay valid however long a reader holds them.
type Manager struct {
	mu sync.RWMutex

	ctx observation.Context

	// Current state
	session    *skybright.Session
	geometry   observation.Geometry
	preparedAt time.Time

	// Previous geometry for horizon-crossing detection
	prevGeometry observation.Geometry
	hasPrev      bool

	// History of zenith luminance
	history       []HistorySample
	maxHistoryLen int

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	refreshInterval time.Duration
}

// Config holds configuration for the state manager.
type Config struct {
	MaxHistoryLen   int
	MaxEvents       int
	RefreshInterval time.Duration
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxHistoryLen:   120, // 2 hours at 1 update/min
		MaxEvents:       50,
		RefreshInterval: time.Minute,
	}
}

// NewManager creates a new state manager for the given observation context.
func NewManager(ctx observation.Context, cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		ctx:             ctx,
		maxHistoryLen:   cfg.MaxHistoryLen,
		maxEvents:       maxEvents,
		events:          make([]Event, 0, maxEvents),
		refreshInterval: cfg.RefreshInterval,
	}
}

// Snapshot is an immutable view of the manager's state. The session pointer
// references a session that will never be re-prepared.
type Snapshot struct {
	Session    *skybright.Session
	Geometry   observation.Geometry
	Context    observation.Context
	PreparedAt time.Time
	History    []HistorySample
	Events     []Event
}

// HasData reports whether the snapshot carries a prepared session.
func (s Snapshot) HasData() bool { return s.Session != nil }

// ZenithLuminance evaluates the snapshot's session straight overhead.
func (s Snapshot) ZenithLuminance() float64 {
	if s.Session == nil {
		return 0
	}
	return observation.Luminance(s.Session, s.Geometry,
		astro.Direction{AzDeg: 0, AltDeg: 90})
}

// Update atomically re-prepares the session for time t and records history
// and horizon-crossing events. The new session is a fresh allocation; any
// previously returned snapshot keeps its own.
func (m *Manager) Update(t time.Time) Snapshot {
	session, geometry := m.ctx.NewSession(t)
	lum := observation.Luminance(session, geometry,
		astro.Direction{AzDeg: 0, AltDeg: 90})

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasPrev {
		m.detectEvents(m.prevGeometry, geometry)
	}
	m.prevGeometry = geometry
	m.hasPrev = true

	m.session = session
	m.geometry = geometry
	m.preparedAt = t

	m.history = append(m.history, HistorySample{Timestamp: t, Luminance: lum})
	if len(m.history) > m.maxHistoryLen {
		m.history = m.history[1:]
	}

	return m.snapshotLocked()
}

// detectEvents compares consecutive geometries for horizon crossings.
func (m *Manager) detectEvents(prev, curr observation.Geometry) {
	if !prev.Sun.AboveHorizon() && curr.Sun.AboveHorizon() {
		m.addEvent(Event{Type: EventSunrise, Timestamp: curr.Time, AzDeg: curr.Sun.AzDeg})
	}
	if prev.Sun.AboveHorizon() && !curr.Sun.AboveHorizon() {
		m.addEvent(Event{Type: EventSunset, Timestamp: curr.Time, AzDeg: curr.Sun.AzDeg})
	}
	if !prev.Moon.AboveHorizon() && curr.Moon.AboveHorizon() {
		m.addEvent(Event{Type: EventMoonrise, Timestamp: curr.Time, AzDeg: curr.Moon.AzDeg})
	}
	if prev.Moon.AboveHorizon() && !curr.Moon.AboveHorizon() {
		m.addEvent(Event{Type: EventMoonset, Timestamp: curr.Time, AzDeg: curr.Moon.AzDeg})
	}
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
		return
	}
	m.events[m.eventWriteAt] = e
	m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
}

// Snapshot returns an immutable view of the current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	history := make([]HistorySample, len(m.history))
	copy(history, m.history)

	return Snapshot{
		Session:    m.session,
		Geometry:   m.geometry,
		Context:    m.ctx,
		PreparedAt: m.preparedAt,
		History:    history,
		Events:     m.eventsOrdered(),
	}
}

// eventsOrdered returns events oldest-first from the ring buffer.
func (m *Manager) eventsOrdered() []Event {
	out := make([]Event, 0, len(m.events))
	if len(m.events) < m.maxEvents {
		return append(out, m.events...)
	}
	out = append(out, m.events[m.eventWriteAt:]...)
	out = append(out, m.events[:m.eventWriteAt]...)
	return out
}

// RefreshInterval returns the configured update cadence.
func (m *Manager) RefreshInterval() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.refreshInterval
}

// Context returns the observation context the manager was built with.
func (m *Manager) Context() observation.Context {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ctx
}
