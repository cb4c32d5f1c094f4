// Package performance provides lightweight operation tracking so slow
// upstream calls and exports show up in the performance log channel.
package performance

import (
	"sync"
	"time"
)

// Marker represents a single performance measurement for an operation
type Marker struct {
	Operation string        `json:"operation"`
	StartTime time.Time     `json:"startTime"`
	EndTime   time.Time     `json:"endTime"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Completed bool          `json:"completed"`
}

// Complete marks the operation as finished and records its duration
func (m *Marker) Complete() {
	if m.Completed {
		return
	}
	m.EndTime = time.Now()
	m.Duration = m.EndTime.Sub(m.StartTime)
	m.Completed = true
}

// SetSuccess marks the operation as successful or failed
func (m *Marker) SetSuccess(success bool) {
	m.Success = success
}

// SetError records an error message and marks the operation as failed
func (m *Marker) SetError(err error) {
	if err != nil {
		m.Error = err.Error()
		m.Success = false
	}
}

// Tracker collects markers for recent operations
type Tracker struct {
	markers    []*Marker
	maxMarkers int
	mu         sync.Mutex
}

// NewTracker creates a tracker retaining up to maxMarkers recent operations
func NewTracker(maxMarkers int) *Tracker {
	if maxMarkers <= 0 {
		maxMarkers = 1000
	}
	return &Tracker{maxMarkers: maxMarkers}
}

// StartOperation opens a new marker for the named operation
func (t *Tracker) StartOperation(operation string) *Marker {
	marker := &Marker{
		Operation: operation,
		StartTime: time.Now(),
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.markers = append(t.markers, marker)
	if len(t.markers) > t.maxMarkers {
		t.markers = t.markers[len(t.markers)-t.maxMarkers:]
	}
	return marker
}

// Recent returns a snapshot of the retained markers
func (t *Tracker) Recent() []*Marker {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Marker, len(t.markers))
	copy(out, t.markers)
	return out
}
