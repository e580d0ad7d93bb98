package stats

import (
	"sync"
	"time"

	"github.com/pefman/w40k-wounds/internal/engine"
)

// Calculation is one served result, as kept for the daily top entry.
type Calculation struct {
	Profile        engine.AttackProfile `json:"profile"`
	Modifiers      engine.ModifierSet   `json:"modifiers"`
	ExpectedWounds float64              `json:"expected_wounds"`
	At             time.Time            `json:"at"`
}

// Daily aggregates the calculations served on one UTC day.
type Daily struct {
	Date  string       `json:"date"`
	Count int          `json:"count"`
	Top   *Calculation `json:"top,omitempty"`
}

// Recorder keeps in-memory per-day counters. Nothing is persisted.
type Recorder struct {
	mu    sync.Mutex
	days  map[string]*Daily
	clock func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{days: map[string]*Daily{}, clock: time.Now}
}

func dateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

// Record counts a calculation and keeps it if it beats today's top result.
func (r *Recorder) Record(p engine.AttackProfile, m engine.ModifierSet, expected float64) {
	now := r.clock()
	key := dateKey(now)
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.days[key]
	if d == nil {
		d = &Daily{Date: key}
		r.days[key] = d
	}
	d.Count++
	if d.Top == nil || expected > d.Top.ExpectedWounds {
		d.Top = &Calculation{Profile: p, Modifiers: m, ExpectedWounds: expected, At: now.UTC()}
	}
}

// Today returns a copy of today's aggregate; the zero count if nothing was recorded.
func (r *Recorder) Today() Daily {
	key := dateKey(r.clock())
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.days[key]
	if !ok {
		return Daily{Date: key}
	}
	out := *d
	if d.Top != nil {
		top := *d.Top
		out.Top = &top
	}
	return out
}
