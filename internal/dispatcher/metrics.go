package dispatcher

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Metrics collects dispatch statistics per command name. It may be read
// from another goroutine while the machine runs.
type Metrics struct {
	mu sync.RWMutex

	commands map[string]*CommandStats

	dispatches uint64
	errors     uint64
	panics     uint64
	elapsed    time.Duration
}

// CommandStats holds the statistics of one command name.
type CommandStats struct {
	Name          string
	DispatchCount uint64
	ErrorCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastStatus    Status
	LastDispatch  time.Time
}

// Average returns the mean duration of the command.
func (cs *CommandStats) Average() time.Duration {
	if cs.DispatchCount == 0 {
		return 0
	}
	return cs.TotalDuration / time.Duration(cs.DispatchCount)
}

// ErrorRate returns the error rate as a percentage.
func (cs *CommandStats) ErrorRate() float64 {
	if cs.DispatchCount == 0 {
		return 0
	}
	return float64(cs.ErrorCount) / float64(cs.DispatchCount) * 100
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{commands: make(map[string]*CommandStats)}
}

// RecordDispatch records one dispatch of name.
func (m *Metrics) RecordDispatch(name string, d time.Duration, status Status) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dispatches++
	m.elapsed += d

	cs := m.commands[name]
	if cs == nil {
		cs = &CommandStats{Name: name, MinDuration: d, MaxDuration: d}
		m.commands[name] = cs
	}
	cs.DispatchCount++
	cs.TotalDuration += d
	cs.LastStatus = status
	cs.LastDispatch = time.Now()
	cs.MinDuration = min(cs.MinDuration, d)
	cs.MaxDuration = max(cs.MaxDuration, d)
	if status == StatusError {
		m.errors++
		cs.ErrorCount++
	}
}

// RecordPanic records a recovered handler panic.
func (m *Metrics) RecordPanic(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.panics++
}

// Stats returns a copy of the statistics for name, or nil.
func (m *Metrics) Stats(name string) *CommandStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cs := m.commands[name]
	if cs == nil {
		return nil
	}
	c := *cs
	return &c
}

// Top returns the n most dispatched commands.
func (m *Metrics) Top(n int) []*CommandStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	all := make([]*CommandStats, 0, len(m.commands))
	for _, cs := range m.commands {
		c := *cs
		all = append(all, &c)
	}
	slices.SortFunc(all, func(a, b *CommandStats) int {
		if c := cmp.Compare(b.DispatchCount, a.DispatchCount); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return all[:min(n, len(all))]
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = make(map[string]*CommandStats)
	m.dispatches, m.errors, m.panics, m.elapsed = 0, 0, 0, 0
}

// MetricsSnapshot is a point-in-time view of the totals.
type MetricsSnapshot struct {
	Dispatches uint64
	Errors     uint64
	Panics     uint64
	Elapsed    time.Duration
	Average    time.Duration
	Commands   int
}

// Snapshot returns the current totals.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := MetricsSnapshot{
		Dispatches: m.dispatches,
		Errors:     m.errors,
		Panics:     m.panics,
		Elapsed:    m.elapsed,
		Commands:   len(m.commands),
	}
	if m.dispatches > 0 {
		s.Average = m.elapsed / time.Duration(m.dispatches)
	}
	return s
}
