package ui

import (
	"fmt"
	"time"
)

type durationRing struct {
	buf   []time.Duration
	idx   int
	count int
}

func newDurationRing(n int) *durationRing {
	if n < 1 {
		n = 1
	}
	return &durationRing{buf: make([]time.Duration, n)}
}

func (r *durationRing) add(d time.Duration) {
	r.buf[r.idx] = d
	r.idx = (r.idx + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

type durationStats struct {
	last time.Duration
	max  time.Duration
	avg  time.Duration
	n    int
}

func (r *durationRing) snapshot() durationStats {
	if r.count == 0 {
		return durationStats{}
	}
	var sum, longest time.Duration
	for i := 0; i < r.count; i++ {
		d := r.buf[i]
		sum += d
		longest = max(longest, d)
	}
	lastIdx := r.idx - 1
	if lastIdx < 0 {
		lastIdx = len(r.buf) - 1
	}
	return durationStats{
		last: r.buf[lastIdx],
		max:  longest,
		avg:  sum / time.Duration(r.count),
		n:    r.count,
	}
}

// dashboardMetrics is only touched from the bubbletea event loop.
type dashboardMetrics struct {
	enabled bool

	started time.Time
	loadAt  time.Time
	load    time.Duration
	derive  time.Duration
	records int
	render  *durationRing
}

func newDashboardMetrics(enabled bool, window int) *dashboardMetrics {
	return &dashboardMetrics{
		enabled: enabled,
		started: time.Now(),
		render:  newDurationRing(window),
	}
}

func (m *dashboardMetrics) observeLoad(d time.Duration, records int) {
	if !m.enabled {
		return
	}
	m.loadAt = time.Now()
	m.load = d
	m.records = records
}

func (m *dashboardMetrics) observeDerive(d time.Duration) {
	if !m.enabled {
		return
	}
	m.derive = d
}

func (m *dashboardMetrics) observeRender(d time.Duration) {
	if !m.enabled {
		return
	}
	m.render.add(d)
}

func (m *dashboardMetrics) lines() []string {
	if !m.enabled {
		return nil
	}
	title := "STATS"
	if m.loadAt.IsZero() {
		title = "STATS (LOADING)"
	}
	r := m.render.snapshot()
	return []string{
		title,
		fmt.Sprintf("records: %d  uptime: %s", m.records, time.Since(m.started).Truncate(time.Second)),
		fmt.Sprintf("load: %s  derive: %s", formatMetricDuration(m.load), formatMetricDuration(m.derive)),
		fmt.Sprintf("render last/avg/max: %s / %s / %s (n=%d)",
			formatMetricDuration(r.last), formatMetricDuration(r.avg), formatMetricDuration(r.max), r.n),
	}
}

func formatMetricDuration(d time.Duration) string {
	if d <= 0 {
		return "0.000ms"
	}
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}
