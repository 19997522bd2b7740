package format

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// maxETA caps estimates made from very little progress.
const maxETA = 24 * time.Hour

// ProgressWithETA tracks completion of a fixed number of work items and
// estimates the remaining time from the average rate so far. It is safe for
// concurrent use.
type ProgressWithETA struct {
	total     uint64
	done      atomic.Uint64
	startTime time.Time
	now       func() time.Time
}

// NewProgressWithETA starts tracking total items.
func NewProgressWithETA(total uint64) *ProgressWithETA {
	return &ProgressWithETA{total: total, startTime: time.Now(), now: time.Now}
}

// Add records n completed items and returns the new completed count.
func (p *ProgressWithETA) Add(n uint64) uint64 {
	return p.done.Add(n)
}

// Observe raises the completed count to done. Reports arriving out of order
// never move it backwards.
func (p *ProgressWithETA) Observe(done uint64) {
	for {
		cur := p.done.Load()
		if done <= cur || p.done.CompareAndSwap(cur, done) {
			return
		}
	}
}

// Done returns the number of completed items.
func (p *ProgressWithETA) Done() uint64 { return p.done.Load() }

// Fraction returns the completed fraction in [0, 1].
func (p *ProgressWithETA) Fraction() float64 {
	if p.total == 0 {
		return 1
	}
	return min(float64(p.done.Load())/float64(p.total), 1)
}

// ETA estimates the remaining time. It returns 0 until some progress has
// been made.
func (p *ProgressWithETA) ETA() time.Duration {
	done := p.done.Load()
	if done == 0 || done >= p.total {
		return 0
	}
	elapsed := p.now().Sub(p.startTime)
	eta := float64(elapsed) * float64(p.total-done) / float64(done)
	if eta >= float64(maxETA) {
		return maxETA
	}
	return time.Duration(eta)
}

// FormatETA formats an estimate compactly: "< 1s", "45s", "2m30s", "1h15m".
// Non-positive values read "calculating...".
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m, s := int(eta.Minutes()), int(eta.Seconds())%60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h, m := int(eta.Hours()), int(eta.Minutes())%60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}

// ProgressBar renders a bar of the given width for a fraction in [0, 1].
func ProgressBar(progress float64, width int) string {
	progress = max(0, min(progress, 1))
	filled := int(progress * float64(width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// FormatProgressBarWithETA renders "[bar]  50.0% ETA: 30s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	progress = max(0, min(progress, 1))
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), progress*100, FormatETA(eta))
}
