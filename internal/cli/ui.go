//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/mpcalc/internal/format"
)

const (
	// ProgressRefreshRate is the spinner frame interval.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 30
)

// Spinner abstracts the terminal spinner so progress display can be tested
// without a terminal.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text displayed after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts spinner.Spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// ProgressDisplay shows a spinner with a progress bar and an ETA while a
// long run is in progress. Update may be called from several goroutines.
type ProgressDisplay struct {
	label    string
	spinner  Spinner
	progress *format.ProgressWithETA

	mu      sync.Mutex
	running bool
}

// NewProgressDisplay prepares a display for total items written to out.
func NewProgressDisplay(out io.Writer, label string, total uint64) *ProgressDisplay {
	return &ProgressDisplay{
		label:    label,
		spinner:  newSpinner(spinner.WithWriter(out)),
		progress: format.NewProgressWithETA(total),
	}
}

// Start begins the animation.
func (p *ProgressDisplay) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.spinner.UpdateSuffix(p.suffix())
	p.spinner.Start()
}

// Update records done of total items. Its signature matches the progress
// callbacks of the batch package.
func (p *ProgressDisplay) Update(done, total uint64) {
	p.progress.Observe(done)
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		p.spinner.UpdateSuffix(p.suffix())
	}
}

// Stop ends the animation. It is safe to call more than once.
func (p *ProgressDisplay) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.running {
		return
	}
	p.running = false
	p.spinner.Stop()
}

func (p *ProgressDisplay) suffix() string {
	return " " + p.label + " " + format.FormatProgressBarWithETA(p.progress.Fraction(), p.progress.ETA(), ProgressBarWidth)
}
