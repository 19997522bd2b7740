package format

import (
	"math"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d    time.Duration
		want string
	}{
		{750 * time.Nanosecond, "0µs"},
		{42 * time.Microsecond, "42µs"},
		{12 * time.Millisecond, "12ms"},
		{1500 * time.Millisecond, "1.5s"},
		{2*time.Minute + 30*time.Second, "2 minutes 30 seconds"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1 hour 2 minutes"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.want {
			t.Errorf("FormatExecutionDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatRate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		ops  uint64
		d    time.Duration
		want string
	}{
		{500, time.Second, "500 ops/s"},
		{25_000, 2 * time.Second, "12.5k ops/s"},
		{3_000_000, time.Second, "3.0M ops/s"},
		{2_000_000_000, time.Second, "2.0G ops/s"},
		{10, 0, "- ops/s"},
	}
	for _, tt := range tests {
		if got := FormatRate(tt.ops, tt.d); got != tt.want {
			t.Errorf("FormatRate(%d, %v) = %q, want %q", tt.ops, tt.d, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()
	for n, want := range map[uint64]string{512: "512 B", 1536: "1.5 KiB", 3 << 20: "3.0 MiB", 5 << 30: "5.0 GiB"} {
		if got := FormatBytes(n); got != want {
			t.Errorf("FormatBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	tests := []struct {
		eta  time.Duration
		want string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{45 * time.Second, "45s"},
		{time.Minute, "1m"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{time.Hour, "1h"},
		{3*time.Hour + 45*time.Minute, "3h45m"},
	}
	for _, tt := range tests {
		if got := FormatETA(tt.eta); got != tt.want {
			t.Errorf("FormatETA(%v) = %q, want %q", tt.eta, got, tt.want)
		}
	}
}

func TestProgressWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(100)
	start := p.startTime
	p.now = func() time.Time { return start.Add(10 * time.Second) }

	if p.ETA() != 0 || p.Fraction() != 0 {
		t.Errorf("fresh progress: eta %v fraction %v", p.ETA(), p.Fraction())
	}

	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Add(1)
		}()
	}
	wg.Wait()

	if p.Done() != 25 || p.Fraction() != 0.25 {
		t.Errorf("done %d fraction %v, want 25 and 0.25", p.Done(), p.Fraction())
	}
	if eta := p.ETA(); eta != 30*time.Second {
		t.Errorf("ETA = %v, want 30s", eta)
	}

	p.Add(1000)
	if p.Fraction() != 1 || p.ETA() != 0 {
		t.Errorf("overshoot: fraction %v eta %v", p.Fraction(), p.ETA())
	}
}

func TestETACapping(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1 << 40)
	start := p.startTime
	p.now = func() time.Time { return start.Add(time.Hour) }
	p.Add(1)
	if eta := p.ETA(); eta != maxETA {
		t.Errorf("ETA = %v, want capped %v", eta, maxETA)
	}

	// the raw estimate does not fit a time.Duration
	p = NewProgressWithETA(math.MaxUint64)
	p.now = func() time.Time { return start.Add(time.Hour) }
	p.Add(1)
	if eta := p.ETA(); eta != maxETA {
		t.Errorf("ETA of an overflowing estimate = %v, want capped %v", eta, maxETA)
	}
	if NewProgressWithETA(0).Fraction() != 1 {
		t.Error("empty work should read as complete")
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.5, 30*time.Second, 10)
	if got != "[█████░░░░░]  50.0% ETA: 30s" {
		t.Errorf("got %q", got)
	}
	if got := FormatProgressBarWithETA(1.7, 0, 4); !strings.HasPrefix(got, "[████] 100.0%") {
		t.Errorf("overflowing progress = %q", got)
	}
	if got := ProgressBar(-1, 3); got != "░░░" {
		t.Errorf("negative progress bar = %q", got)
	}
}

func TestProgressObserve(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(10)
	p.Observe(4)
	p.Observe(2)
	if p.Done() != 4 {
		t.Errorf("Done = %d after an out-of-order report, want 4", p.Done())
	}
	p.Observe(10)
	if p.Fraction() != 1 {
		t.Errorf("Fraction = %v, want 1", p.Fraction())
	}
}
