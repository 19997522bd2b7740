// Package format renders durations, rates and progress for terminal output.
package format

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
)

// FormatExecutionDuration formats d for display: microseconds below a
// millisecond, milliseconds below a second, Go notation below a minute and
// words ("2 minutes 30 seconds") above.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return d.Round(time.Millisecond).String()
	}
	return durafmt.Parse(d.Round(time.Second)).LimitFirstN(2).String()
}

// FormatRate formats an operation throughput, e.g. "12.3M ops/s".
func FormatRate(ops uint64, elapsed time.Duration) string {
	if elapsed <= 0 {
		return "- ops/s"
	}
	rate := float64(ops) / elapsed.Seconds()
	switch {
	case rate >= 1e9:
		return fmt.Sprintf("%.1fG ops/s", rate/1e9)
	case rate >= 1e6:
		return fmt.Sprintf("%.1fM ops/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.1fk ops/s", rate/1e3)
	}
	return fmt.Sprintf("%.0f ops/s", rate)
}

// FormatBytes formats a byte count with binary units.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
