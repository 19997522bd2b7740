package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agbru/mpcalc/internal/batch"
	"github.com/agbru/mpcalc/internal/format"
	"github.com/agbru/mpcalc/internal/mpfr"
	"github.com/agbru/mpcalc/internal/ui"
)

// Presenter renders results as text or JSON.
type Presenter struct {
	// Format is "text" or "json".
	Format  string
	Verbose bool
	// Quiet reduces text output to the bare values.
	Quiet bool
}

func (p Presenter) json() bool { return p.Format == "json" }

func writeJSON(out io.Writer, v any) error {
	data, err := fastJSONMarshal(v)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}

// FormatTernary describes a ternary value in color.
func FormatTernary(t mpfr.Ternary) string {
	if t.Exact() {
		return ui.Exact(t.String())
	}
	return ui.Inexact(t.String())
}

// PresentResult writes a single evaluated operation.
func (p Presenter) PresentResult(out io.Writer, r batch.Result) error {
	switch {
	case p.json():
		return writeJSON(out, NewOperationReport(r))
	case p.Quiet:
		if r.Err != nil {
			_, err := fmt.Fprintln(out, "error:", r.Err)
			return err
		}
		_, err := fmt.Fprintln(out, r.Value)
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", ui.Title(r.Job.String()))
	if r.Err != nil {
		fmt.Fprintf(&b, "  %s %v\n", ui.Failure("error"), r.Err)
	} else {
		fmt.Fprintf(&b, "  = %s  (%s)\n", ui.Value(r.Value.String()), FormatTernary(r.Ternary))
		fmt.Fprintf(&b, "  %s %s\n", ui.Dim("hex   "), r.Value.Text('p', 0))
	}
	if p.Verbose {
		fmt.Fprintf(&b, "  %s %s\n", ui.Dim("kernel"), r.Kernel)
		fmt.Fprintf(&b, "  %s %s\n", ui.Dim("flags "), r.Flags)
		fmt.Fprintf(&b, "  %s %s\n", ui.Dim("time  "), format.FormatExecutionDuration(r.Elapsed))
	}
	_, err := io.WriteString(out, b.String())
	return err
}

// PresentBatch writes the results of a batch run as a table followed by
// the summary and any disagreement between kernels.
func (p Presenter) PresentBatch(out io.Writer, results []batch.Result, s batch.Summary) error {
	if p.json() {
		return writeJSON(out, NewBatchReport(results, s))
	}
	if p.Quiet {
		var b strings.Builder
		for _, r := range results {
			if r.Err != nil {
				fmt.Fprintf(&b, "error: %v\n", r.Err)
				continue
			}
			fmt.Fprintf(&b, "%s\n", r.Value)
		}
		_, err := io.WriteString(out, b.String())
		return err
	}

	headers := []string{"Job", "Kernel", "Value", "Rounding", "Flags"}
	if p.Verbose {
		headers = append(headers, "Time")
	}
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{r.Job.String(), r.Kernel, batch.Render(r), r.Ternary.String(), r.Flags.String()}
		if r.Err != nil {
			row[3] = "-"
		}
		if p.Verbose {
			row = append(row, format.FormatExecutionDuration(r.Elapsed))
		}
		rows = append(rows, row)
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return ui.TableHeader()
			}
			return ui.TableCell()
		})

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d jobs, %d results, %d inexact, %d failed\n", s.Jobs, len(results), s.Inexact, s.Failures)
	for _, m := range s.Mismatches {
		fmt.Fprintf(&b, "%s %s\n", ui.Failure("MISMATCH"), m.Error())
	}
	if len(s.Mismatches) == 0 && len(results) > s.Jobs {
		b.WriteString(ui.Exact("all kernels agree") + "\n")
	}
	_, err := io.WriteString(out, b.String())
	return err
}

// PresentSweep writes the outcome of a verification run.
func (p Presenter) PresentSweep(out io.Writer, r batch.SweepReport) error {
	if p.json() {
		return writeJSON(out, NewSweepSummary(r))
	}
	var b strings.Builder
	status := ui.Exact("OK")
	if r.MismatchCount > 0 {
		status = ui.Failure(fmt.Sprintf("%d MISMATCHES", r.MismatchCount))
	}
	if p.Quiet {
		fmt.Fprintf(&b, "%d %d\n", r.Checked, r.MismatchCount)
	} else {
		fmt.Fprintf(&b, "%s %s against %s: %d operations, %s\n", ui.Title("verify"), r.Kernel, r.Reference, r.Checked, status)
		fmt.Fprintf(&b, "  %s %d\n", ui.Dim("seed        "), r.Seed)
		fmt.Fprintf(&b, "  %s %d\n", ui.Dim("inexact     "), r.Inexact)
		fmt.Fprintf(&b, "  %s %d\n", ui.Dim("range errors"), r.RangeErrors)
		fmt.Fprintf(&b, "  %s %s (%s)\n", ui.Dim("time        "), format.FormatExecutionDuration(r.Elapsed), format.FormatRate(r.Checked, r.Elapsed))
		for _, m := range r.Mismatches {
			fmt.Fprintf(&b, "  %s\n", ui.Failure(m.Error()))
		}
	}
	_, err := io.WriteString(out, b.String())
	return err
}

// PresentInfo writes the build, kernel and host description.
func (p Presenter) PresentInfo(out io.Writer, info InfoReport) error {
	if p.json() {
		return writeJSON(out, info)
	}
	kernels := make([]string, 0, len(info.Kernels))
	for _, k := range info.Kernels {
		if k == info.Detected {
			k = ui.Value(k + " (auto)")
		}
		kernels = append(kernels, k)
	}
	rows := [][]string{
		{"version", info.Version},
		{"go", info.GoVersion},
		{"cpu", info.CPUFeatures},
		{"kernels", strings.Join(kernels, ", ")},
		{"platform", strings.TrimSpace(info.Host.OS + " " + info.Host.Platform)},
		{"os kernel", info.Host.KernelVersion},
		{"cpu model", info.Host.CPUModel},
		{"cores", fmt.Sprintf("%d logical, %d physical", info.Host.LogicalCores, info.Host.PhysicalCores)},
		{"memory", fmt.Sprintf("%s (%.1f%% used)", format.FormatBytes(info.Host.TotalMemory), info.Usage.MemPercent)},
		{"heap", format.FormatBytes(info.Memory.HeapAlloc)},
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return ui.TableHeader()
			}
			return ui.TableCell()
		})
	_, err := fmt.Fprintf(out, "%s\n%s\n", ui.Title("mpcalc"), t.String())
	return err
}

// PresentError writes err for the user.
func (p Presenter) PresentError(out io.Writer, err error, elapsed time.Duration) {
	if p.json() {
		_ = writeJSON(out, map[string]string{"error": err.Error(), "elapsed": format.FormatExecutionDuration(elapsed)})
		return
	}
	fmt.Fprintf(out, "%s %v\n", ui.Failure("error:"), err)
}
