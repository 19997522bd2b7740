package cli

import (
	"runtime"

	"github.com/agbru/mpcalc/internal/batch"
	apperrors "github.com/agbru/mpcalc/internal/errors"
	"github.com/agbru/mpcalc/internal/metrics"
	"github.com/agbru/mpcalc/internal/mpfr"
	"github.com/agbru/mpcalc/internal/sysmon"
)

// OperationReport is the machine-readable form of one evaluated job.
type OperationReport struct {
	Line    int    `json:"line,omitempty"`
	Op      string `json:"op"`
	A       string `json:"a"`
	B       string `json:"b"`
	Mode    string `json:"mode"`
	Prec    uint   `json:"prec"`
	Kernel  string `json:"kernel"`
	Value   string `json:"value,omitempty"`
	Hex     string `json:"hex,omitempty"`
	Ternary int    `json:"ternary"`
	// Rounding spells out the ternary value.
	Rounding  string `json:"rounding"`
	Flags     string `json:"flags"`
	Error     string `json:"error,omitempty"`
	ElapsedNs int64  `json:"elapsed_ns"`
}

// NewOperationReport converts a batch result.
func NewOperationReport(r batch.Result) OperationReport {
	rep := OperationReport{
		Line:      r.Job.Line,
		Op:        r.Job.Op,
		A:         r.Job.A,
		B:         r.Job.B,
		Mode:      r.Job.Mode.String(),
		Prec:      r.Job.Prec,
		Kernel:    r.Kernel,
		Ternary:   int(r.Ternary),
		Rounding:  r.Ternary.String(),
		Flags:     r.Flags.String(),
		ElapsedNs: r.Elapsed.Nanoseconds(),
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}
	if r.Value != nil {
		rep.Value = r.Value.String()
		rep.Hex = r.Value.Text('p', 0)
	}
	return rep
}

// MismatchReport lists the diverging results of one job.
type MismatchReport struct {
	Job     string            `json:"job"`
	Results map[string]string `json:"results"`
}

func newMismatchReports(ms []apperrors.MismatchError) []MismatchReport {
	out := make([]MismatchReport, 0, len(ms))
	for _, m := range ms {
		out = append(out, MismatchReport{Job: m.Job, Results: m.Results})
	}
	return out
}

// BatchReport is the machine-readable form of a batch run.
type BatchReport struct {
	Jobs       int               `json:"jobs"`
	Results    []OperationReport `json:"results"`
	Inexact    int               `json:"inexact"`
	Failures   int               `json:"failures"`
	Mismatches []MismatchReport  `json:"mismatches"`
}

// NewBatchReport converts the results of a batch run and their summary.
func NewBatchReport(results []batch.Result, s batch.Summary) BatchReport {
	rep := BatchReport{
		Jobs:       s.Jobs,
		Results:    make([]OperationReport, 0, len(results)),
		Inexact:    s.Inexact,
		Failures:   s.Failures,
		Mismatches: newMismatchReports(s.Mismatches),
	}
	for _, r := range results {
		rep.Results = append(rep.Results, NewOperationReport(r))
	}
	return rep
}

// SweepSummary is the machine-readable form of a verification run.
type SweepSummary struct {
	Kernel        string           `json:"kernel"`
	Reference     string           `json:"reference"`
	Seed          uint64           `json:"seed"`
	Checked       uint64           `json:"checked"`
	Inexact       uint64           `json:"inexact"`
	RangeErrors   uint64           `json:"range_errors"`
	MismatchCount uint64           `json:"mismatch_count"`
	Mismatches    []MismatchReport `json:"mismatches"`
	ElapsedNs     int64            `json:"elapsed_ns"`
}

// NewSweepSummary converts a sweep report.
func NewSweepSummary(r batch.SweepReport) SweepSummary {
	return SweepSummary{
		Kernel:        r.Kernel,
		Reference:     r.Reference,
		Seed:          r.Seed,
		Checked:       r.Checked,
		Inexact:       r.Inexact,
		RangeErrors:   r.RangeErrors,
		MismatchCount: r.MismatchCount,
		Mismatches:    newMismatchReports(r.Mismatches),
		ElapsedNs:     r.Elapsed.Nanoseconds(),
	}
}

// InfoReport describes the build, the kernels and the host.
type InfoReport struct {
	Version     string                 `json:"version"`
	GoVersion   string                 `json:"go_version"`
	CPUFeatures string                 `json:"cpu_features"`
	Kernels     []string               `json:"kernels"`
	Detected    string                 `json:"detected_kernel"`
	Host        sysmon.HostInfo        `json:"host"`
	Usage       sysmon.Stats           `json:"usage"`
	Memory      metrics.MemorySnapshot `json:"memory"`
}

// GatherInfo collects an InfoReport for this process.
func GatherInfo(version string) InfoReport {
	return InfoReport{
		Version:     version,
		GoVersion:   runtime.Version(),
		CPUFeatures: mpfr.GetCPUFeatures().String(),
		Kernels:     mpfr.Kernels(),
		Detected:    mpfr.Detect(),
		Host:        sysmon.Host(),
		Usage:       sysmon.Sample(),
		Memory:      metrics.NewMemoryCollector().Snapshot(),
	}
}
