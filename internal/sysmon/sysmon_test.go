package sysmon

import (
	"runtime"
	"testing"
)

func TestSampleRanges(t *testing.T) {
	s := Sample()
	if s.CPUPercent < 0 || s.CPUPercent > 100 {
		t.Errorf("CPUPercent out of range: %f", s.CPUPercent)
	}
	if s.MemPercent < 0 || s.MemPercent > 100 {
		t.Errorf("MemPercent out of range: %f", s.MemPercent)
	}
}

func TestHost(t *testing.T) {
	h := Host()
	if h.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", h.OS, runtime.GOOS)
	}
	if h.LogicalCores < 1 {
		t.Errorf("LogicalCores = %d", h.LogicalCores)
	}
	if h.PhysicalCores > h.LogicalCores {
		t.Errorf("PhysicalCores %d > LogicalCores %d", h.PhysicalCores, h.LogicalCores)
	}
}
