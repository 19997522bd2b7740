// Package sysmon reports host information and system-wide resource usage
// for the -info and -verify output.
package sysmon

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// HostInfo describes the machine mpcalc runs on.
type HostInfo struct {
	OS            string
	Platform      string
	KernelVersion string
	CPUModel      string
	LogicalCores  int
	PhysicalCores int
	TotalMemory   uint64
}

// Host gathers HostInfo. Fields gopsutil cannot read on this system are
// left empty; the core count falls back to runtime.NumCPU.
func Host() HostInfo {
	info := HostInfo{OS: runtime.GOOS, LogicalCores: runtime.NumCPU()}
	if h, err := host.Info(); err == nil && h != nil {
		info.Platform = h.Platform
		if h.PlatformVersion != "" {
			info.Platform += " " + h.PlatformVersion
		}
		info.KernelVersion = h.KernelVersion
	}
	if cpus, err := cpu.Info(); err == nil && len(cpus) > 0 {
		info.CPUModel = cpus[0].ModelName
	}
	if n, err := cpu.Counts(true); err == nil && n > 0 {
		info.LogicalCores = n
	}
	if n, err := cpu.Counts(false); err == nil {
		info.PhysicalCores = n
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		info.TotalMemory = vmem.Total
	}
	return info
}
