package system

import (
	"context"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// processStart is the fallback when the OS does not report a create time.
var processStart = time.Now()

// GopsutilSource reads host metadata through gopsutil
type GopsutilSource struct{}

func NewGopsutilSource() *GopsutilSource {
	return &GopsutilSource{}
}

func (s *GopsutilSource) CPUs(ctx context.Context) (CPUInfo, error) {
	stats, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return CPUInfo{}, err
	}

	info := CPUInfo{Units: make([]CPU, 0, len(stats))}
	for _, st := range stats {
		info.Units = append(info.Units, CPU{
			Model: strings.TrimSpace(st.ModelName),
			MHz:   st.Mhz,
		})
	}

	// On Linux cpu.Info returns one entry per logical CPU, elsewhere per package
	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil || logical <= 0 {
		logical = len(info.Units)
	}
	info.Logical = logical

	return info, nil
}

func (s *GopsutilSource) Memory(ctx context.Context) (Memory, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Memory{}, err
	}
	return Memory{Total: vm.Total, Free: vm.Available}, nil
}

func (s *GopsutilSource) LoadAverage(ctx context.Context) ([3]float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return [3]float64{}, err
	}
	return [3]float64{avg.Load1, avg.Load5, avg.Load15}, nil
}

func (s *GopsutilSource) Platform(ctx context.Context) (Platform, error) {
	p := Platform{OS: runtime.GOOS}

	release, err := host.KernelVersionWithContext(ctx)
	if err != nil {
		return p, err
	}
	p.Release = release
	return p, nil
}

func (s *GopsutilSource) Process(ctx context.Context) (Process, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Process{}, err
	}

	p := Process{
		PID:            os.Getpid(),
		StartTime:      processStart,
		Cwd:            cwd,
		RuntimeVersion: runtime.Version(),
	}

	if proc, err := process.NewProcessWithContext(ctx, int32(p.PID)); err == nil {
		if ms, err := proc.CreateTimeWithContext(ctx); err == nil && ms > 0 {
			p.StartTime = time.UnixMilli(ms)
		}
	}

	return p, nil
}
