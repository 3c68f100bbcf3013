package reporting

import (
	"math"
	"time"

	"hostdiag/internal/diskspeed"
	"hostdiag/internal/system"
)

const bytesPerGB = 1024 * 1024 * 1024

// Report плоский отчёт диагностики; порядок полей совпадает с выводом
type Report struct {
	CPUCores    int               `json:"cpuCores" yaml:"cpuCores"`
	CPUModel    string            `json:"cpuModel" yaml:"cpuModel"`
	CPUSpeed    int               `json:"cpuSpeed" yaml:"cpuSpeed"`
	TotalMemGB  int64             `json:"totalMemGB" yaml:"totalMemGB"`
	FreeMemGB   int64             `json:"freeMemGB" yaml:"freeMemGB"`
	LoadAverage [3]float64        `json:"loadAverage" yaml:"loadAverage,flow"`
	Platform    string            `json:"platform" yaml:"platform"`
	Release     string            `json:"release" yaml:"release"`
	DiskSpeed   *diskspeed.Result `json:"diskSpeed,omitempty" yaml:"diskSpeed,omitempty"`
	PID         int               `json:"pid" yaml:"pid"`
	Uptime      float64           `json:"uptime" yaml:"uptime"`
	Cwd         string            `json:"cwd" yaml:"cwd"`
	GoVersion   string            `json:"goVersion" yaml:"goVersion"`
}

// Merge сводит метаданные хоста и результат замера диска в один отчёт.
// disk может быть nil, если замер не выполнялся.
func Merge(info *system.HostInfo, disk *diskspeed.Result, now time.Time) *Report {
	report := &Report{
		CPUCores:    info.CPU.Logical,
		TotalMemGB:  roundGB(info.Memory.Total),
		FreeMemGB:   roundGB(info.Memory.Free),
		LoadAverage: info.LoadAverage,
		Platform:    info.Platform.OS,
		Release:     info.Platform.Release,
		DiskSpeed:   disk,
		PID:         info.Process.PID,
		Cwd:         info.Process.Cwd,
		GoVersion:   info.Process.RuntimeVersion,
	}

	if report.CPUCores <= 0 {
		report.CPUCores = len(info.CPU.Units)
	}
	if len(info.CPU.Units) > 0 {
		first := info.CPU.Units[0]
		report.CPUModel = first.Model
		report.CPUSpeed = int(math.Round(first.MHz))
	}

	if !info.Process.StartTime.IsZero() {
		if up := now.Sub(info.Process.StartTime).Seconds(); up > 0 {
			report.Uptime = up
		}
	}

	return report
}

func roundGB(bytes uint64) int64 {
	return int64(math.Round(float64(bytes) / bytesPerGB))
}
