package system

import "time"

// CPU describes one reported processor unit
type CPU struct {
	Model string
	MHz   float64
}

// CPUInfo contains the logical CPU count and per-unit details
type CPUInfo struct {
	Logical int
	Units   []CPU
}

// Memory contains physical memory counters in bytes
type Memory struct {
	Total uint64
	Free  uint64
}

// Platform describes the operating system
type Platform struct {
	OS      string
	Release string
}

// Process describes the running process
type Process struct {
	PID            int
	StartTime      time.Time
	Cwd            string
	RuntimeVersion string
}

// HostInfo содержит все собранные метаданные хоста
type HostInfo struct {
	CPU         CPUInfo
	Memory      Memory
	LoadAverage [3]float64
	Platform    Platform
	Process     Process
}
