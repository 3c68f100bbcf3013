package system

import (
	"context"
	"fmt"

	"hostdiag/internal/logging"
)

// Source отдает статические метаданные ОС и процесса
type Source interface {
	CPUs(ctx context.Context) (CPUInfo, error)
	Memory(ctx context.Context) (Memory, error)
	LoadAverage(ctx context.Context) ([3]float64, error)
	Platform(ctx context.Context) (Platform, error)
	Process(ctx context.Context) (Process, error)
}

// Collect опрашивает источник и собирает HostInfo.
// Load average и версия ОС необязательны: при ошибке пишется WARN
// и остаются нулевые значения.
func Collect(ctx context.Context, src Source, logger *logging.Logger) (*HostInfo, error) {
	info := &HostInfo{}

	cpus, err := src.CPUs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read CPU info: %w", err)
	}
	info.CPU = cpus

	memory, err := src.Memory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read memory info: %w", err)
	}
	info.Memory = memory

	load, err := src.LoadAverage(ctx)
	if err != nil {
		logger.Log("WARN", "Load average недоступен", "error", err.Error())
	} else {
		info.LoadAverage = load
	}

	platform, err := src.Platform(ctx)
	if err != nil {
		logger.Log("WARN", "Не удалось получить версию ОС", "error", err.Error())
	}
	info.Platform = platform

	process, err := src.Process(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read process info: %w", err)
	}
	info.Process = process

	logger.Log("DEBUG", "Метаданные хоста собраны",
		"cpus", info.CPU.Logical,
		"platform", info.Platform.OS,
		"release", info.Platform.Release)

	return info, nil
}
