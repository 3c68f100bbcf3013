// Package diagnostics runs the one-shot host diagnostic: metadata
// collection, a single disk speed probe and the merge into a flat report.
package diagnostics

import (
	"context"
	"fmt"
	"time"

	"hostdiag/internal/diskspeed"
	"hostdiag/internal/logging"
	"hostdiag/internal/reporting"
	"hostdiag/internal/system"
)

// DiskProbe is satisfied by *diskspeed.Probe.
type DiskProbe interface {
	Run(ctx context.Context) diskspeed.Result
}

// Runner выполняет диагностику один раз
type Runner struct {
	Source       system.Source
	Probe        DiskProbe // nil отключает замер диска
	ProbeTimeout time.Duration
	Logger       *logging.Logger

	now func() time.Time
}

// NewRunner создает runner
func NewRunner(source system.Source, probe DiskProbe, logger *logging.Logger) *Runner {
	return &Runner{
		Source: source,
		Probe:  probe,
		Logger: logger,
	}
}

// Run собирает метаданные, замеряет диск и сводит всё в отчёт.
// Ошибка возвращается только при сбое сбора метаданных: ошибки замера
// остаются внутри Report.DiskSpeed.
func (r *Runner) Run(ctx context.Context) (*reporting.Report, error) {
	start := time.Now()
	r.Logger.Log("INFO", "Запуск диагностики", "probe", r.Probe != nil)

	info, err := system.Collect(ctx, r.Source, r.Logger)
	if err != nil {
		return nil, fmt.Errorf("ошибка сбора метаданных хоста: %w", err)
	}

	var disk *diskspeed.Result
	if r.Probe != nil {
		res := r.runProbe(ctx)
		disk = &res
	}

	report := reporting.Merge(info, disk, r.clock())

	r.Logger.Log("INFO", "Диагностика завершена", "duration", time.Since(start).String())
	return report, nil
}

func (r *Runner) runProbe(ctx context.Context) diskspeed.Result {
	if r.ProbeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.ProbeTimeout)
		defer cancel()
	}
	return r.Probe.Run(ctx)
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}
