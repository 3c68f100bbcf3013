package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hostdiag/internal/config"
	"hostdiag/internal/diagnostics"
	"hostdiag/internal/diskspeed"
	"hostdiag/internal/logging"
	"hostdiag/internal/reporting"
	"hostdiag/internal/system"
)

const (
	Version = "1.0.0"
	AppName = "hostdiag"

	// Exit codes
	EXIT_SUCCESS = 0
	EXIT_ERROR   = 1
)

var (
	verbose    bool
	configPath string
	format     string
)

// CLI команды
var rootCmd = &cobra.Command{
	Use:          AppName,
	Short:        "Диагностика окружения хоста и замер скорости диска",
	Long:         "Собирает сведения о CPU, памяти, нагрузке и платформе, замеряет последовательную запись/чтение диска и печатает единый отчёт",
	Version:      Version,
	SilenceUsage: true,
	RunE:         runDiagnose,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Показать сведения о хосте без замера диска",
	RunE:  runInfo,
}

var diskSpeedCmd = &cobra.Command{
	Use:   "diskspeed",
	Short: "Только замер скорости диска",
	RunE:  runDiskSpeed,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Подробный вывод")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Путь к конфигурации")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Формат отчёта (text/json/yaml)")

	rootCmd.AddCommand(infoCmd, diskSpeedCmd)
}

// session общие зависимости одного запуска
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	format string
}

func newSession() (*session, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	reportFormat := cfg.Report.Format
	if format != "" {
		reportFormat = format
	}
	if err := config.ValidateFormat(reportFormat); err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg, verbose)
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}

	return &session{cfg: cfg, logger: logger, format: reportFormat}, nil
}

// signalContext отменяется по SIGINT/SIGTERM
func signalContext(logger *logging.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Log("WARN", "Получен сигнал, прерываем диагностику", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	return runReport(cmd, true)
}

func runInfo(cmd *cobra.Command, args []string) error {
	return runReport(cmd, false)
}

func runReport(cmd *cobra.Command, withProbe bool) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.logger.Close()

	ctx, cancel := signalContext(s.logger)
	defer cancel()

	runner := diagnostics.NewRunner(system.NewGopsutilSource(), nil, s.logger)
	if withProbe && s.cfg.Probe.Enabled {
		runner.Probe = diskspeed.New(s.logger)
		runner.ProbeTimeout = s.cfg.ProbeTimeout()
	}

	report, err := runner.Run(ctx)
	if err != nil {
		s.logger.Log("ERROR", "Диагностика завершилась с ошибкой", "error", err.Error())
		return err
	}

	return reporting.Render(cmd.OutOrStdout(), report, s.format)
}

func runDiskSpeed(cmd *cobra.Command, args []string) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.logger.Close()

	ctx, cancel := signalContext(s.logger)
	defer cancel()

	if timeout := s.cfg.ProbeTimeout(); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	res := diskspeed.New(s.logger).Run(ctx)
	return reporting.RenderDiskSpeed(cmd.OutOrStdout(), res, s.format)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(EXIT_ERROR)
	}
	os.Exit(EXIT_SUCCESS)
}
