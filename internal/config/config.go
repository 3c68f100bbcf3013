package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config конфигурация hostdiag
type Config struct {
	Logging struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"logging"`

	Report struct {
		Format string `yaml:"format"`
	} `yaml:"report"`

	Probe struct {
		Enabled bool   `yaml:"enabled"`
		Timeout string `yaml:"timeout"`
	} `yaml:"probe"`
}

// Поддерживаемые форматы отчёта
var validFormats = map[string]bool{
	"text": true,
	"json": true,
	"yaml": true,
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.Logging.Level = "INFO"
	cfg.Logging.File = ""
	cfg.Report.Format = "text"
	cfg.Probe.Enabled = true
	cfg.Probe.Timeout = ""
	return cfg
}

// Load загружает конфигурацию из файла
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	// Незаданные ключи сохраняют значения по умолчанию
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := Validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию на валидность
func Validate(config *Config) error {
	validLevels := map[string]bool{
		"DEBUG": true,
		"INFO":  true,
		"WARN":  true,
		"ERROR": true,
	}
	if !validLevels[strings.ToUpper(config.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", config.Logging.Level)
	}

	if !validFormats[config.Report.Format] {
		return fmt.Errorf("invalid report format: %s", config.Report.Format)
	}

	if config.Probe.Timeout != "" {
		d, err := time.ParseDuration(config.Probe.Timeout)
		if err != nil {
			return fmt.Errorf("invalid probe timeout format: %s", config.Probe.Timeout)
		}
		if d < 0 {
			return fmt.Errorf("probe timeout cannot be negative, got %s", config.Probe.Timeout)
		}
	}

	return nil
}

// ValidateFormat проверяет формат отчёта, переданный флагом
func ValidateFormat(format string) error {
	if !validFormats[format] {
		return fmt.Errorf("invalid report format: %s (expected text, json or yaml)", format)
	}
	return nil
}

// Save сохраняет конфигурацию в файл
func Save(config *Config, path string) error {
	if err := Validate(config); err != nil {
		return fmt.Errorf("cannot save invalid config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ProbeTimeout возвращает таймаут замера диска
func (config *Config) ProbeTimeout() time.Duration {
	if config.Probe.Timeout == "" {
		return 0 // Без лимита
	}

	duration, err := time.ParseDuration(config.Probe.Timeout)
	if err != nil {
		return 0
	}

	return duration
}
