package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hostdiag/internal/diskspeed"
)

// Render пишет отчёт в w в формате text, json или yaml
func Render(w io.Writer, report *Report, format string) error {
	switch format {
	case "", "text":
		return renderText(w, report)
	case "json", "yaml":
		return encode(w, report, format)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// RenderDiskSpeed пишет только результат замера диска
func RenderDiskSpeed(w io.Writer, res diskspeed.Result, format string) error {
	switch format {
	case "", "text":
		var b strings.Builder
		writeDiskSpeed(&b, res, "")
		_, err := io.WriteString(w, b.String())
		return err
	case "json", "yaml":
		return encode(w, res, format)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

func renderText(w io.Writer, r *Report) error {
	var b strings.Builder

	line := func(key string, value interface{}) {
		fmt.Fprintf(&b, "%s: %v\n", key, value)
	}

	line("cpuCores", r.CPUCores)
	line("cpuModel", r.CPUModel)
	line("cpuSpeed", r.CPUSpeed)
	line("totalMemGB", r.TotalMemGB)
	line("freeMemGB", r.FreeMemGB)
	line("loadAverage", formatLoad(r.LoadAverage))
	line("platform", r.Platform)
	line("release", r.Release)
	if r.DiskSpeed != nil {
		b.WriteString("diskSpeed:\n")
		writeDiskSpeed(&b, *r.DiskSpeed, "  ")
	}
	line("pid", r.PID)
	line("uptime", strconv.FormatFloat(r.Uptime, 'f', 3, 64))
	line("cwd", r.Cwd)
	line("goVersion", r.GoVersion)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeDiskSpeed(b *strings.Builder, res diskspeed.Result, indent string) {
	if res.OK() {
		fmt.Fprintf(b, "%swriteMBps: %s\n", indent, res.WriteMBps)
		fmt.Fprintf(b, "%sreadMBps: %s\n", indent, res.ReadMBps)
		return
	}
	fmt.Fprintf(b, "%serror: %s\n", indent, res.Error)
}

func encode(w io.Writer, v interface{}, format string) error {
	if format == "json" {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("ошибка сериализации JSON: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("ошибка сериализации YAML: %w", err)
	}
	return enc.Close()
}

func formatLoad(load [3]float64) string {
	parts := make([]string, len(load))
	for i, v := range load {
		parts[i] = strconv.FormatFloat(v, 'f', 2, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
