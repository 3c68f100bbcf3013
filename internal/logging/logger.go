package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"hostdiag/internal/config"
)

const consoleTimeFormat = "2006-01-02 15:04:05"

// Logger пишет в консоль (stderr) и, опционально, JSON-файл
type Logger struct {
	zl   zerolog.Logger
	file *os.File
}

// NewLogger создает логгер по конфигурации.
// Без verbose в консоль попадают только ERROR и FATAL.
func NewLogger(cfg *config.Config, verbose bool) (*Logger, error) {
	level := ParseLevel(cfg.Logging.Level)
	l := &Logger{}

	writers := []io.Writer{newConsoleWriter(os.Stderr, level, verbose)}

	if cfg.Logging.File != "" {
		logDir := filepath.Dir(cfg.Logging.File)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			// Если не можем создать директорию, пишем только в консоль
			fmt.Fprintf(os.Stderr, "[WARN] cannot create log directory %s: %v\n", logDir, err)
		} else if f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] cannot open log file %s: %v\n", cfg.Logging.File, err)
		} else {
			l.file = f
			writers = append(writers, &levelFilter{w: zerolog.SyncWriter(f), min: level})
		}
	}

	l.zl = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	return l, nil
}

// New создает логгер поверх произвольного writer'а, без файлового вывода
func New(w io.Writer, level string) *Logger {
	lw := &levelFilter{w: w, min: ParseLevel(level)}
	return &Logger{zl: zerolog.New(lw).With().Timestamp().Logger()}
}

// Nop возвращает логгер, который ничего не пишет
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// Log пишет сообщение; fields - пары ключ/значение
func (l *Logger) Log(level, message string, fields ...interface{}) {
	if l == nil {
		return
	}

	e := l.zl.WithLevel(ParseLevel(level))
	if e == nil {
		return
	}
	if len(fields) > 0 {
		e = e.Fields(fields)
	}
	e.Msg(message)
}

func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// ParseLevel переводит текстовый уровень в zerolog.Level (по умолчанию INFO)
func ParseLevel(level string) zerolog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return zerolog.DebugLevel
	case "INFO":
		return zerolog.InfoLevel
	case "WARN", "WARNING":
		return zerolog.WarnLevel
	case "ERROR":
		return zerolog.ErrorLevel
	case "FATAL":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

func newConsoleWriter(out io.Writer, level zerolog.Level, verbose bool) zerolog.LevelWriter {
	threshold := zerolog.ErrorLevel
	if verbose {
		threshold = level
	}
	cw := zerolog.ConsoleWriter{Out: out, TimeFormat: consoleTimeFormat, NoColor: true}
	return &levelFilter{w: cw, min: threshold}
}

// levelFilter отбрасывает записи ниже min
type levelFilter struct {
	w   io.Writer
	min zerolog.Level
}

func (f *levelFilter) Write(p []byte) (int, error) {
	return f.w.Write(p)
}

func (f *levelFilter) WriteLevel(level zerolog.Level, p []byte) (int, error) {
	if level < f.min {
		return len(p), nil
	}
	return f.w.Write(p)
}
