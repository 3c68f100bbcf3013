// Package diskspeed measures sequential write and read throughput of the
// filesystem backing a temporary file.
package diskspeed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"

	"hostdiag/internal/logging"
)

const (
	// DefaultSize is the payload written and read back by a probe run.
	DefaultSize = 100 * 1024 * 1024
	// DefaultFill is the byte the payload is filled with.
	DefaultFill = byte('x')

	testFileName = "disk-speed-test"
)

// DefaultPath returns the fixed location of the test file.
func DefaultPath() string {
	return filepath.Join(os.TempDir(), testFileName)
}

// Probe writes Size bytes to Path, reads them back and removes the file,
// timing both directions. An empty Path, non-positive Size or nil Fs fall
// back to the defaults.
type Probe struct {
	Path   string
	Size   int64
	Fill   byte
	Fs     afero.Fs
	Logger *logging.Logger

	now func() time.Time
}

// New returns a probe configured with the default path, size and fill byte.
func New(logger *logging.Logger) *Probe {
	return &Probe{
		Path:   DefaultPath(),
		Size:   DefaultSize,
		Fill:   DefaultFill,
		Fs:     afero.NewOsFs(),
		Logger: logger,
	}
}

// Run performs one write/read cycle. Failures never escape: they are
// reported through Result.Error and no throughput is returned with them.
func (p *Probe) Run(ctx context.Context) Result {
	p.Logger.Log("DEBUG", "Запуск замера скорости диска", "path", p.path(), "size", humanize.IBytes(uint64(p.size())))

	writeMBps, readMBps, err := p.measure(ctx)
	if err != nil {
		p.Logger.Log("WARN", "Замер скорости диска не удался", "path", p.path(), "error", err.Error())
		return failed(err)
	}

	res := succeeded(writeMBps, readMBps)
	p.Logger.Log("INFO", "Замер скорости диска завершен", "write_mbps", res.WriteMBps, "read_mbps", res.ReadMBps)
	return res
}

func (p *Probe) measure(ctx context.Context) (writeMBps, readMBps float64, err error) {
	fs, path, size := p.fs(), p.path(), p.size()

	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	payload := bytes.Repeat([]byte{p.Fill}, int(size))

	// Файл удаляется на любом пути выхода, ошибка удаления не теряется
	defer func() {
		if rmErr := fs.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			writeMBps, readMBps = 0, 0
			err = withCleanupError(err, rmErr)
		}
	}()

	start := p.clock()
	if err := writeFile(fs, path, payload); err != nil {
		return 0, 0, fmt.Errorf("write: %w", err)
	}
	elapsed := p.clock().Sub(start)
	writeMBps = throughput(size, elapsed)
	p.Logger.Log("DEBUG", "Запись завершена", "elapsed", elapsed.String(), "mbps", formatMBps(writeMBps))

	if err := dropPageCache(fs, path); err != nil {
		p.Logger.Log("DEBUG", "Не удалось сбросить page cache", "path", path, "error", err.Error())
	}

	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	start = p.clock()
	n, err := readFile(fs, path)
	elapsed = p.clock().Sub(start)
	if err != nil {
		return 0, 0, fmt.Errorf("read: %w", err)
	}
	if n != size {
		return 0, 0, fmt.Errorf("read: got %d bytes, wrote %d", n, size)
	}
	readMBps = throughput(size, elapsed)
	p.Logger.Log("DEBUG", "Чтение завершено", "elapsed", elapsed.String(), "mbps", formatMBps(readMBps))

	return writeMBps, readMBps, nil
}

// writeFile creates or truncates path and writes payload through to the device.
func writeFile(fs afero.Fs, path string, payload []byte) error {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	n, err := f.Write(payload)
	if err == nil && n < len(payload) {
		err = io.ErrShortWrite
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	return err
}

func readFile(fs afero.Fs, path string) (int64, error) {
	data, err := afero.ReadFile(fs, path)
	return int64(len(data)), err
}

func withCleanupError(err, rmErr error) error {
	rmErr = fmt.Errorf("remove: %w", rmErr)
	if err == nil {
		return rmErr
	}
	merr := multierror.Append(err, rmErr)
	merr.ErrorFormat = joinErrors
	return merr
}

func joinErrors(errs []error) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (p *Probe) fs() afero.Fs {
	if p.Fs == nil {
		return afero.NewOsFs()
	}
	return p.Fs
}

func (p *Probe) path() string {
	if p.Path == "" {
		return DefaultPath()
	}
	return p.Path
}

func (p *Probe) size() int64 {
	if p.Size <= 0 {
		return DefaultSize
	}
	return p.Size
}

func (p *Probe) clock() time.Time {
	if p.now != nil {
		return p.now()
	}
	return time.Now()
}
