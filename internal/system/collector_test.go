package system

import (
	"context"
	"errors"
	"os"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostdiag/internal/logging"
)

type fakeSource struct {
	cpus     CPUInfo
	memory   Memory
	load     [3]float64
	platform Platform
	process  Process

	cpuErr, memErr, loadErr, platformErr, processErr error
}

func (f *fakeSource) CPUs(context.Context) (CPUInfo, error) {
	return f.cpus, f.cpuErr
}

func (f *fakeSource) Memory(context.Context) (Memory, error) {
	return f.memory, f.memErr
}

func (f *fakeSource) LoadAverage(context.Context) ([3]float64, error) {
	return f.load, f.loadErr
}

func (f *fakeSource) Platform(context.Context) (Platform, error) {
	return f.platform, f.platformErr
}

func (f *fakeSource) Process(context.Context) (Process, error) {
	return f.process, f.processErr
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		cpus:     CPUInfo{Logical: 2, Units: []CPU{{Model: "Test CPU", MHz: 2400}, {Model: "Test CPU", MHz: 2400}}},
		memory:   Memory{Total: 16 << 30, Free: 6 << 30},
		load:     [3]float64{0.5, 0.25, 0.1},
		platform: Platform{OS: "linux", Release: "6.1.0"},
		process:  Process{PID: 42, StartTime: time.Unix(1700000000, 0), Cwd: "/srv", RuntimeVersion: "go1.24.0"},
	}
}

func TestCollectCopiesEverything(t *testing.T) {
	src := newFakeSource()

	info, err := Collect(context.Background(), src, logging.Nop())
	require.NoError(t, err)

	assert.Equal(t, src.cpus, info.CPU)
	assert.Equal(t, src.memory, info.Memory)
	assert.Equal(t, src.load, info.LoadAverage)
	assert.Equal(t, src.platform, info.Platform)
	assert.Equal(t, src.process, info.Process)
}

func TestCollectRequiredGetterFailures(t *testing.T) {
	boom := errors.New("boom")

	tests := map[string]func(*fakeSource){
		"cpu":     func(f *fakeSource) { f.cpuErr = boom },
		"memory":  func(f *fakeSource) { f.memErr = boom },
		"process": func(f *fakeSource) { f.processErr = boom },
	}
	for name, breakIt := range tests {
		t.Run(name, func(t *testing.T) {
			src := newFakeSource()
			breakIt(src)

			info, err := Collect(context.Background(), src, logging.Nop())
			assert.Nil(t, info)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, strings.ToLower(err.Error()), name)
		})
	}
}

func TestCollectOptionalGetterFailures(t *testing.T) {
	src := newFakeSource()
	src.loadErr = errors.New("not supported")
	src.platformErr = errors.New("no uname")
	src.platform = Platform{OS: "plan9"}

	info, err := Collect(context.Background(), src, logging.Nop())
	require.NoError(t, err)
	assert.Equal(t, [3]float64{}, info.LoadAverage)
	assert.Equal(t, "plan9", info.Platform.OS)
	assert.Empty(t, info.Platform.Release)
}

func TestGopsutilSourceOnThisHost(t *testing.T) {
	ctx := context.Background()
	src := NewGopsutilSource()

	cpus, err := src.CPUs(ctx)
	require.NoError(t, err)
	assert.Positive(t, cpus.Logical)

	memory, err := src.Memory(ctx)
	require.NoError(t, err)
	assert.Positive(t, memory.Total)
	assert.LessOrEqual(t, memory.Free, memory.Total)

	platform, err := src.Platform(ctx)
	if err == nil {
		assert.NotEmpty(t, platform.Release)
	}
	assert.Equal(t, runtime.GOOS, platform.OS)

	process, err := src.Process(ctx)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), process.PID)
	assert.Equal(t, runtime.Version(), process.RuntimeVersion)
	assert.False(t, process.StartTime.After(time.Now()))
	cwd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, cwd, process.Cwd)
}
