package diskspeed

import (
	"fmt"
	"strconv"
	"time"
)

const (
	bytesPerMB = 1024 * 1024

	failurePrefix = "Failed to test disk speed"
)

// Result is the outcome of one probe run. Either both throughput fields are
// set or only Error is.
type Result struct {
	WriteMBps string `json:"writeMBps,omitempty" yaml:"writeMBps,omitempty"`
	ReadMBps  string `json:"readMBps,omitempty" yaml:"readMBps,omitempty"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the probe produced throughput figures.
func (r Result) OK() bool {
	return r.Error == ""
}

func succeeded(writeMBps, readMBps float64) Result {
	return Result{
		WriteMBps: formatMBps(writeMBps),
		ReadMBps:  formatMBps(readMBps),
	}
}

func failed(err error) Result {
	return Result{Error: fmt.Sprintf("%s: %v", failurePrefix, err)}
}

// throughput returns MB/s for size bytes moved in elapsed. A non-positive
// duration is treated as one nanosecond.
func throughput(size int64, elapsed time.Duration) float64 {
	if elapsed <= 0 {
		elapsed = time.Nanosecond
	}
	return float64(size) / bytesPerMB / elapsed.Seconds()
}

func formatMBps(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
