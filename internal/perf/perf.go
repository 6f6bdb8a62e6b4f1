// Package perf reports process-level introspection data for the
// performance endpoint.
package perf

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Report is the payload of the performance endpoint.
type Report struct {
	Time    string `json:"time"`
	Memory  string `json:"memory"`
	Threads int    `json:"threads"`
}

// Snapshot captures the current process state: UTC wall clock with
// millisecond precision, resident memory and live goroutine count.
func Snapshot() Report {
	return Report{
		Time:    time.Now().UTC().Format("15:04:05.000"),
		Memory:  fmt.Sprintf("%.2f MB", MemoryMB()),
		Threads: runtime.NumGoroutine(),
	}
}

// MemoryMB reads the process RSS from the Linux proc filesystem.
// Returns 0 when the information is unavailable (non-Linux hosts).
func MemoryMB() float64 {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "VmRSS:") {
			continue
		}
		// VmRSS:     10240 kB
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return 0
		}
		kb, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return 0
		}
		return kb / 1024.0
	}
	return 0
}
