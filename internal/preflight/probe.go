package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// probePrefix names the disposable file written during a probe.
const probePrefix = ".probe-"

// ProbeResult is the outcome of a write probe. It never carries an error;
// a failed probe has OK false and a human-readable Reason.
type ProbeResult struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason,omitempty"`
}

func probeFail(format string, args ...any) ProbeResult {
	return ProbeResult{Reason: fmt.Sprintf(format, args...)}
}

// ProbeWritable reports whether dir is a usable, writable directory.
//
// A missing directory is created. An existing path must be a directory or at
// least readable. A file named after the current time is then created and
// removed inside dir; any failure along the way yields OK false. No panic
// escapes this function.
func ProbeWritable(dir string) (result ProbeResult) {
	defer func() {
		if r := recover(); r != nil {
			result = probeFail("probe panicked: %v", r)
		}
	}()

	if dir == "" {
		return probeFail("no directory given")
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return probeFail("cannot create %s: %v", dir, err)
		}
	case err != nil:
		return probeFail("cannot stat %s: %v", dir, err)
	case !info.IsDir() && !readable(dir):
		return probeFail("%s is neither a directory nor readable", dir)
	}

	return writeRoundTrip(dir)
}

// readable reports whether path can be opened for reading.
func readable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	_ = f.Close()
	return true
}

// writeRoundTrip creates and deletes a probe file inside dir.
func writeRoundTrip(dir string) ProbeResult {
	name := probePrefix + strconv.FormatInt(time.Now().UnixNano(), 10)
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return probeFail("cannot create probe file in %s: %v", dir, err)
	}
	_, writeErr := f.Write([]byte{'0'})
	closeErr := f.Close()

	if err := os.Remove(path); err != nil {
		return probeFail("cannot delete probe file %s: %v", path, err)
	}
	if writeErr != nil {
		return probeFail("cannot write probe file in %s: %v", dir, writeErr)
	}
	if closeErr != nil {
		return probeFail("cannot close probe file in %s: %v", dir, closeErr)
	}

	return ProbeResult{OK: true}
}
