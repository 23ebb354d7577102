package logger

import (
	"fmt"
	"io"
	"os"
)

// OpenOutput returns the destination for log lines: the file at path opened
// for appending, or fallback when path is empty. The returned close func is
// always safe to call.
func OpenOutput(path string, fallback io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return fallback, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return f, f.Close, nil
}
