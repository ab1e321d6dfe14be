package logging

import (
	"io"
	"os"
	"sync"
)

// swapWriter serializes writes to a sink that can be replaced at runtime.
// Writes take the full lock so a non-concurrent sink such as a
// bytes.Buffer is safe behind it.
type swapWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (sw *swapWriter) Write(p []byte) (int, error) {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.w.Write(p)
}

// swap installs w and returns the previous sink.
func (sw *swapWriter) swap(w io.Writer) io.Writer {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	prev := sw.w
	sw.w = w
	return prev
}

var defaultGlobalWriter = &swapWriter{w: os.Stderr}

// SetGlobalOutput redirects the stderr sink of every component logger and
// returns the sink it replaced. The preview TUI uses it to keep log lines
// off the alternate screen.
func SetGlobalOutput(w io.Writer) io.Writer {
	return defaultGlobalWriter.swap(w)
}

// GetGlobalOutput returns the shared writer component loggers log through.
func GetGlobalOutput() io.Writer {
	return defaultGlobalWriter
}
