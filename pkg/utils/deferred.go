// Package utils holds small helpers shared by the binaries.
package utils

import (
	"bytes"
	"io"
	"sync"
)

// DeferredWriter buffers writes until Flush. It is used to hold log output
// while a full-screen UI owns the terminal.
type DeferredWriter struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to the buffer.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf.Write(p)
}

// Flush writes the buffered output to w one line at a time and resets the
// buffer. Line-at-a-time keeps zerolog.ConsoleWriter, which expects one JSON
// event per Write, working as w.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		line, err := d.buf.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := w.Write(line); werr != nil {
				return werr
			}
		}
		if err != nil {
			break
		}
	}
	d.buf.Reset()
	return nil
}
