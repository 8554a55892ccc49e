package rrgraph

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// Output writes a graph to a temporary file next to its destination and atomically
// renames it into place on Close, so the destination may be the graph being read.
type Output struct {
	path    string
	tmpPath string
	file    *os.File
	buf     *bufio.Writer
	w       io.Writer
	snappy  *snappy.Writer
}

// Create opens an output for path. Paths ending in ".sz" are written snappy-framed.
func Create(path string) (*Output, error) {
	tmpPath := path + ".new"
	file, err := os.OpenFile(tmpPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", tmpPath, err)
	}

	o := &Output{
		path:    path,
		tmpPath: tmpPath,
		file:    file,
		buf:     bufio.NewWriter(file),
	}
	o.w = o.buf
	if strings.HasSuffix(path, CompressedSuffix) {
		o.snappy = snappy.NewBufferedWriter(o.buf)
		o.w = o.snappy
	}
	return o, nil
}

// Write implements io.Writer
func (o *Output) Write(p []byte) (int, error) {
	return o.w.Write(p)
}

// Close flushes, syncs and renames the output into place
func (o *Output) Close() error {
	if o.snappy != nil {
		if err := o.snappy.Close(); err != nil {
			o.Abort()
			return fmt.Errorf("failed to finish compression: %w", err)
		}
	}
	if err := o.buf.Flush(); err != nil {
		o.Abort()
		return fmt.Errorf("failed to flush %s: %w", o.tmpPath, err)
	}
	if err := o.file.Sync(); err != nil {
		o.Abort()
		return fmt.Errorf("failed to sync %s: %w", o.tmpPath, err)
	}
	if err := o.file.Close(); err != nil {
		_ = os.Remove(o.tmpPath)
		return fmt.Errorf("failed to close %s: %w", o.tmpPath, err)
	}
	if err := os.Rename(o.tmpPath, o.path); err != nil {
		_ = os.Remove(o.tmpPath)
		return fmt.Errorf("failed to rename %s: %w", o.tmpPath, err)
	}
	return nil
}

// Abort discards the output without touching the destination
func (o *Output) Abort() {
	_ = o.file.Close()
	_ = os.Remove(o.tmpPath)
}
