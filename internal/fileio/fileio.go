// Package fileio loads and stores whole files with explicit length checks.
package fileio

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrShortWrite is returned when fewer bytes reached the file than were given.
var ErrShortWrite = errors.New("short write")

// Load reads the whole file at path into a buffer sized from its length.
// The source must be seekable; pipes fail at the size query.
func Load(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	end, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("sizing %s: %w", path, err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewinding %s: %w", path, err)
	}
	if int64(int(end)) != end {
		return nil, fmt.Errorf("%s: file too large (%d bytes)", path, end)
	}

	buf := make([]byte, int(end))
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf, nil
}

// Save writes data to path, creating or truncating it. If anything fails
// after the file was opened, the partial file is removed.
func Save(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			os.Remove(path)
		}
	}()

	n, werr := f.Write(data)
	if werr == nil && n != len(data) {
		werr = fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, len(data))
	}
	if cerr := f.Close(); werr == nil && cerr != nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("writing %s: %w", path, werr)
	}
	return nil
}
