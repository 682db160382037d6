package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/klauspost/compress/gzip"
)

// ErrWrite indicates the report could not be persisted. Terminal: the run
// must not proceed to the reboot prompt without a durable report.
var ErrWrite = errors.New("report write error")

// Write serializes the report as indented JSON at path. The path is guarded
// with a file lock so two concurrent autosac runs cannot interleave writes.
func Write(path string, rep *Report) error {
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("%w: locking %s: %v", ErrWrite, path, err)
	}
	defer lock.Unlock() //nolint:errcheck // release is best-effort

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// WriteCompressed writes the gzipped report to path+".gz".
func WriteCompressed(path string, rep *Report) error {
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	f, err := os.Create(path + ".gz")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}
