package artifact

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockFile = ".harvester.lock"

// ErrLocked is returned when another run holds the output directory.
var ErrLocked = errors.New("output directory is in use by another run")

// Lock takes an exclusive, non-blocking lock on dir for the length of a run.
// The returned func releases it.
func Lock(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	fl := flock.New(filepath.Join(dir, lockFile))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", dir, err)
	}
	if !locked {
		return nil, fmt.Errorf("%s: %w", dir, ErrLocked)
	}
	return func() { _ = fl.Unlock() }, nil
}
