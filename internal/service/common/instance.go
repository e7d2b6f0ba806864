//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mitchellh/go-ps"
)

// ErrAlreadyRunning is returned when another process with the same executable name exists.
var ErrAlreadyRunning = errors.New("another instance is already running")

// processLister returns the running processes.
type processLister func() ([]ps.Process, error)

// EnsureSingleInstance fails when another process runs the same executable as
// this one. Two controllers would fight over the same outputs.
func EnsureSingleInstance() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate executable: %w", err)
	}

	return ensureSingleInstance(ps.Processes, filepath.Base(executable), os.Getpid())
}

// ensureSingleInstance scans the process list for name, skipping self.
func ensureSingleInstance(list processLister, name string, self int) error {
	processList, err := list()
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	for _, process := range processList {
		if process.Pid() == self {
			continue
		}

		if !sameExecutable(process.Executable(), name) {
			continue
		}

		return fmt.Errorf("%s (pid %d): %w", name, process.Pid(), ErrAlreadyRunning)
	}

	return nil
}

// sameExecutable compares executable names, ignoring case on Windows.
// Linux truncates process names to 15 bytes, so a truncated match counts too.
func sameExecutable(running, name string) bool {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return strings.EqualFold(running, name)
	}

	const commLength = 15

	if len(name) > commLength && len(running) == commLength {
		return strings.HasPrefix(name, running)
	}

	return running == name
}
