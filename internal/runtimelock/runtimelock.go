// Package runtimelock watches the game's running-lock file so mutating
// commands can refuse to touch mod-list/settings state while the game is
// running.
package runtimelock

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// OperationAborted reports that a mutating command refused to run
// because the game's lock file is present.
type OperationAborted struct {
	Reason string
}

func (e *OperationAborted) Error() string { return fmt.Sprintf("operation aborted: %s", e.Reason) }

// Running reports whether the game's lock file currently exists.
func Running(lockPath string) bool {
	_, err := os.Stat(lockPath)
	return err == nil
}

// RequireStopped returns OperationAborted if the game's lock file is
// present.
func RequireStopped(lockPath string) error {
	if Running(lockPath) {
		return &OperationAborted{Reason: fmt.Sprintf("the game is running (lock file %q present)", lockPath)}
	}
	return nil
}

// Watcher observes lockPath and invokes onChange whenever the lock file
// is created or removed, so a long-running command (e.g. a presenter
// loop) can react to the game starting or stopping.
type Watcher struct {
	fsw *fsnotify.Watcher
}

// Watch begins watching lockPath's parent directory for create/remove
// events on lockPath itself.
func Watch(lockPath string, onChange func(running bool)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(lockPath)
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	go func() {
		for {
			select {
			case ev, ok := <-fsw.Events:
				if !ok {
					return
				}
				if ev.Name != lockPath {
					continue
				}
				switch {
				case ev.Has(fsnotify.Create):
					onChange(true)
				case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
					onChange(false)
				}
			case _, ok := <-fsw.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return &Watcher{fsw: fsw}, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error { return w.fsw.Close() }
