// Package hostlock serializes operations against a host across independent
// processes. Locks are flock(2) based, so the kernel drops them when the
// holding process exits, cleanly or not.
package hostlock

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// Manager hands out locks backed by files inside one directory.
type Manager struct {
	dir string
}

func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Key derives the lock key for an operation kind against a host.
func Key(host, kind string) string {
	return sanitize(kind) + "-" + sanitize(host)
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_', r == '@':
			return r
		default:
			return '_'
		}
	}, s)
}

// Path returns the lock file used for key.
func (m *Manager) Path(key string) string {
	return filepath.Join(m.dir, key+".lock")
}

// TryAcquire takes the lock for key without waiting. It returns false when
// another holder has it.
func (m *Manager) TryAcquire(key string) (*Lock, bool, error) {
	if err := os.MkdirAll(m.dir, 0o750); err != nil {
		return nil, false, fmt.Errorf("can't create lock directory %q: %w", m.dir, err)
	}

	fl := flock.New(m.Path(key))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("can't lock %q: %w", fl.Path(), err)
	}
	if !locked {
		return nil, false, nil
	}
	return &Lock{key: key, fl: fl}, true, nil
}

// With runs fn while holding the lock for key. fn is not called when the
// lock is held elsewhere; acquired reports which case happened. The lock is
// released on every return path of fn, panics included.
func (m *Manager) With(key string, fn func() error) (acquired bool, err error) {
	lock, ok, err := m.TryAcquire(key)
	if err != nil || !ok {
		return false, err
	}
	defer func() { _ = lock.Release() }()

	return true, fn()
}

// Lock is the capability returned by a successful acquisition.
type Lock struct {
	key  string
	fl   *flock.Flock
	once sync.Once
	err  error
}

func (l *Lock) Key() string {
	return l.key
}

// Release drops the lock. Calling it more than once is a no-op.
func (l *Lock) Release() error {
	l.once.Do(func() {
		l.err = l.fl.Unlock()
	})
	return l.err
}
