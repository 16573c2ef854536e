package cryptox

import (
	"errors"
	"fmt"
	"sync"

	"github.com/awnumar/memguard"
)

// SessionSecretSize is the size of the process session secret (256 bits).
const SessionSecretSize = 32

// ErrSecretDestroyed is returned by WithKey once Destroy has run.
var ErrSecretDestroyed = errors.New("cryptox: secret destroyed")

// Secret holds key material in a memguard locked buffer: mlocked, guarded
// by canary pages and excluded from core dumps. The buffer is frozen
// (read-only) once filled.
//
// Call Destroy when done to wipe the key material. Destroy waits for any
// WithKey call in progress; later calls get ErrSecretDestroyed instead of
// touching unmapped memory.
type Secret struct {
	mu  sync.RWMutex
	buf *memguard.LockedBuffer
}

// NewRandomSecret generates size bytes from the system CSPRNG straight into
// locked memory.
func NewRandomSecret(size int) (*Secret, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cryptox: secret size must be positive, got %d", size)
	}

	buf := memguard.NewBufferRandom(size)
	if buf.Size() != size {
		return nil, fmt.Errorf("cryptox: failed to allocate %d byte secret", size)
	}
	buf.Freeze()

	return &Secret{buf: buf}, nil
}

// NewSecretFromBytes moves b into locked memory. b is wiped.
func NewSecretFromBytes(b []byte) (*Secret, error) {
	if len(b) == 0 {
		return nil, errors.New("cryptox: empty secret")
	}

	buf := memguard.NewBufferFromBytes(b)
	buf.Freeze()

	return &Secret{buf: buf}, nil
}

// WithKey runs fn with a read-only view of the secret. The view must not
// outlive fn; Destroy unmaps it.
func (s *Secret) WithKey(fn func(key []byte) error) error {
	if s == nil {
		return ErrSecretDestroyed
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.buf == nil || !s.buf.IsAlive() {
		return ErrSecretDestroyed
	}
	return fn(s.buf.Bytes())
}

// Bytes returns a read-only view of the secret, or nil once destroyed.
// Writing to it faults, and so does reading it after Destroy; use WithKey
// for anything that may race with shutdown.
func (s *Secret) Bytes() []byte {
	if s == nil {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.buf == nil || !s.buf.IsAlive() {
		return nil
	}
	return s.buf.Bytes()
}

// Size is the secret length in bytes, or zero once destroyed.
func (s *Secret) Size() int {
	return len(s.Bytes())
}

// Destroy wipes and unlocks the underlying memory. Safe to call twice.
func (s *Secret) Destroy() {
	if s == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.buf == nil {
		return
	}
	s.buf.Destroy()
}
