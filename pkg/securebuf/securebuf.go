// Package securebuf holds secret byte material with an explicit,
// testable wipe step.
package securebuf

import (
	"errors"
	"fmt"
)

// ErrWiped is returned when reading a buffer after Wipe().
var ErrWiped = errors.New("secure buffer has been wiped")

// Buffer owns a secret byte slice. The backing array is copied on
// construction so the caller cannot retain an alias, and Wipe()
// overwrites it with zeros before dropping the reference.
type Buffer struct {
	data  []byte
	wiped bool
}

// New copies b into a fresh Buffer. Empty input is rejected so a
// zero-length secret can never masquerade as valid key material.
func New(b []byte) (*Buffer, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("secure buffer: empty input")
	}
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data}, nil
}

// Bytes returns the secret bytes. The returned slice aliases the
// internal storage; callers must not retain it past the buffer's
// lifetime.
func (b *Buffer) Bytes() ([]byte, error) {
	if b.wiped {
		return nil, ErrWiped
	}
	return b.data, nil
}

// Len returns the length of the secret, or 0 after Wipe().
func (b *Buffer) Len() int {
	if b.wiped {
		return 0
	}
	return len(b.data)
}

// Wiped reports whether Wipe() has run.
func (b *Buffer) Wiped() bool {
	return b.wiped
}

// Wipe overwrites the secret with zero bytes and drops the reference.
// Idempotent: calling Wipe on an already-wiped buffer is a no-op.
func (b *Buffer) Wipe() {
	if b.wiped {
		return
	}
	for i := range b.data {
		b.data[i] = 0
	}
	b.data = nil
	b.wiped = true
}
