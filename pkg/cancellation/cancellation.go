// Package cancellation provides a one-shot cancel signal shared between
// a mutable source and any number of read-only tokens.
package cancellation

import "sync/atomic"

// Source is the producer side of the cancel signal. The flag flips to
// canceled at most once and never resets.
type Source struct {
	canceled *atomic.Bool
}

func NewSource() *Source {
	return &Source{canceled: new(atomic.Bool)}
}

// Cancel marks the source canceled. Idempotent and safe from any
// goroutine.
func (s *Source) Cancel() {
	s.canceled.Store(true)
}

// Token returns an observer of this source. Tokens share the source's
// flag, so they remain valid even if the source itself is dropped.
func (s *Source) Token() Token {
	return Token{canceled: s.canceled}
}

// Token is a read-only view of a Source. The zero value is the
// never-canceled token used when a caller supplies none.
type Token struct {
	canceled *atomic.Bool
}

// None returns the never-canceled token.
func None() Token {
	return Token{}
}

// IsCanceled reports whether the observed source has been canceled.
// Once true, it stays true.
func (t Token) IsCanceled() bool {
	return t.canceled != nil && t.canceled.Load()
}
