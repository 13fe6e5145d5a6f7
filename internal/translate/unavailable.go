package translate

import (
	"context"
	"fmt"
)

// Unavailable stands in for a backend whose credential or dependency is not
// configured. Every call fails immediately, which lets the fallback policy
// treat "not configured" and "errored" identically.
type Unavailable struct {
	name string
}

// NewUnavailable names the missing backend for logs and failure results.
func NewUnavailable(name string) *Unavailable {
	return &Unavailable{name: name}
}

// Name implements Backend.
func (u *Unavailable) Name() string { return u.name }

// Translate implements Backend.
func (u *Unavailable) Translate(_ context.Context, _, _, _ string) (Result, error) {
	return Result{}, fmt.Errorf("%s translation backend is not configured", u.name)
}
