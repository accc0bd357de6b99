// Package logging holds the zap logger PalletJack's public operations log
// through. As a library, PalletJack defaults to a no-op logger so it never
// writes to stderr uninvited; embedding applications call SetLogger to wire
// in their own.
package logging

import (
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var current atomic.Pointer[zap.Logger]

func init() {
	current.Store(zap.NewNop())
}

// SetLogger replaces the logger PalletJack's operations use. Safe to call
// concurrently with in-flight operations; it takes effect for calls that
// start after it returns.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	current.Store(l)
}

// L returns the currently configured logger.
func L() *zap.Logger {
	return current.Load()
}

// NewCallID returns a short, unique identifier for one public-API call, so
// its log lines can be correlated without passing a context through every
// frame of a pure, synchronous call path.
func NewCallID() string {
	return uuid.NewString()
}
