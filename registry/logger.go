package registry

import (
	"sync"

	"go.uber.org/zap"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the logger the registry reports lookup misses to. Unresolved
// GPU addresses, unresolved descriptor handles and renames of untracked
// objects are logged at debug level; callers see the miss as a zero key.
// It is a no-op logger until SetLogger is called.
func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

// SetLogger replaces the registry logger. A nil logger restores the no-op
// default. Call it before registries are shared between goroutines.
func SetLogger(l *zap.Logger) {
	loggerOnce.Do(func() {})
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}
