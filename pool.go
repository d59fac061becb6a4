package healthpdf

import (
	"context"
	"runtime"
)

// Concurrency sizing constants.
const (
	// MinConcurrency ensures at least one render can run.
	MinConcurrency = 1

	// MaxConcurrency caps simultaneous browsers to limit memory (~200MB each).
	MaxConcurrency = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ResolveConcurrency determines how many renders may run at once.
// Priority: explicit n > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveConcurrency(n int) int {
	if n > 0 {
		return n
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	available := runtime.GOMAXPROCS(0)
	n = available / cpuDivisor

	if n < MinConcurrency {
		return MinConcurrency
	}
	if n > MaxConcurrency {
		return MaxConcurrency
	}
	return n
}

// limiter bounds concurrent renders. Each render launches its own browser,
// so the slot count is the browser count.
type limiter struct {
	sem chan struct{}
}

func newLimiter(n int) *limiter {
	if n < MinConcurrency {
		n = MinConcurrency
	}
	return &limiter{sem: make(chan struct{}, n)}
}

// acquire blocks until a slot is free or ctx is done.
func (l *limiter) acquire(ctx context.Context) error {
	select {
	case l.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *limiter) release() {
	<-l.sem
}

func (l *limiter) size() int {
	return cap(l.sem)
}

func (l *limiter) inUse() int {
	return len(l.sem)
}
