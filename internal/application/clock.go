package application

import (
	"context"
	"time"
)

// Clock abstracts time retrieval so execution timestamps are deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// Locker serializes plan executions per key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
