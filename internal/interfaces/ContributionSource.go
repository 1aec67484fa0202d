package interfaces

import (
	"context"
	"time"
)

// ContributionSource returns the number of contributions username made on
// the calendar day of today.
type ContributionSource interface {
	TodayCount(ctx context.Context, username string, today time.Time) (uint32, error)
}
