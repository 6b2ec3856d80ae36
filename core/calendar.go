package core

import (
	"context"
	"time"
)

type (
	// DeadlineEvent is an all-day calendar entry mirroring a known deadline.
	// Key identifies the source task so repeated syncs update instead of duplicate.
	DeadlineEvent struct {
		Key     string
		Summary string
		Due     time.Time
	}

	// CalendarService mirrors deadline events on an external calendar.
	// Event CRUD semantics belong to the implementation; callers only sync and list.
	CalendarService interface {
		SyncDeadline(ctx context.Context, ev DeadlineEvent) error
		Upcoming(ctx context.Context, from time.Time, max int64) ([]DeadlineEvent, error)
	}
)
