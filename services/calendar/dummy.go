package calsvc

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tkoide/shutsugan/core"
)

// dummyService keeps synced events in memory. Used in tests and
// whenever no calendar credentials are configured.
type dummyService struct {
	mu     sync.RWMutex
	events map[string]core.DeadlineEvent
}

var _ core.CalendarService = (*dummyService)(nil)

func NewDummyService() *dummyService {
	return &dummyService{events: make(map[string]core.DeadlineEvent)}
}

func (svc *dummyService) SyncDeadline(_ context.Context, ev core.DeadlineEvent) error {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.events[ev.Key] = ev
	return nil
}

func (svc *dummyService) Upcoming(_ context.Context, from time.Time, max int64) ([]core.DeadlineEvent, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	upcoming := make([]core.DeadlineEvent, 0, len(svc.events))
	for _, ev := range svc.events {
		if ev.Due.Before(from) {
			continue
		}
		upcoming = append(upcoming, ev)
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].Due.Before(upcoming[j].Due) })
	if max > 0 && int64(len(upcoming)) > max {
		upcoming = upcoming[:max]
	}
	return upcoming, nil
}

// Synced returns the events synced so far, for assertions in tests.
func (svc *dummyService) Synced() []core.DeadlineEvent {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	events := make([]core.DeadlineEvent, 0, len(svc.events))
	for _, ev := range svc.events {
		events = append(events, ev)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Key < events[j].Key })
	return events
}
