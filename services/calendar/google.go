package calsvc

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/tkoide/shutsugan/core"
)

const (
	credentialsFile = "credentials.json"
	tokenFile       = "token.json"

	// private extended property linking an event to its source deadline
	taskKeyProp = "task_key"

	dateLayout = "2006-01-02"
)

type googleService struct {
	srv        *calendar.Service
	calendarID string
	logger     core.Logger
}

var _ core.CalendarService = (*googleService)(nil)

// NewGoogleService builds a Calendar client from the credentials and token
// files under conf.Calendar.CredentialsDir. The token must already exist;
// obtaining one is an operator concern, not a server one.
func NewGoogleService(ctx context.Context, conf *core.Config, logger core.Logger) (*googleService, error) {
	dir := conf.Calendar.CredentialsDir

	b, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if err != nil {
		return nil, errors.Wrap(err, "reading client secrets")
	}
	oauthConf, err := google.ConfigFromJSON(b, calendar.CalendarEventsScope)
	if err != nil {
		return nil, errors.Wrap(err, "parsing client secrets")
	}

	tok, err := tokenFromFile(filepath.Join(dir, tokenFile))
	if err != nil {
		return nil, errors.Wrap(err, "loading oauth token")
	}

	srv, err := calendar.NewService(ctx, option.WithHTTPClient(oauthConf.Client(ctx, tok)))
	if err != nil {
		return nil, errors.Wrap(err, "creating calendar service")
	}
	return &googleService{srv: srv, calendarID: conf.Calendar.ID, logger: logger}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := new(oauth2.Token)
	if err = json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

// SyncDeadline creates an all-day event for ev, or updates the existing one
// carrying the same key so repeated syncs never duplicate.
func (svc *googleService) SyncDeadline(ctx context.Context, ev core.DeadlineEvent) error {
	existing, err := svc.findByKey(ctx, ev.Key)
	if err != nil {
		return err
	}

	event := svc.toEvent(ev)
	if existing != nil {
		if existing.Summary == event.Summary && sameDate(existing, event) {
			return nil
		}
		_, err = svc.srv.Events.Patch(svc.calendarID, existing.Id, event).Context(ctx).Do()
		return errors.Wrap(err, "patching event")
	}

	_, err = svc.srv.Events.Insert(svc.calendarID, event).Context(ctx).Do()
	return errors.Wrap(err, "inserting event")
}

func (svc *googleService) Upcoming(ctx context.Context, from time.Time, max int64) ([]core.DeadlineEvent, error) {
	call := svc.srv.Events.List(svc.calendarID).
		TimeMin(from.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")
	if max > 0 {
		call = call.MaxResults(max)
	}
	events, err := call.Context(ctx).Do()
	if err != nil {
		return nil, errors.Wrap(err, "listing events")
	}

	upcoming := make([]core.DeadlineEvent, 0, len(events.Items))
	for _, item := range events.Items {
		ev, ok := svc.fromEvent(item)
		if !ok {
			continue
		}
		upcoming = append(upcoming, ev)
	}
	return upcoming, nil
}

func (svc *googleService) findByKey(ctx context.Context, key string) (*calendar.Event, error) {
	events, err := svc.srv.Events.List(svc.calendarID).
		PrivateExtendedProperty(taskKeyProp + "=" + key).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "searching for event")
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}

func (svc *googleService) toEvent(ev core.DeadlineEvent) *calendar.Event {
	day := ev.Due.Format(dateLayout)
	return &calendar.Event{
		Summary: ev.Summary,
		Start:   &calendar.EventDateTime{Date: day},
		End:     &calendar.EventDateTime{Date: day},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{taskKeyProp: ev.Key},
		},
	}
}

func (svc *googleService) fromEvent(event *calendar.Event) (core.DeadlineEvent, bool) {
	if event.ExtendedProperties == nil {
		return core.DeadlineEvent{}, false
	}
	key, ok := event.ExtendedProperties.Private[taskKeyProp]
	if !ok {
		return core.DeadlineEvent{}, false
	}
	var due time.Time
	if event.Start != nil && event.Start.Date != "" {
		due, _ = time.Parse(dateLayout, event.Start.Date)
	}
	return core.DeadlineEvent{Key: key, Summary: event.Summary, Due: due}, true
}

func sameDate(a, b *calendar.Event) bool {
	if a.Start == nil || b.Start == nil {
		return false
	}
	return a.Start.Date == b.Start.Date
}
