package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
	calsvc "github.com/tkoide/shutsugan/services/calendar"
)

func (cli *commandLine) ensureCalendarService(ctx context.Context) error {
	if cli.calSvc != nil {
		return nil
	}
	svc, err := calsvc.NewGoogleService(ctx, cli.conf, cli.logger)
	if err != nil {
		return errors.Wrap(err, "setting up calendar service")
	}
	cli.calSvc = svc
	return nil
}

// calendarSync mirrors the deadline catalog on the configured calendar as
// all-day events. Re-running updates events in place instead of duplicating.
func (cli *commandLine) calendarSync() error {
	ctx := context.Background()

	if err := cli.ensureCalendarService(ctx); err != nil {
		return err
	}

	unis, err := cli.catSvc.Universities(ctx)
	if err != nil {
		return errors.Wrap(err, "querying universities")
	}
	uniNames := make(map[string]string, len(unis))
	for _, u := range unis {
		uniNames[u.ID] = u.Name
	}

	tmpls, err := cli.catSvc.TaskTemplates(ctx)
	if err != nil {
		return errors.Wrap(err, "querying task templates")
	}
	tmplNames := make(map[string]string, len(tmpls))
	for _, t := range tmpls {
		tmplNames[t.ID] = t.Name
	}

	deadlines, err := cli.catSvc.Deadlines(ctx)
	if err != nil {
		return errors.Wrap(err, "querying deadlines")
	}

	for _, d := range deadlines {
		summary := uniNames[d.UniversityID] + ": application deadline"
		if d.TemplateID != "" {
			summary = fmt.Sprintf("%s: %s due", uniNames[d.UniversityID], tmplNames[d.TemplateID])
		}
		ev := core.DeadlineEvent{
			Key:     d.UniversityID + "/" + d.TemplateID,
			Summary: summary,
			Due:     d.Due,
		}
		if err = cli.calSvc.SyncDeadline(ctx, ev); err != nil {
			return errors.Wrapf(err, "syncing deadline %s", ev.Key)
		}
	}

	cli.logger.Info(fmt.Sprintf("calendar: %d deadlines synced", len(deadlines)))
	return nil
}

// calendarUpcoming prints the next deadline events on the configured
// calendar, soonest first.
func (cli *commandLine) calendarUpcoming(max int64) error {
	ctx := context.Background()

	if err := cli.ensureCalendarService(ctx); err != nil {
		return err
	}

	events, err := cli.calSvc.Upcoming(ctx, time.Now(), max)
	if err != nil {
		return errors.Wrap(err, "listing upcoming events")
	}
	if len(events) == 0 {
		fmt.Println("No upcoming deadlines on the calendar.")
		return nil
	}
	for _, ev := range events {
		fmt.Printf("%s  %s\n", ev.Due.Format("2006-01-02"), ev.Summary)
	}
	return nil
}
