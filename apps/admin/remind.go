package main

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/roster"
)

type digestData struct {
	Name       string
	WindowDays int
	Rows       []roster.ViewRow
}

// remind emails each user a digest of their open tasks due within the
// configured reminder window, overdue ones included. Users with nothing
// due get no email.
func (cli *commandLine) remind() error {
	ctx := context.Background()
	now := time.Now()
	window := cli.conf.Reminder.WindowDays

	users, err := cli.usrSvc.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}

	messages := make([]*core.EmailMessage, 0, len(users))
	for _, usr := range users {
		rows, err := cli.rosterSvc.Board(ctx, usr.ID, now, roster.ProjectOptions{
			HideCompleted: true,
			SortBy:        roster.SortByDueDate,
		})
		if err != nil {
			return errors.Wrapf(err, "projecting board for %s", usr.Email)
		}

		due := make([]roster.ViewRow, 0, len(rows))
		for _, row := range rows {
			switch {
			case row.Status == roster.DueOverdue:
				due = append(due, row)
			case row.Status == roster.DueScheduled && row.DaysLeft <= window:
				due = append(due, row)
			}
		}
		if len(due) == 0 {
			continue
		}

		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{{Name: usr.Name, Address: usr.Email}},
			Subject:      "Upcoming application deadlines",
			TemplateName: "deadline-digest",
			TemplateData: digestData{Name: usr.Name, WindowDays: window, Rows: due},
		})
	}

	// block until delivery: the process exits right after this command
	cli.mailSvc.SendMessagesSync(messages...)
	cli.logger.Info(fmt.Sprintf("reminders: %d/%d users have deadlines within %d days", len(messages), len(users), window))
	return nil
}
