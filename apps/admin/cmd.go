package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/catalog"
	"github.com/tkoide/shutsugan/core/roster"
	"github.com/tkoide/shutsugan/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf   *core.Config
	logger core.Logger

	db        *sql.DB // nil unless backend is "postgres"
	usrSvc    *user.Service
	catSvc    *catalog.Service
	rosterSvc *roster.Service
	mailSvc   core.EmailService
	calSvc    core.CalendarService
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [args]    - run a database migration command (up, down, status, ...)")
	fmt.Println("  seed -dir DIR             - load the reference catalogs from CSV files in DIR")
	fmt.Println("  remind                    - email each user a digest of their upcoming deadlines")
	fmt.Println("  calendar-sync             - mirror the deadline catalog on the configured calendar")
	fmt.Println("  calendar-upcoming [-max N] - list the next deadline events on the calendar")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	seedCmd := flag.NewFlagSet("seed", flag.ExitOnError)
	seedDir := seedCmd.String("dir", "", "Directory containing universities.csv, task_templates.csv and deadlines.csv.")

	upcomingCmd := flag.NewFlagSet("calendar-upcoming", flag.ExitOnError)
	upcomingMax := upcomingCmd.Int64("max", 10, "Maximum number of events to list.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *seedDir == "" {
			seedCmd.Usage()
			return errHelp
		}
		return cli.seed(*seedDir)
	case "remind":
		return cli.remind()
	case "calendar-sync":
		return cli.calendarSync()
	case "calendar-upcoming":
		if err := upcomingCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.calendarUpcoming(*upcomingMax)
	default:
		cli.printUsage()
		return errHelp
	}
}
