package main

import (
	"fmt"
	"log"
	"os"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/catalog"
	"github.com/tkoide/shutsugan/core/roster"
	"github.com/tkoide/shutsugan/core/user"
	emailsvc "github.com/tkoide/shutsugan/services/email"
	logsvc "github.com/tkoide/shutsugan/services/logger"
	"github.com/tkoide/shutsugan/storage/database"
	"github.com/tkoide/shutsugan/storage/database/postgrest"
	"github.com/tkoide/shutsugan/storage/database/sqlpg"
)

func main() {
	defer os.Exit(0)

	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	cli := commandLine{conf: conf, logger: logger}

	switch conf.Store.Backend {
	case "postgrest":
		client := postgrest.NewClient(conf)
		cli.catSvc = catalog.NewService(postgrest.NewCatalogRepository(client))
		cli.usrSvc = user.NewService(postgrest.NewUserRepository(client))
		cli.rosterSvc = roster.NewService(postgrest.NewRosterRepository(client), cli.catSvc)

	case "postgres":
		db, err := database.Open(conf)
		if err != nil {
			logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
		}
		defer db.Close()
		cli.db = db.DB
		cli.catSvc = catalog.NewService(sqlpg.NewCatalogRepository(db))
		cli.usrSvc = user.NewService(sqlpg.NewUserRepository(db))
		cli.rosterSvc = roster.NewService(sqlpg.NewRosterRepository(db), cli.catSvc)

	default:
		logger.Fatal(fmt.Sprintf("unknown store backend %q", conf.Store.Backend))
	}

	if conf.Debug {
		cli.mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		cli.mailSvc = emailsvc.NewSendgridService(conf, logger)
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
