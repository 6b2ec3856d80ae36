package main

import (
	"errors"

	"github.com/tkoide/shutsugan/storage/database"
)

var gooseRunFunc = database.RunGoose // mockable

var errNoMigrationDB = errors.New("migrations require the postgres store backend")

func (cli *commandLine) migrate(args []string) error {
	if cli.db == nil {
		return errNoMigrationDB
	}
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(args[0], cli.db, arguments...)
}
