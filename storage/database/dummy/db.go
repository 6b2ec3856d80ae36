package dummydb

import (
	"sync"

	"github.com/tkoide/shutsugan/core/catalog"
	"github.com/tkoide/shutsugan/core/roster"
	"github.com/tkoide/shutsugan/core/user"
)

// DB is an in-memory Reference Store used by tests and local development.
type DB struct {
	users        *userTable
	universities *universityTable
	templates    *templateTable
	deadlines    *deadlineTable
	tasks        *taskTable
}

type (
	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	universityTable struct {
		sync.RWMutex
		rows []catalog.University
	}

	templateTable struct {
		sync.RWMutex
		rows []catalog.TaskTemplate
	}

	deadlineTable struct {
		sync.RWMutex
		rows []catalog.Deadline
	}

	taskTable struct {
		sync.RWMutex
		rows []*roster.Task
	}
)

func Open() (*DB, error) {
	db := &DB{
		users:        &userTable{table: make(map[string]*user.User)},
		universities: &universityTable{},
		templates:    &templateTable{},
		deadlines:    &deadlineTable{},
		tasks:        &taskTable{},
	}
	return db, nil
}
