package dummydb

import (
	"context"
	"time"

	"github.com/tkoide/shutsugan/core/roster"
)

type rosterRepository struct {
	db *taskTable
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) roster.Repository {
	return &rosterRepository{db: db.tasks}
}

func (repo *rosterRepository) QueryUserTasks(_ context.Context, userID string) ([]roster.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var tasks []roster.Task
	for _, t := range repo.db.rows {
		if t.UserID == userID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (repo *rosterRepository) QueryUserUniversityTasks(_ context.Context, userID, universityID string) ([]roster.Task, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var tasks []roster.Task
	for _, t := range repo.db.rows {
		if t.UserID == userID && t.UniversityID == universityID {
			tasks = append(tasks, *t)
		}
	}
	return tasks, nil
}

func (repo *rosterRepository) CreateTasks(_ context.Context, tasks []roster.Task) ([]roster.Task, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	created := make([]roster.Task, 0, len(tasks))
	for _, t := range tasks {
		t := t
		repo.db.rows = append(repo.db.rows, &t)
		created = append(created, t)
	}
	return created, nil
}

func (repo *rosterRepository) UpdateTaskFlag(_ context.Context, key roster.TaskKey, flag roster.Flag, value bool) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, t := range repo.db.rows {
		if t.UserID != key.UserID || t.UniversityID != key.UniversityID || t.TemplateID != key.TemplateID {
			continue
		}
		switch flag {
		case roster.FlagCompleted:
			t.Completed = value
		case roster.FlagFavorite:
			t.Favorite = value
		}
		t.UpdatedAt = time.Now().UTC()
		return nil
	}
	return roster.ErrTaskNotFound
}
