package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/tkoide/shutsugan/core/catalog"
)

type catalogRepository struct {
	db *DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *DB) catalog.Repository {
	return &catalogRepository{db: db}
}

func (repo *catalogRepository) QueryUniversities(_ context.Context) ([]catalog.University, error) {
	repo.db.universities.RLock()
	defer repo.db.universities.RUnlock()

	// catalog order is insertion order; callers rely on it being stable
	unis := make([]catalog.University, len(repo.db.universities.rows))
	copy(unis, repo.db.universities.rows)
	return unis, nil
}

func (repo *catalogRepository) GetUniversityByID(_ context.Context, id string) (catalog.University, error) {
	repo.db.universities.RLock()
	defer repo.db.universities.RUnlock()

	for _, u := range repo.db.universities.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return catalog.University{}, catalog.ErrUniversityNotFound
}

func (repo *catalogRepository) QueryTaskTemplates(_ context.Context) ([]catalog.TaskTemplate, error) {
	repo.db.templates.RLock()
	defer repo.db.templates.RUnlock()

	tmpls := make([]catalog.TaskTemplate, len(repo.db.templates.rows))
	copy(tmpls, repo.db.templates.rows)
	return tmpls, nil
}

func (repo *catalogRepository) QueryDeadlines(_ context.Context) ([]catalog.Deadline, error) {
	repo.db.deadlines.RLock()
	defer repo.db.deadlines.RUnlock()

	dls := make([]catalog.Deadline, len(repo.db.deadlines.rows))
	copy(dls, repo.db.deadlines.rows)
	return dls, nil
}

func (repo *catalogRepository) CreateUniversities(_ context.Context, unis []catalog.University) ([]catalog.University, error) {
	repo.db.universities.Lock()
	defer repo.db.universities.Unlock()

	created := make([]catalog.University, 0, len(unis))
	for _, u := range unis {
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		repo.db.universities.rows = append(repo.db.universities.rows, u)
		created = append(created, u)
	}
	return created, nil
}

func (repo *catalogRepository) CreateTaskTemplates(_ context.Context, tmpls []catalog.TaskTemplate) ([]catalog.TaskTemplate, error) {
	repo.db.templates.Lock()
	defer repo.db.templates.Unlock()

	created := make([]catalog.TaskTemplate, 0, len(tmpls))
	for _, t := range tmpls {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		repo.db.templates.rows = append(repo.db.templates.rows, t)
		created = append(created, t)
	}
	return created, nil
}

func (repo *catalogRepository) CreateDeadlines(_ context.Context, dls []catalog.Deadline) ([]catalog.Deadline, error) {
	repo.db.deadlines.Lock()
	defer repo.db.deadlines.Unlock()

	repo.db.deadlines.rows = append(repo.db.deadlines.rows, dls...)
	return dls, nil
}
