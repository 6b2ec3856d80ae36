package sqlpg

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tkoide/shutsugan/core/catalog"
)

type catalogRepository struct {
	db *sqlx.DB
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) catalog.Repository {
	return &catalogRepository{db: db}
}

type (
	universityRow struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}

	templateRow struct {
		ID   string `db:"id"`
		Name string `db:"name"`
	}

	deadlineRow struct {
		UniversityID string       `db:"university_id"`
		TemplateID   string       `db:"template_id"`
		Due          sql.NullTime `db:"due"`
	}
)

func (repo *catalogRepository) QueryUniversities(ctx context.Context) ([]catalog.University, error) {
	var rows []universityRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT id, name FROM universities ORDER BY ord`)
	if err != nil {
		return nil, wrapStoreErr(err, "querying universities")
	}
	unis := make([]catalog.University, 0, len(rows))
	for _, r := range rows {
		unis = append(unis, catalog.University{ID: r.ID, Name: r.Name})
	}
	return unis, nil
}

func (repo *catalogRepository) GetUniversityByID(ctx context.Context, id string) (catalog.University, error) {
	var row universityRow
	err := repo.db.GetContext(ctx, &row, `SELECT id, name FROM universities WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return catalog.University{}, catalog.ErrUniversityNotFound
	}
	if err != nil {
		return catalog.University{}, wrapStoreErr(err, "finding university")
	}
	return catalog.University{ID: row.ID, Name: row.Name}, nil
}

func (repo *catalogRepository) QueryTaskTemplates(ctx context.Context) ([]catalog.TaskTemplate, error) {
	var rows []templateRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT id, name FROM task_templates ORDER BY ord`)
	if err != nil {
		return nil, wrapStoreErr(err, "querying task templates")
	}
	tmpls := make([]catalog.TaskTemplate, 0, len(rows))
	for _, r := range rows {
		tmpls = append(tmpls, catalog.TaskTemplate{ID: r.ID, Name: r.Name})
	}
	return tmpls, nil
}

func (repo *catalogRepository) QueryDeadlines(ctx context.Context) ([]catalog.Deadline, error) {
	var rows []deadlineRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT university_id, template_id, due FROM deadlines`)
	if err != nil {
		return nil, wrapStoreErr(err, "querying deadlines")
	}
	dls := make([]catalog.Deadline, 0, len(rows))
	for _, r := range rows {
		if !r.Due.Valid {
			continue // unknown deadline rows carry no information
		}
		dls = append(dls, catalog.Deadline{UniversityID: r.UniversityID, TemplateID: r.TemplateID, Due: r.Due.Time})
	}
	return dls, nil
}

func (repo *catalogRepository) CreateUniversities(ctx context.Context, unis []catalog.University) ([]catalog.University, error) {
	created := make([]catalog.University, 0, len(unis))
	for _, u := range unis {
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		_, err := repo.db.ExecContext(ctx,
			`INSERT INTO universities (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
			u.ID, u.Name)
		if err != nil {
			return nil, wrapStoreErr(err, "creating university")
		}
		created = append(created, u)
	}
	return created, nil
}

func (repo *catalogRepository) CreateTaskTemplates(ctx context.Context, tmpls []catalog.TaskTemplate) ([]catalog.TaskTemplate, error) {
	created := make([]catalog.TaskTemplate, 0, len(tmpls))
	for _, t := range tmpls {
		if t.ID == "" {
			t.ID = uuid.New().String()
		}
		_, err := repo.db.ExecContext(ctx,
			`INSERT INTO task_templates (id, name) VALUES ($1, $2) ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
			t.ID, t.Name)
		if err != nil {
			return nil, wrapStoreErr(err, "creating task template")
		}
		created = append(created, t)
	}
	return created, nil
}

func (repo *catalogRepository) CreateDeadlines(ctx context.Context, dls []catalog.Deadline) ([]catalog.Deadline, error) {
	created := make([]catalog.Deadline, 0, len(dls))
	for _, d := range dls {
		_, err := repo.db.ExecContext(ctx,
			`INSERT INTO deadlines (university_id, template_id, due) VALUES ($1, $2, $3)
			 ON CONFLICT (university_id, template_id) DO UPDATE SET due = excluded.due`,
			d.UniversityID, d.TemplateID, d.Due.UTC())
		if err != nil {
			return nil, wrapStoreErr(err, "creating deadline")
		}
		created = append(created, d)
	}
	return created, nil
}
