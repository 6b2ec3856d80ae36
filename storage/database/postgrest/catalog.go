package postgrest

import (
	"context"
	"time"

	"github.com/tkoide/shutsugan/core/catalog"
)

type catalogRepository struct {
	client *Client
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(client *Client) catalog.Repository {
	return &catalogRepository{client: client}
}

// wire rows; column names exist only in this package
type (
	universityRow struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name"`
	}

	templateRow struct {
		ID   string `json:"id,omitempty"`
		Name string `json:"name"`
	}

	deadlineRow struct {
		UniversityID string    `json:"university_id"`
		TemplateID   string    `json:"template_id,omitempty"`
		Due          time.Time `json:"due"`
	}
)

func (repo *catalogRepository) QueryUniversities(ctx context.Context) ([]catalog.University, error) {
	var rows []universityRow
	if err := repo.client.Select(ctx, tableUniversities, nil, &rows); err != nil {
		return nil, wrapRepoErr(err, "querying universities")
	}
	unis := make([]catalog.University, 0, len(rows))
	for _, r := range rows {
		unis = append(unis, catalog.University{ID: r.ID, Name: r.Name})
	}
	return unis, nil
}

func (repo *catalogRepository) GetUniversityByID(ctx context.Context, id string) (catalog.University, error) {
	var rows []universityRow
	if err := repo.client.Select(ctx, tableUniversities, []Eq{{"id", id}}, &rows); err != nil {
		return catalog.University{}, wrapRepoErr(err, "finding university")
	}
	if len(rows) == 0 {
		return catalog.University{}, catalog.ErrUniversityNotFound
	}
	return catalog.University{ID: rows[0].ID, Name: rows[0].Name}, nil
}

func (repo *catalogRepository) QueryTaskTemplates(ctx context.Context) ([]catalog.TaskTemplate, error) {
	var rows []templateRow
	if err := repo.client.Select(ctx, tableTemplates, nil, &rows); err != nil {
		return nil, wrapRepoErr(err, "querying task templates")
	}
	tmpls := make([]catalog.TaskTemplate, 0, len(rows))
	for _, r := range rows {
		tmpls = append(tmpls, catalog.TaskTemplate{ID: r.ID, Name: r.Name})
	}
	return tmpls, nil
}

func (repo *catalogRepository) QueryDeadlines(ctx context.Context) ([]catalog.Deadline, error) {
	var rows []deadlineRow
	if err := repo.client.Select(ctx, tableDeadlines, nil, &rows); err != nil {
		return nil, wrapRepoErr(err, "querying deadlines")
	}
	dls := make([]catalog.Deadline, 0, len(rows))
	for _, r := range rows {
		dls = append(dls, catalog.Deadline{UniversityID: r.UniversityID, TemplateID: r.TemplateID, Due: r.Due})
	}
	return dls, nil
}

func (repo *catalogRepository) CreateUniversities(ctx context.Context, unis []catalog.University) ([]catalog.University, error) {
	rows := make([]universityRow, 0, len(unis))
	for _, u := range unis {
		rows = append(rows, universityRow{ID: u.ID, Name: u.Name})
	}
	var created []universityRow
	if err := repo.client.Insert(ctx, tableUniversities, rows, &created); err != nil {
		return nil, wrapRepoErr(err, "creating universities")
	}
	out := make([]catalog.University, 0, len(created))
	for _, r := range created {
		out = append(out, catalog.University{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (repo *catalogRepository) CreateTaskTemplates(ctx context.Context, tmpls []catalog.TaskTemplate) ([]catalog.TaskTemplate, error) {
	rows := make([]templateRow, 0, len(tmpls))
	for _, t := range tmpls {
		rows = append(rows, templateRow{ID: t.ID, Name: t.Name})
	}
	var created []templateRow
	if err := repo.client.Insert(ctx, tableTemplates, rows, &created); err != nil {
		return nil, wrapRepoErr(err, "creating task templates")
	}
	out := make([]catalog.TaskTemplate, 0, len(created))
	for _, r := range created {
		out = append(out, catalog.TaskTemplate{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

func (repo *catalogRepository) CreateDeadlines(ctx context.Context, dls []catalog.Deadline) ([]catalog.Deadline, error) {
	rows := make([]deadlineRow, 0, len(dls))
	for _, d := range dls {
		rows = append(rows, deadlineRow{UniversityID: d.UniversityID, TemplateID: d.TemplateID, Due: d.Due})
	}
	var created []deadlineRow
	if err := repo.client.Insert(ctx, tableDeadlines, rows, &created); err != nil {
		return nil, wrapRepoErr(err, "creating deadlines")
	}
	out := make([]catalog.Deadline, 0, len(created))
	for _, r := range created {
		out = append(out, catalog.Deadline{UniversityID: r.UniversityID, TemplateID: r.TemplateID, Due: r.Due})
	}
	return out, nil
}
