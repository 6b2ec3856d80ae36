package postgrest

import (
	"context"
	"time"

	"github.com/tkoide/shutsugan/core/roster"
)

type rosterRepository struct {
	client *Client
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(client *Client) roster.Repository {
	return &rosterRepository{client: client}
}

type taskRow struct {
	UserID       string    `json:"user_id"`
	UniversityID string    `json:"university_id"`
	TemplateID   string    `json:"template_id"`
	Completed    bool      `json:"completed"`
	Favorite     bool      `json:"favorite"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toTaskRow(t roster.Task) taskRow {
	return taskRow{
		UserID:       t.UserID,
		UniversityID: t.UniversityID,
		TemplateID:   t.TemplateID,
		Completed:    t.Completed,
		Favorite:     t.Favorite,
		CreatedAt:    t.CreatedAt.UTC(),
		UpdatedAt:    t.UpdatedAt.UTC(),
	}
}

func fromTaskRow(r taskRow) roster.Task {
	return roster.Task{
		UserID:       r.UserID,
		UniversityID: r.UniversityID,
		TemplateID:   r.TemplateID,
		Completed:    r.Completed,
		Favorite:     r.Favorite,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func fromTaskRows(rows []taskRow) []roster.Task {
	tasks := make([]roster.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, fromTaskRow(r))
	}
	return tasks
}

func (repo *rosterRepository) QueryUserTasks(ctx context.Context, userID string) ([]roster.Task, error) {
	var rows []taskRow
	if err := repo.client.Select(ctx, tableTasks, []Eq{{"user_id", userID}}, &rows); err != nil {
		return nil, wrapRepoErr(err, "querying user tasks")
	}
	return fromTaskRows(rows), nil
}

func (repo *rosterRepository) QueryUserUniversityTasks(ctx context.Context, userID, universityID string) ([]roster.Task, error) {
	var rows []taskRow
	filters := []Eq{{"user_id", userID}, {"university_id", universityID}}
	if err := repo.client.Select(ctx, tableTasks, filters, &rows); err != nil {
		return nil, wrapRepoErr(err, "querying university tasks")
	}
	return fromTaskRows(rows), nil
}

func (repo *rosterRepository) CreateTasks(ctx context.Context, tasks []roster.Task) ([]roster.Task, error) {
	rows := make([]taskRow, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, toTaskRow(t))
	}
	// upsert on the composite key: two concurrent registrations of the same
	// university must converge on one task set, as with ON CONFLICT in SQL
	var created []taskRow
	if err := repo.client.Upsert(ctx, tableTasks, rows, &created); err != nil {
		return nil, wrapRepoErr(err, "creating tasks")
	}
	return fromTaskRows(created), nil
}

func (repo *rosterRepository) UpdateTaskFlag(ctx context.Context, key roster.TaskKey, flag roster.Flag, value bool) error {
	fields := map[string]interface{}{
		string(flag): value,
		"updated_at": time.Now().UTC(),
	}
	filters := []Eq{
		{"user_id", key.UserID},
		{"university_id", key.UniversityID},
		{"template_id", key.TemplateID},
	}
	var updated []taskRow
	if err := repo.client.Update(ctx, tableTasks, fields, filters, &updated); err != nil {
		return wrapRepoErr(err, "updating task flag")
	}
	if len(updated) == 0 {
		return roster.ErrTaskNotFound
	}
	return nil
}
