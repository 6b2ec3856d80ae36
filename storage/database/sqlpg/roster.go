package sqlpg

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
	"github.com/tkoide/shutsugan/core/roster"
)

type rosterRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *sqlx.DB) roster.Repository {
	return &rosterRepository{db: db}
}

type taskRow struct {
	UserID       string    `db:"user_id"`
	UniversityID string    `db:"university_id"`
	TemplateID   string    `db:"template_id"`
	Completed    bool      `db:"completed"`
	Favorite     bool      `db:"favorite"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func fromTaskRows(rows []taskRow) []roster.Task {
	tasks := make([]roster.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, roster.Task{
			UserID:       r.UserID,
			UniversityID: r.UniversityID,
			TemplateID:   r.TemplateID,
			Completed:    r.Completed,
			Favorite:     r.Favorite,
			CreatedAt:    r.CreatedAt,
			UpdatedAt:    r.UpdatedAt,
		})
	}
	return tasks
}

func (repo *rosterRepository) QueryUserTasks(ctx context.Context, userID string) ([]roster.Task, error) {
	var rows []taskRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT user_id, university_id, template_id, completed, favorite, created_at, updated_at
		 FROM tasks WHERE user_id = $1`, userID)
	if err != nil {
		return nil, wrapStoreErr(err, "querying user tasks")
	}
	return fromTaskRows(rows), nil
}

func (repo *rosterRepository) QueryUserUniversityTasks(ctx context.Context, userID, universityID string) ([]roster.Task, error) {
	var rows []taskRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT user_id, university_id, template_id, completed, favorite, created_at, updated_at
		 FROM tasks WHERE user_id = $1 AND university_id = $2`, userID, universityID)
	if err != nil {
		return nil, wrapStoreErr(err, "querying university tasks")
	}
	return fromTaskRows(rows), nil
}

// CreateTasks upserts on the composite identity so that concurrent
// registrations of the same university converge on one task per triple:
// an existing row keeps its flags and still comes back in the created set.
func (repo *rosterRepository) CreateTasks(ctx context.Context, tasks []roster.Task) ([]roster.Task, error) {
	var created []taskRow
	for _, t := range tasks {
		var row taskRow
		err := repo.db.GetContext(ctx, &row,
			`INSERT INTO tasks (user_id, university_id, template_id, completed, favorite, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (user_id, university_id, template_id)
			 DO UPDATE SET updated_at = tasks.updated_at
			 RETURNING user_id, university_id, template_id, completed, favorite, created_at, updated_at`,
			t.UserID, t.UniversityID, t.TemplateID, t.Completed, t.Favorite, t.CreatedAt.UTC(), t.UpdatedAt.UTC())
		if err != nil {
			return nil, wrapStoreErr(err, "creating task")
		}
		created = append(created, row)
	}
	return fromTaskRows(created), nil
}

func (repo *rosterRepository) UpdateTaskFlag(ctx context.Context, key roster.TaskKey, flag roster.Flag, value bool) error {
	// flag is one of the two Flag constants, never caller input
	q := fmt.Sprintf(
		`UPDATE tasks SET %s = $1, updated_at = $2 WHERE user_id = $3 AND university_id = $4 AND template_id = $5`,
		string(flag))
	res, err := repo.db.ExecContext(ctx, q, value, time.Now().UTC(), key.UserID, key.UniversityID, key.TemplateID)
	if err != nil {
		return wrapStoreErr(err, "updating task flag")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapStoreErr(err, "updating task flag")
	}
	if n == 0 {
		return roster.ErrTaskNotFound
	}
	return nil
}

func wrapStoreErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.Wrapf(core.ErrStoreUnavailable, "sqlpg: %s: %v", msg, err)
}
