package roster

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core/catalog"
)

type (
	// Repository is the task-instance slice of the Reference Store.
	// CreateTasks must return the full created set or fail definitively;
	// a silently-partial success is a contract violation (see ErrPartialWrite).
	Repository interface {
		QueryUserTasks(ctx context.Context, userID string) ([]Task, error)
		QueryUserUniversityTasks(ctx context.Context, userID, universityID string) ([]Task, error)
		CreateTasks(ctx context.Context, tasks []Task) ([]Task, error)
		// UpdateTaskFlag sets one boolean field ("completed" or "favorite")
		// of the task addressed by its composite key.
		// It returns ErrTaskNotFound when no task matches.
		UpdateTaskFlag(ctx context.Context, key TaskKey, flag Flag, value bool) error
	}

	// TaskKey is the composite identity of one task instance.
	TaskKey struct {
		UserID       string
		UniversityID string
		TemplateID   string
	}

	// Flag names one of the two mutable booleans on a Task.
	Flag string

	Service struct {
		repo    Repository
		catalog *catalog.Service
	}
)

const (
	FlagCompleted Flag = "completed"
	FlagFavorite  Flag = "favorite"
)

func NewService(repo Repository, catalogSvc *catalog.Service) *Service {
	return &Service{repo: repo, catalog: catalogSvc}
}

// UnregisteredUniversities returns the universities the user has no task
// instances for, preserving catalog order. Pure read; callers decide how to
// degrade on error (the API renders an empty list and logs).
func (svc *Service) UnregisteredUniversities(ctx context.Context, userID string) ([]catalog.University, error) {
	unis, err := svc.catalog.Universities(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying university catalog")
	}
	tasks, err := svc.repo.QueryUserTasks(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying user tasks")
	}

	registered := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		registered[t.UniversityID] = struct{}{}
	}

	unregistered := make([]catalog.University, 0, len(unis))
	for _, u := range unis {
		if _, ok := registered[u.ID]; !ok {
			unregistered = append(unregistered, u)
		}
	}
	return unregistered, nil
}

// RegisterUniversity expands the template catalog into task instances for
// (user, university), exactly once per triple. Registering an already
// registered university creates nothing and is not an error, so double
// clicks and concurrent tabs converge on the same final task set.
// It returns the number of instances created.
func (svc *Service) RegisterUniversity(ctx context.Context, userID, universityID string) (int, error) {
	if _, err := svc.catalog.GetUniversity(ctx, universityID); err != nil {
		return 0, errors.Wrap(err, "checking university")
	}

	tmpls, err := svc.catalog.TaskTemplates(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "querying task templates")
	}
	if len(tmpls) == 0 {
		return 0, ErrEmptyTemplateCatalog
	}

	existing, err := svc.repo.QueryUserUniversityTasks(ctx, userID, universityID)
	if err != nil {
		return 0, errors.Wrap(err, "querying existing tasks")
	}
	owned := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		owned[t.TemplateID] = struct{}{}
	}

	now := time.Now().UTC()
	missing := make([]Task, 0, len(tmpls))
	for _, tmpl := range tmpls {
		if _, ok := owned[tmpl.ID]; ok {
			continue
		}
		missing = append(missing, Task{
			UserID:       userID,
			UniversityID: universityID,
			TemplateID:   tmpl.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}
	if len(missing) == 0 {
		return 0, nil
	}

	created, err := svc.repo.CreateTasks(ctx, missing)
	if err != nil {
		return 0, errors.Wrap(err, "creating tasks")
	}
	if len(created) != len(missing) {
		return len(created), ErrPartialWrite
	}
	return len(created), nil
}

// SetCompleted updates the completed flag of exactly one task.
// Setting the value it already holds succeeds and changes nothing.
func (svc *Service) SetCompleted(ctx context.Context, userID, universityID, templateID string, value bool) error {
	key := TaskKey{UserID: userID, UniversityID: universityID, TemplateID: templateID}
	return svc.repo.UpdateTaskFlag(ctx, key, FlagCompleted, value)
}

// SetFavorite updates the favorite flag of exactly one task.
func (svc *Service) SetFavorite(ctx context.Context, userID, universityID, templateID string, value bool) error {
	key := TaskKey{UserID: userID, UniversityID: universityID, TemplateID: templateID}
	return svc.repo.UpdateTaskFlag(ctx, key, FlagFavorite, value)
}

// Board fetches the user's tasks and the three reference catalogs (each
// table read exactly once per call, nothing cached across calls) and
// projects them into display rows. Callers re-invoke after any successful
// mutation rather than patching a stale view.
func (svc *Service) Board(ctx context.Context, userID string, now time.Time, opts ProjectOptions) ([]ViewRow, error) {
	tasks, err := svc.repo.QueryUserTasks(ctx, userID)
	if err != nil {
		return nil, errors.Wrap(err, "querying user tasks")
	}
	unis, err := svc.catalog.Universities(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying university catalog")
	}
	tmpls, err := svc.catalog.TaskTemplates(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying task templates")
	}
	deadlines, err := svc.catalog.Deadlines(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying deadlines")
	}
	return Project(tasks, unis, tmpls, deadlines, now, opts), nil
}
