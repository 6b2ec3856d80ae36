package roster

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core/catalog"
)

type fakeCatalogRepo struct {
	unis      []catalog.University
	tmpls     []catalog.TaskTemplate
	deadlines []catalog.Deadline
	err       error
}

var _ catalog.Repository = (*fakeCatalogRepo)(nil)

func (r *fakeCatalogRepo) QueryUniversities(context.Context) ([]catalog.University, error) {
	return r.unis, r.err
}

func (r *fakeCatalogRepo) GetUniversityByID(_ context.Context, id string) (catalog.University, error) {
	if r.err != nil {
		return catalog.University{}, r.err
	}
	for _, u := range r.unis {
		if u.ID == id {
			return u, nil
		}
	}
	return catalog.University{}, catalog.ErrUniversityNotFound
}

func (r *fakeCatalogRepo) QueryTaskTemplates(context.Context) ([]catalog.TaskTemplate, error) {
	return r.tmpls, r.err
}

func (r *fakeCatalogRepo) QueryDeadlines(context.Context) ([]catalog.Deadline, error) {
	return r.deadlines, r.err
}

func (r *fakeCatalogRepo) CreateUniversities(_ context.Context, unis []catalog.University) ([]catalog.University, error) {
	r.unis = append(r.unis, unis...)
	return unis, r.err
}

func (r *fakeCatalogRepo) CreateTaskTemplates(_ context.Context, tmpls []catalog.TaskTemplate) ([]catalog.TaskTemplate, error) {
	r.tmpls = append(r.tmpls, tmpls...)
	return tmpls, r.err
}

func (r *fakeCatalogRepo) CreateDeadlines(_ context.Context, dls []catalog.Deadline) ([]catalog.Deadline, error) {
	r.deadlines = append(r.deadlines, dls...)
	return dls, r.err
}

type fakeRosterRepo struct {
	tasks []Task
	err   error

	// dropCreates simulates a store acknowledging fewer rows than requested
	dropCreates int
}

var _ Repository = (*fakeRosterRepo)(nil)

func (r *fakeRosterRepo) QueryUserTasks(_ context.Context, userID string) ([]Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRosterRepo) QueryUserUniversityTasks(_ context.Context, userID, universityID string) ([]Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []Task
	for _, t := range r.tasks {
		if t.UserID == userID && t.UniversityID == universityID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeRosterRepo) CreateTasks(_ context.Context, tasks []Task) ([]Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	created := tasks
	if r.dropCreates > 0 && r.dropCreates < len(created) {
		created = created[:len(created)-r.dropCreates]
	}
	r.tasks = append(r.tasks, created...)
	return created, nil
}

func (r *fakeRosterRepo) UpdateTaskFlag(_ context.Context, key TaskKey, flag Flag, value bool) error {
	if r.err != nil {
		return r.err
	}
	for i, t := range r.tasks {
		if t.UserID != key.UserID || t.UniversityID != key.UniversityID || t.TemplateID != key.TemplateID {
			continue
		}
		switch flag {
		case FlagCompleted:
			r.tasks[i].Completed = value
		case FlagFavorite:
			r.tasks[i].Favorite = value
		}
		return nil
	}
	return ErrTaskNotFound
}

func newTestService(catRepo *fakeCatalogRepo, repo *fakeRosterRepo) *Service {
	return NewService(repo, catalog.NewService(catRepo))
}

func testCatalog() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		unis: []catalog.University{
			{ID: "keio", Name: "Keio"},
			{ID: "aoyama", Name: "Aoyama"},
			{ID: "waseda", Name: "Waseda"},
		},
		tmpls: []catalog.TaskTemplate{
			{ID: "essay", Name: "Essay"},
			{ID: "transcript", Name: "Transcript"},
		},
	}
}

func uniIDs(unis []catalog.University) []string {
	ids := make([]string, 0, len(unis))
	for _, u := range unis {
		ids = append(ids, u.ID)
	}
	return ids
}

func TestService_UnregisteredUniversities(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		tasks []Task
		want  []string
	}{
		{name: "nothing registered", want: []string{"keio", "aoyama", "waseda"}},
		{name: "one registered", tasks: []Task{task("keio", "essay", false, false)}, want: []string{"aoyama", "waseda"}},
		{name: "partial task set still counts as registered",
			tasks: []Task{task("aoyama", "essay", false, false)},
			want:  []string{"keio", "waseda"}},
		{name: "all registered",
			tasks: []Task{
				task("keio", "essay", false, false),
				task("aoyama", "essay", false, false),
				task("waseda", "essay", false, false),
			},
			want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(testCatalog(), &fakeRosterRepo{tasks: tt.tasks})

			unis, err := svc.UnregisteredUniversities(ctx, "u")
			if err != nil {
				t.Fatalf("UnregisteredUniversities() error = %v", err)
			}
			if got := uniIDs(unis); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("UnregisteredUniversities() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestService_UnregisteredUniversities_otherUsersInvisible(t *testing.T) {
	repo := &fakeRosterRepo{tasks: []Task{
		{UserID: "other", UniversityID: "keio", TemplateID: "essay"},
	}}
	svc := newTestService(testCatalog(), repo)

	unis, err := svc.UnregisteredUniversities(context.Background(), "u")
	if err != nil {
		t.Fatalf("UnregisteredUniversities() error = %v", err)
	}
	if len(unis) != 3 {
		t.Errorf("UnregisteredUniversities() = %d universities, want 3", len(unis))
	}
}

func TestService_RegisterUniversity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(testCatalog(), &fakeRosterRepo{})

	created, err := svc.RegisterUniversity(ctx, "u", "keio")
	if err != nil {
		t.Fatalf("RegisterUniversity() error = %v", err)
	}
	if created != 2 {
		t.Errorf("RegisterUniversity() created = %d, want 2", created)
	}

	// registering again creates nothing and is not an error
	created, err = svc.RegisterUniversity(ctx, "u", "keio")
	if err != nil {
		t.Fatalf("RegisterUniversity() second call error = %v", err)
	}
	if created != 0 {
		t.Errorf("RegisterUniversity() second call created = %d, want 0", created)
	}
}

func TestService_RegisterUniversity_backfillsMissingTasks(t *testing.T) {
	ctx := context.Background()
	// one task of the pair already exists (e.g. a template added after
	// an earlier registration); only the gap is filled
	repo := &fakeRosterRepo{tasks: []Task{task("keio", "essay", true, false)}}
	svc := newTestService(testCatalog(), repo)

	created, err := svc.RegisterUniversity(ctx, "u", "keio")
	if err != nil {
		t.Fatalf("RegisterUniversity() error = %v", err)
	}
	if created != 1 {
		t.Errorf("RegisterUniversity() created = %d, want 1", created)
	}

	// the pre-existing task kept its flags
	for _, tsk := range repo.tasks {
		if tsk.TemplateID == "essay" && !tsk.Completed {
			t.Error("existing task lost its completed flag")
		}
	}
}

func TestService_RegisterUniversity_errors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown university", func(t *testing.T) {
		svc := newTestService(testCatalog(), &fakeRosterRepo{})
		if _, err := svc.RegisterUniversity(ctx, "u", "nope"); errors.Cause(err) != catalog.ErrUniversityNotFound {
			t.Errorf("RegisterUniversity() error = %v, want %v", err, catalog.ErrUniversityNotFound)
		}
	})

	t.Run("empty template catalog", func(t *testing.T) {
		catRepo := testCatalog()
		catRepo.tmpls = nil
		svc := newTestService(catRepo, &fakeRosterRepo{})
		if _, err := svc.RegisterUniversity(ctx, "u", "keio"); errors.Cause(err) != ErrEmptyTemplateCatalog {
			t.Errorf("RegisterUniversity() error = %v, want %v", err, ErrEmptyTemplateCatalog)
		}
	})

	t.Run("partial write", func(t *testing.T) {
		svc := newTestService(testCatalog(), &fakeRosterRepo{dropCreates: 1})
		created, err := svc.RegisterUniversity(ctx, "u", "keio")
		if errors.Cause(err) != ErrPartialWrite {
			t.Errorf("RegisterUniversity() error = %v, want %v", err, ErrPartialWrite)
		}
		if created != 1 {
			t.Errorf("RegisterUniversity() created = %d, want 1", created)
		}
	})
}

func TestService_SetFlags(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRosterRepo{tasks: []Task{task("keio", "essay", false, false)}}
	svc := newTestService(testCatalog(), repo)

	if err := svc.SetCompleted(ctx, "u", "keio", "essay", true); err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}
	if !repo.tasks[0].Completed {
		t.Error("SetCompleted() did not set the flag")
	}

	// setting the current value again succeeds
	if err := svc.SetCompleted(ctx, "u", "keio", "essay", true); err != nil {
		t.Errorf("SetCompleted() repeat error = %v", err)
	}

	if err := svc.SetFavorite(ctx, "u", "keio", "essay", true); err != nil {
		t.Fatalf("SetFavorite() error = %v", err)
	}
	if !repo.tasks[0].Favorite {
		t.Error("SetFavorite() did not set the flag")
	}
	if !repo.tasks[0].Completed {
		t.Error("SetFavorite() clobbered the completed flag")
	}

	if err := svc.SetCompleted(ctx, "u", "keio", "nope", true); errors.Cause(err) != ErrTaskNotFound {
		t.Errorf("SetCompleted() error = %v, want %v", err, ErrTaskNotFound)
	}
}

// The full loop: register two universities, flip some flags, project.
func TestService_Board(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

	catRepo := testCatalog()
	catRepo.deadlines = []catalog.Deadline{
		{UniversityID: "keio", TemplateID: "essay", Due: now.AddDate(0, 0, 1)},
		{UniversityID: "aoyama", Due: now.AddDate(0, 0, 5)},
	}
	svc := newTestService(catRepo, &fakeRosterRepo{})

	for _, uni := range []string{"keio", "aoyama"} {
		if _, err := svc.RegisterUniversity(ctx, "u", uni); err != nil {
			t.Fatalf("RegisterUniversity(%s) error = %v", uni, err)
		}
	}
	if err := svc.SetCompleted(ctx, "u", "keio", "transcript", true); err != nil {
		t.Fatalf("SetCompleted() error = %v", err)
	}

	rows, err := svc.Board(ctx, "u", now, ProjectOptions{HideCompleted: true, SortBy: SortByDueDate})
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}

	want := []string{"keio/essay", "aoyama/essay", "aoyama/transcript"}
	if got := rowKeys(rows); !reflect.DeepEqual(got, want) {
		t.Errorf("Board() rows = %v, want %v", got, want)
	}

	// another user's board is untouched
	rows, err = svc.Board(ctx, "someone-else", now, ProjectOptions{})
	if err != nil {
		t.Fatalf("Board() error = %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Board() for fresh user = %d rows, want 0", len(rows))
	}
}
