package catalog

import (
	"context"

	"github.com/pkg/errors"
)

var ErrUniversityNotFound = errors.New("university not found")

type (
	Repository interface {
		QueryUniversities(ctx context.Context) ([]University, error)
		GetUniversityByID(ctx context.Context, id string) (University, error)
		QueryTaskTemplates(ctx context.Context) ([]TaskTemplate, error)
		QueryDeadlines(ctx context.Context) ([]Deadline, error)

		// seeding; only the admin app writes reference data
		CreateUniversities(ctx context.Context, unis []University) ([]University, error)
		CreateTaskTemplates(ctx context.Context, tmpls []TaskTemplate) ([]TaskTemplate, error)
		CreateDeadlines(ctx context.Context, dls []Deadline) ([]Deadline, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Universities returns the full catalog in catalog order.
func (svc *Service) Universities(ctx context.Context) ([]University, error) {
	return svc.repo.QueryUniversities(ctx)
}

func (svc *Service) GetUniversity(ctx context.Context, id string) (University, error) {
	return svc.repo.GetUniversityByID(ctx, id)
}

func (svc *Service) TaskTemplates(ctx context.Context) ([]TaskTemplate, error) {
	return svc.repo.QueryTaskTemplates(ctx)
}

func (svc *Service) Deadlines(ctx context.Context) ([]Deadline, error) {
	return svc.repo.QueryDeadlines(ctx)
}

// Seeding; only the admin app writes reference data.

func (svc *Service) CreateUniversities(ctx context.Context, unis ...University) ([]University, error) {
	return svc.repo.CreateUniversities(ctx, unis)
}

func (svc *Service) CreateTaskTemplates(ctx context.Context, tmpls ...TaskTemplate) ([]TaskTemplate, error) {
	return svc.repo.CreateTaskTemplates(ctx, tmpls)
}

func (svc *Service) CreateDeadlines(ctx context.Context, dls ...Deadline) ([]Deadline, error) {
	return svc.repo.CreateDeadlines(ctx, dls)
}
