package user

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/tkoide/shutsugan/core"
)

var ErrNotFound = errors.New("user not found")

type (
	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		GetUserByEmail(ctx context.Context, email string) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUserByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

// Resolve returns the User for an externally verified identity,
// creating it on first sign-in. LastLogin is bumped either way.
func (svc *Service) Resolve(ctx context.Context, email, name string) (User, error) {
	email = core.CleanString(email, true /* lower */)
	name = core.CleanString(name)
	now := time.Now().UTC()

	usr, err := svc.repo.GetUserByEmail(ctx, email)
	switch errors.Cause(err) {
	case nil:
		usr.LastLogin = now
		return svc.repo.UpdateUser(ctx, usr)
	case ErrNotFound:
		return svc.repo.CreateUser(ctx, User{
			Name:      name,
			Email:     email,
			CreatedAt: now,
			LastLogin: now,
		})
	default:
		return User{}, errors.Wrap(err, "finding user by email")
	}
}
