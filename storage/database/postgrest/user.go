package postgrest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tkoide/shutsugan/core/user"
)

type userRepository struct {
	client *Client
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(client *Client) user.Repository {
	return &userRepository{client: client}
}

type userRow struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

func fromUserRow(r userRow) user.User {
	return user.User{ID: r.ID, Name: r.Name, Email: r.Email, CreatedAt: r.CreatedAt, LastLogin: r.LastLogin}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	row := userRow{
		ID:        usr.ID,
		Name:      usr.Name,
		Email:     usr.Email,
		CreatedAt: usr.CreatedAt.UTC(),
		LastLogin: usr.LastLogin.UTC(),
	}
	var created []userRow
	if err := repo.client.Insert(ctx, tableUsers, []userRow{row}, &created); err != nil {
		return user.User{}, wrapRepoErr(err, "creating user")
	}
	if len(created) == 0 {
		return user.User{}, wrapRepoErr(user.ErrNotFound, "creating user: no row returned")
	}
	return fromUserRow(created[0]), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var rows []userRow
	if err := repo.client.Select(ctx, tableUsers, []Eq{{"id", id}}, &rows); err != nil {
		return user.User{}, wrapRepoErr(err, "finding user by ID")
	}
	if len(rows) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return fromUserRow(rows[0]), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var rows []userRow
	if err := repo.client.Select(ctx, tableUsers, []Eq{{"email", email}}, &rows); err != nil {
		return user.User{}, wrapRepoErr(err, "finding user by email")
	}
	if len(rows) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return fromUserRow(rows[0]), nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.client.Select(ctx, tableUsers, nil, &rows); err != nil {
		return nil, wrapRepoErr(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, fromUserRow(r))
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	fields := map[string]interface{}{
		"name":       usr.Name,
		"email":      usr.Email,
		"last_login": usr.LastLogin.UTC(),
	}
	var updated []userRow
	if err := repo.client.Update(ctx, tableUsers, fields, []Eq{{"id", usr.ID}}, &updated); err != nil {
		return user.User{}, wrapRepoErr(err, "updating user")
	}
	if len(updated) == 0 {
		return user.User{}, user.ErrNotFound
	}
	return fromUserRow(updated[0]), nil
}
