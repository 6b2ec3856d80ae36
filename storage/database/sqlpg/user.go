package sqlpg

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/tkoide/shutsugan/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

type userRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	LastLogin time.Time `db:"last_login"`
}

func fromUserRow(r userRow) user.User {
	return user.User{ID: r.ID, Name: r.Name, Email: r.Email, CreatedAt: r.CreatedAt, LastLogin: r.LastLogin}
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = uuid.New().String()
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, created_at, last_login) VALUES ($1, $2, $3, $4, $5)`,
		usr.ID, usr.Name, usr.Email, usr.CreatedAt.UTC(), usr.LastLogin.UTC())
	if err != nil {
		return user.User{}, wrapStoreErr(err, "creating user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, email, created_at, last_login FROM users WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, wrapStoreErr(err, "finding user by ID")
	}
	return fromUserRow(row), nil
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	var row userRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT id, name, email, created_at, last_login FROM users WHERE email = $1`, email)
	if err == sql.ErrNoRows {
		return user.User{}, user.ErrNotFound
	}
	if err != nil {
		return user.User{}, wrapStoreErr(err, "finding user by email")
	}
	return fromUserRow(row), nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT id, name, email, created_at, last_login FROM users`)
	if err != nil {
		return nil, wrapStoreErr(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, fromUserRow(r))
	}
	return users, nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE users SET name = $1, email = $2, last_login = $3 WHERE id = $4`,
		usr.Name, usr.Email, usr.LastLogin.UTC(), usr.ID)
	if err != nil {
		return user.User{}, wrapStoreErr(err, "updating user")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return user.User{}, wrapStoreErr(err, "updating user")
	}
	if n == 0 {
		return user.User{}, user.ErrNotFound
	}
	return usr, nil
}
