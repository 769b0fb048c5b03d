package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/SamannyoPal/Circulate/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

const userColumns = `id, username, email, password, public_key, created_at, updated_at`

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

func scanUser(row *sql.Row) (model.User, error) {
	var user model.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.Password, &user.PublicKey,
		&user.CreatedAt, &user.UpdatedAt,
	)
	return user, err
}

// Get resolves a user by the first populated lookup key, in priority order
// id, username, email. Extra keys are silently ignored.
func (r *UserRepository) Get(ctx context.Context, lookup model.UserLookup) (model.User, error) {
	var (
		query = `SELECT ` + userColumns + ` FROM users WHERE `
		arg   any
	)
	switch {
	case lookup.ID != uuid.Nil:
		query += `id = $1`
		arg = lookup.ID
	case lookup.Username != "":
		query += `username = $1`
		arg = lookup.Username
	case lookup.Email != "":
		query += `email = $1`
		arg = lookup.Email
	default:
		return model.User{}, model.ErrNotFound
	}

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, storeErr("failed to get user", err)
	}

	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, username, email, passwordHash string) (model.User, error) {
	query := `INSERT INTO users (id, username, email, password)
			  VALUES ($1, $2, $3, $4)
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, uuid.New(), username, email, passwordHash))
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrUniqueViolation
		}
		return model.User{}, storeErr("failed to create user", err)
	}

	return user, nil
}

func (r *UserRepository) UpdateUsername(ctx context.Context, id uuid.UUID, username string) (model.User, error) {
	query := `UPDATE users SET username = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, username, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.User{}, model.ErrUniqueViolation
		}
		return model.User{}, storeErr("failed to update username", err)
	}

	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (model.User, error) {
	query := `UPDATE users SET password = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + userColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, passwordHash, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, storeErr("failed to update password", err)
	}

	return user, nil
}

func (r *UserRepository) SetPublicKey(ctx context.Context, id uuid.UUID, publicKey string) error {
	const query = `UPDATE users SET public_key = $1, updated_at = NOW() WHERE id = $2`

	res, err := r.db.ExecContext(ctx, query, publicKey, id)
	if err != nil {
		return storeErr("failed to set public key", err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SearchByEmail returns key-ready contacts whose email matches the LIKE
// pattern query. The requester and users without a public key are excluded.
// Wildcard placement is the caller's responsibility.
func (r *UserRepository) SearchByEmail(ctx context.Context, requesterID uuid.UUID, query string) ([]model.User, error) {
	const q = `SELECT ` + userColumns + `
			   FROM users
			   WHERE email LIKE $1 AND public_key IS NOT NULL AND id != $2`

	rows, err := r.db.QueryContext(ctx, q, query, requesterID)
	if err != nil {
		return nil, storeErr("failed to search users by email", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID, &user.Username, &user.Email, &user.Password, &user.PublicKey,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, storeErr("failed to scan user", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to search users by email", err)
	}

	return users, nil
}
