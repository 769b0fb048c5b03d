package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SamannyoPal/Circulate/internal/model"
)

func setupUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewUserRepository(&Connection{DB: db}), mock
}

func userRows(users ...model.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "email", "password", "public_key", "created_at", "updated_at"})
	for _, u := range users {
		var key any
		if u.PublicKey != nil {
			key = *u.PublicKey
		}
		rows.AddRow(u.ID.String(), u.Username, u.Email, u.Password, key, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func TestUserRepository_Get_LookupPriority(t *testing.T) {
	id := uuid.New()
	now := time.Now()
	user := model.User{ID: id, Username: "alice", Email: "alice@example.com", Password: "hash", CreatedAt: now, UpdatedAt: now}

	tests := []struct {
		name      string
		lookup    model.UserLookup
		wantWhere string
		wantArg   any
	}{
		{
			name:      "by id",
			lookup:    model.UserLookup{ID: id},
			wantWhere: `FROM users WHERE id = $1`,
			wantArg:   id,
		},
		{
			name:      "by username",
			lookup:    model.UserLookup{Username: "alice"},
			wantWhere: `FROM users WHERE username = $1`,
			wantArg:   "alice",
		},
		{
			name:      "by email",
			lookup:    model.UserLookup{Email: "alice@example.com"},
			wantWhere: `FROM users WHERE email = $1`,
			wantArg:   "alice@example.com",
		},
		{
			// All three keys set: only the id is honored.
			name:      "id wins over username and email",
			lookup:    model.UserLookup{ID: id, Username: "bob", Email: "bob@example.com"},
			wantWhere: `FROM users WHERE id = $1`,
			wantArg:   id,
		},
		{
			name:      "username wins over email",
			lookup:    model.UserLookup{Username: "alice", Email: "bob@example.com"},
			wantWhere: `FROM users WHERE username = $1`,
			wantArg:   "alice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := setupUserRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta(tt.wantWhere)).
				WithArgs(tt.wantArg).
				WillReturnRows(userRows(user))

			got, err := repo.Get(context.Background(), tt.lookup)
			require.NoError(t, err)
			assert.Equal(t, user.ID, got.ID)
			assert.Equal(t, user.Email, got.Email)
			assert.Nil(t, got.PublicKey)

			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepository_Get_NoLookupKey(t *testing.T) {
	repo, mock := setupUserRepo(t)

	_, err := repo.Get(context.Background(), model.UserLookup{})
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Get_NotFound(t *testing.T) {
	repo, mock := setupUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs("missing@example.com").
		WillReturnRows(userRows())

	_, err := repo.Get(context.Background(), model.UserLookup{Email: "missing@example.com"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestUserRepository_Create(t *testing.T) {
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepo(t)
		created := model.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com", Password: "hash", CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, username, email, password)`)).
			WithArgs(sqlmock.AnyArg(), "bob", "bob@example.com", "hash").
			WillReturnRows(userRows(created))

		got, err := repo.Create(context.Background(), "bob", "bob@example.com", "hash")
		require.NoError(t, err)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, "bob", got.Username)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := setupUserRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, username, email, password)`)).
			WithArgs(sqlmock.AnyArg(), "bob", "bob@example.com", "hash").
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

		_, err := repo.Create(context.Background(), "bob", "bob@example.com", "hash")
		assert.ErrorIs(t, err, model.ErrUniqueViolation)
	})

	t.Run("store error", func(t *testing.T) {
		repo, mock := setupUserRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, username, email, password)`)).
			WillReturnError(errors.New("boom"))

		_, err := repo.Create(context.Background(), "bob", "bob@example.com", "hash")
		require.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrUniqueViolation)
	})
}

func TestUserRepository_UpdateUsername(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepo(t)
		updated := model.User{ID: id, Username: "carol", Email: "carol@example.com", Password: "hash", CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET username = $1, updated_at = NOW()`)).
			WithArgs("carol", id).
			WillReturnRows(userRows(updated))

		got, err := repo.UpdateUsername(context.Background(), id, "carol")
		require.NoError(t, err)
		assert.Equal(t, "carol", got.Username)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupUserRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET username = $1, updated_at = NOW()`)).
			WithArgs("carol", id).
			WillReturnRows(userRows())

		_, err := repo.UpdateUsername(context.Background(), id, "carol")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		repo, mock := setupUserRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET username = $1, updated_at = NOW()`)).
			WithArgs("carol", id).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

		_, err := repo.UpdateUsername(context.Background(), id, "carol")
		assert.ErrorIs(t, err, model.ErrUniqueViolation)
	})
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepo(t)
		updated := model.User{ID: id, Username: "carol", Email: "carol@example.com", Password: "newhash", CreatedAt: now, UpdatedAt: now}

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET password = $1, updated_at = NOW()`)).
			WithArgs("newhash", id).
			WillReturnRows(userRows(updated))

		got, err := repo.UpdatePassword(context.Background(), id, "newhash")
		require.NoError(t, err)
		assert.Equal(t, "newhash", got.Password)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupUserRepo(t)

		mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET password = $1, updated_at = NOW()`)).
			WithArgs("newhash", id).
			WillReturnRows(userRows())

		_, err := repo.UpdatePassword(context.Background(), id, "newhash")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_SetPublicKey(t *testing.T) {
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		repo, mock := setupUserRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET public_key = $1, updated_at = NOW() WHERE id = $2`)).
			WithArgs("-----BEGIN PUBLIC KEY-----", id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SetPublicKey(context.Background(), id, "-----BEGIN PUBLIC KEY-----")
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := setupUserRepo(t)

		mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET public_key = $1, updated_at = NOW() WHERE id = $2`)).
			WithArgs("-----BEGIN PUBLIC KEY-----", id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetPublicKey(context.Background(), id, "-----BEGIN PUBLIC KEY-----")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestUserRepository_SearchByEmail(t *testing.T) {
	requester := uuid.New()
	now := time.Now()
	key := "pubkey"

	repo, mock := setupUserRepo(t)
	matches := []model.User{
		{ID: uuid.New(), Username: "dave", Email: "dave@example.com", Password: "h", PublicKey: &key, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Username: "dana", Email: "dana@example.com", Password: "h", PublicKey: &key, CreatedAt: now, UpdatedAt: now},
	}

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE email LIKE $1 AND public_key IS NOT NULL AND id != $2`)).
		WithArgs("%da%", requester).
		WillReturnRows(userRows(matches...))

	got, err := repo.SearchByEmail(context.Background(), requester, "%da%")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "dave@example.com", got[0].Email)
	require.NotNil(t, got[0].PublicKey)
	assert.Equal(t, key, *got[0].PublicKey)

	assert.NoError(t, mock.ExpectationsWereMet())
}
