package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Get(ctx context.Context, lookup UserLookup) (User, error)
	Create(ctx context.Context, username, email, passwordHash string) (User, error)
	UpdateUsername(ctx context.Context, id uuid.UUID, username string) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (User, error)
	SetPublicKey(ctx context.Context, id uuid.UUID, publicKey string) error
	SearchByEmail(ctx context.Context, requesterID uuid.UUID, query string) ([]User, error)
}

// User represents a registered account. Password holds the hash produced by
// the external credential service; this layer never inspects it.
type User struct {
	ID        uuid.UUID
	Username  string
	Email     string
	Password  string
	PublicKey *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserLookup selects a user by exactly one key. When several are set only
// the first in priority order ID, Username, Email is honored; the rest are
// ignored. This mirrors the historical API and is intentional.
type UserLookup struct {
	ID       uuid.UUID
	Username string
	Email    string
}
