package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// FileStore defines persistence operations for encrypted files and the
// shared links wrapping them.
type FileStore interface {
	SaveEncryptedFile(ctx context.Context, params SaveFileParams) error
	GetFile(ctx context.Context, fileID uuid.UUID) (File, error)
	GetShared(ctx context.Context, sharedID, userID uuid.UUID) (SharedLink, error)
	ListSent(ctx context.Context, userID uuid.UUID, page, limit int) ([]SentFile, int64, error)
	ListReceived(ctx context.Context, userID uuid.UUID, page, limit int) ([]ReceivedFile, int64, error)
	DeleteExpired(ctx context.Context) (CleanupResult, error)
}

// File is an encrypted blob owned by its sender. The payload, the wrapped
// symmetric key and the IV are opaque bytes; encryption and decryption
// happen entirely on the client.
type File struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	FileName        string
	FileSize        int64
	EncryptedAESKey []byte
	EncryptedFile   []byte
	IV              []byte
	CreatedAt       time.Time
}

// SaveFileParams contains everything needed to store one file together with
// its shared link.
type SaveFileParams struct {
	UserID          uuid.UUID
	FileName        string
	FileSize        int64
	RecipientUserID uuid.UUID
	Password        string
	ExpirationDate  time.Time
	EncryptedAESKey []byte
	EncryptedFile   []byte
	IV              []byte
}
