package model

import (
	"time"

	"github.com/google/uuid"
)

// SharedLink binds one file to one recipient. Its ID is the handle the
// recipient receives out-of-band, and its expiration date is the unit of
// garbage collection.
type SharedLink struct {
	ID              uuid.UUID
	FileID          uuid.UUID
	RecipientUserID uuid.UUID
	Password        string
	ExpirationDate  time.Time
	CreatedAt       time.Time
}

// SentFile is one row of the sender-side listing.
type SentFile struct {
	FileID         uuid.UUID
	FileName       string
	RecipientEmail string
	ExpirationDate time.Time
	CreatedAt      time.Time
}

// ReceivedFile is one row of the recipient-side listing. SharedID is the
// shared link id, i.e. the handle the recipient retrieves the file by.
type ReceivedFile struct {
	SharedID       uuid.UUID
	FileName       string
	SenderEmail    string
	ExpirationDate time.Time
	CreatedAt      time.Time
}

// CleanupResult reports one reaper pass. Both counts are zero when nothing
// had expired.
type CleanupResult struct {
	LinksDeleted int64
	FilesDeleted int64
}
