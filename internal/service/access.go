package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/SamannyoPal/Circulate/internal/logger"
	"github.com/SamannyoPal/Circulate/internal/model"
)

// Access gates every retrieval of a shared file: link resolution, password
// check, then the ciphertext fetch. It never decrypts anything.
type Access struct {
	fileStore model.FileStore
	verifier  model.PasswordVerifier
	logger    *logger.Logger
}

func NewAccess(
	fileStore model.FileStore,
	verifier model.PasswordVerifier,
	logger *logger.Logger,
) *Access {
	return &Access{
		fileStore: fileStore,
		verifier:  verifier,
		logger:    logger,
	}
}

// RetrieveFile returns the encrypted payload and its decryption metadata for
// a recipient presenting the shared link id and the link password.
//
// A link that never existed, belongs to a different recipient or has expired
// fails with model.ErrNotFound; the three cases are indistinguishable on
// purpose. A wrong password fails with model.ErrInvalidPassword.
func (s *Access) RetrieveFile(ctx context.Context, sharedID, userID uuid.UUID, password string) (model.File, error) {
	link, err := s.fileStore.GetShared(ctx, sharedID, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, fmt.Errorf("failed to get shared link: %w", err)
	}

	ok, err := s.verifier.Verify(password, link.Password)
	if err != nil {
		return model.File{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return model.File{}, model.ErrInvalidPassword
	}

	file, err := s.fileStore.GetFile(ctx, link.FileID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			// A live link must always have its file row.
			s.logger.Error("shared link references missing file",
				"shared_id", sharedID.String(),
				"file_id", link.FileID.String())
			return model.File{}, model.ErrInvariant
		}
		return model.File{}, fmt.Errorf("failed to get file: %w", err)
	}

	return file, nil
}
