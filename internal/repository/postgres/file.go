package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/SamannyoPal/Circulate/internal/model"
)

var _ model.FileStore = (*FileRepository)(nil)

type FileRepository struct {
	db *Connection
}

func NewFileRepository(db *Connection) *FileRepository {
	return &FileRepository{
		db: db,
	}
}

// SaveEncryptedFile inserts the file row and its shared link in one
// transaction, so a failure of either insert leaves no orphan behind.
func (r *FileRepository) SaveEncryptedFile(ctx context.Context, params model.SaveFileParams) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		var fileID uuid.UUID
		err := tx.QueryRowContext(ctx, `
			INSERT INTO files (id, user_id, file_name, file_size, encrypted_aes_key, encrypted_file, iv)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			uuid.New(), params.UserID, params.FileName, params.FileSize,
			params.EncryptedAESKey, params.EncryptedFile, params.IV,
		).Scan(&fileID)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO shared_links (id, file_id, recipient_user_id, password, expiration_date)
			VALUES ($1, $2, $3, $4, $5)`,
			uuid.New(), fileID, params.RecipientUserID, params.Password, params.ExpirationDate,
		)
		return err
	})
	if err != nil {
		return storeErr("failed to save encrypted file", err)
	}

	return nil
}

// GetFile fetches a file row including its payload. Access control is the
// caller's job: the access gate resolves the shared link first.
func (r *FileRepository) GetFile(ctx context.Context, fileID uuid.UUID) (model.File, error) {
	const query = `SELECT id, user_id, file_name, file_size, encrypted_aes_key, encrypted_file, iv, created_at
				   FROM files WHERE id = $1`

	var file model.File
	err := r.db.QueryRowContext(ctx, query, fileID).Scan(
		&file.ID, &file.UserID, &file.FileName, &file.FileSize,
		&file.EncryptedAESKey, &file.EncryptedFile, &file.IV, &file.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.File{}, model.ErrNotFound
		}
		return model.File{}, storeErr("failed to get file", err)
	}

	return file, nil
}

// GetShared resolves a shared link for its recipient. A missing id, a
// different recipient and an expired link all yield model.ErrNotFound so the
// caller cannot tell which condition failed.
func (r *FileRepository) GetShared(ctx context.Context, sharedID, userID uuid.UUID) (model.SharedLink, error) {
	const query = `SELECT id, file_id, recipient_user_id, password, expiration_date, created_at
				   FROM shared_links
				   WHERE id = $1 AND recipient_user_id = $2 AND expiration_date > NOW()`

	var link model.SharedLink
	err := r.db.QueryRowContext(ctx, query, sharedID, userID).Scan(
		&link.ID, &link.FileID, &link.RecipientUserID, &link.Password,
		&link.ExpirationDate, &link.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SharedLink{}, model.ErrNotFound
		}
		return model.SharedLink{}, storeErr("failed to get shared link", err)
	}

	return link, nil
}

// ListSent returns one page of the files userID has sent, most recent link
// first, together with the total number of matching rows.
func (r *FileRepository) ListSent(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.SentFile, int64, error) {
	const query = `
		SELECT f.id, f.file_name, u.email, sl.expiration_date, sl.created_at
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		JOIN users u ON sl.recipient_user_id = u.id
		WHERE f.user_id = $1
		ORDER BY sl.created_at DESC
		LIMIT $2 OFFSET $3`

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, storeErr("failed to list sent files", err)
	}
	defer rows.Close()

	var files []model.SentFile
	for rows.Next() {
		var f model.SentFile
		err := rows.Scan(&f.FileID, &f.FileName, &f.RecipientEmail, &f.ExpirationDate, &f.CreatedAt)
		if err != nil {
			return nil, 0, storeErr("failed to scan sent file", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("failed to list sent files", err)
	}

	const countQuery = `
		SELECT COUNT(*)
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		WHERE f.user_id = $1`

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, storeErr("failed to count sent files", err)
	}

	return files, total, nil
}

// ListReceived returns one page of the links addressed to userID, most
// recent first. Expired-but-unreaped links still appear; only the reaper
// removes them from this listing.
func (r *FileRepository) ListReceived(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.ReceivedFile, int64, error) {
	const query = `
		SELECT sl.id, f.file_name, u.email, sl.expiration_date, sl.created_at
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		JOIN users u ON f.user_id = u.id
		WHERE sl.recipient_user_id = $1
		ORDER BY sl.created_at DESC
		LIMIT $2 OFFSET $3`

	offset := (page - 1) * limit
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, storeErr("failed to list received files", err)
	}
	defer rows.Close()

	var files []model.ReceivedFile
	for rows.Next() {
		var f model.ReceivedFile
		err := rows.Scan(&f.SharedID, &f.FileName, &f.SenderEmail, &f.ExpirationDate, &f.CreatedAt)
		if err != nil {
			return nil, 0, storeErr("failed to scan received file", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, storeErr("failed to list received files", err)
	}

	const countQuery = `
		SELECT COUNT(*)
		FROM shared_links sl
		JOIN files f ON sl.file_id = f.id
		WHERE sl.recipient_user_id = $1`

	var total int64
	if err := r.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, storeErr("failed to count received files", err)
	}

	return files, total, nil
}
