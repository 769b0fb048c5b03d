package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/SamannyoPal/Circulate/internal/model"
)

// DeleteExpired purges every shared link whose expiration date has passed,
// together with the files those links reference. Links go first so no reader
// can observe a live link pointing at a deleted file; the one-file-one-link
// invariant makes the file rows safe to delete once their links are gone.
// Both deletes run in one transaction. An empty expired set is a no-op.
func (r *FileRepository) DeleteExpired(ctx context.Context) (model.CleanupResult, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, file_id FROM shared_links WHERE expiration_date < NOW()`)
	if err != nil {
		return model.CleanupResult{}, storeErr("failed to select expired links", err)
	}
	defer rows.Close()

	var linkIDs, fileIDs []uuid.UUID
	for rows.Next() {
		var linkID, fileID uuid.UUID
		if err := rows.Scan(&linkID, &fileID); err != nil {
			return model.CleanupResult{}, storeErr("failed to scan expired link", err)
		}
		linkIDs = append(linkIDs, linkID)
		fileIDs = append(fileIDs, fileID)
	}
	if err := rows.Err(); err != nil {
		return model.CleanupResult{}, storeErr("failed to select expired links", err)
	}

	if len(linkIDs) == 0 {
		return model.CleanupResult{}, nil
	}

	var result model.CleanupResult
	err = r.db.WithTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM shared_links WHERE id = ANY($1)`, linkIDs)
		if err != nil {
			return err
		}
		result.LinksDeleted, _ = res.RowsAffected()

		res, err = tx.ExecContext(ctx, `DELETE FROM files WHERE id = ANY($1)`, fileIDs)
		if err != nil {
			return err
		}
		result.FilesDeleted, _ = res.RowsAffected()
		return nil
	})
	if err != nil {
		return model.CleanupResult{}, storeErr("failed to delete expired links", err)
	}

	return result, nil
}
