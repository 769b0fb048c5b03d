package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SamannyoPal/Circulate/internal/logger"
	"github.com/SamannyoPal/Circulate/internal/model"
)

// Reaper purges expired shared links and their files. It is idempotent and
// runs concurrently with request traffic; coordination is left entirely to
// the store's transactions.
type Reaper struct {
	fileStore model.FileStore
	logger    *logger.Logger
}

func NewReaper(fileStore model.FileStore, logger *logger.Logger) *Reaper {
	return &Reaper{
		fileStore: fileStore,
		logger:    logger,
	}
}

// RunOnce performs a single cleanup pass. An empty expired set is a normal
// no-op, not an error.
func (s *Reaper) RunOnce(ctx context.Context) (model.CleanupResult, error) {
	result, err := s.fileStore.DeleteExpired(ctx)
	if err != nil {
		return model.CleanupResult{}, fmt.Errorf("failed to delete expired links: %w", err)
	}

	if result.LinksDeleted == 0 {
		s.logger.Debug("reaper pass found no expired shared links")
		return result, nil
	}

	s.logger.Info("reaper pass removed expired shared links",
		"links_deleted", result.LinksDeleted,
		"files_deleted", result.FilesDeleted)
	return result, nil
}

// Run executes cleanup passes every interval until ctx is canceled. A failed
// pass is logged and retried on the next tick.
func (s *Reaper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				s.logger.Error("reaper pass failed", "error", err)
			}
		}
	}
}
