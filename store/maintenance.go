package store

import (
	"context"
	"log"

	"fingnet-server/shared"
)

func (s *Storage) GetStorageQuota(ctx context.Context) (*shared.StorageQuota, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}
	return s.backend.GetStorageQuota(ctx)
}

func (s *Storage) GetStats(ctx context.Context) (*shared.StorageStats, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	stats, err := s.backend.GetStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.Backend = s.backend.Name()
	stats.Degraded = s.degraded
	return stats, nil
}

func (s *Storage) Cleanup(ctx context.Context, opts shared.CleanupOptions) (*shared.CleanupResult, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	res, err := s.backend.CleanupOldData(ctx, opts)
	if err != nil {
		return nil, err
	}
	log.Printf("cleanup removed %d images and %d posts, freed %d bytes",
		res.DeletedImages, res.DeletedPosts, res.FreedBytes)
	return res, nil
}

func (s *Storage) ClearAll(ctx context.Context) error {
	if err := s.init(ctx); err != nil {
		return err
	}
	return s.backend.ClearAll(ctx)
}

func (s *Storage) GetMigrationStatus(ctx context.Context) (*shared.MigrationStatus, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	if s.migrator == nil {
		// degraded mode or a test backend; report whatever is persisted
		status, err := s.backend.GetMigrationStatus(ctx)
		if err != nil {
			return nil, err
		}
		if status == nil {
			status = &shared.MigrationStatus{State: shared.MigrationNotRequired}
		}
		return status, nil
	}
	return s.migrator.Status(ctx)
}

// Migrate triggers a migration run on demand. Returns false when no
// migration was required or one is already running.
func (s *Storage) Migrate(ctx context.Context, onProgress func(shared.MigrationProgress)) (bool, error) {
	if err := s.init(ctx); err != nil {
		return false, err
	}

	if s.migrator == nil {
		return false, shared.ApiErr(shared.ApiErrorTypeMigration, 503,
			"migration is unavailable while running on the fallback store")
	}
	return s.migrator.Perform(ctx, onProgress)
}
