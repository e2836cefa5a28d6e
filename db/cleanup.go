package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"fingnet-server/shared"
)

func (s *Store) GetStorageQuota(ctx context.Context) (*shared.StorageQuota, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var used int64
	err := s.conn.GetContext(ctx, &used, "SELECT pg_database_size(current_database())")
	if err != nil {
		return nil, fmt.Errorf("error getting database size: %v", err)
	}

	total := s.cfg.QuotaBytes
	available := total - used
	if available < 0 {
		available = 0
	}

	return &shared.StorageQuota{
		Used:      used,
		Available: available,
		Total:     total,
		Percent:   float64(used) / float64(total) * 100,
	}, nil
}

// CleanupOldData evicts images whose last access is older than MaxImageAge,
// then trims posts beyond MaxPosts keeping the newest. Trimmed posts take
// their owned image records with them so no orphaned binaries are left
// behind.
func (s *Store) CleanupOldData(ctx context.Context, opts shared.CleanupOptions) (*shared.CleanupResult, error) {
	opts = opts.WithDefaults()
	result := &shared.CleanupResult{}

	err := s.WithTx(ctx, "cleanup old data", func(tx *sqlx.Tx) error {
		cutoff := time.Now().UTC().Add(-opts.MaxImageAge)

		type victim struct {
			Id       string `db:"id"`
			ByteSize int64  `db:"byte_size"`
		}

		var oldImages []victim
		err := tx.Select(&oldImages, `
			SELECT id, byte_size FROM images
			WHERE last_accessed < $1
			ORDER BY last_accessed ASC`, cutoff)
		if err != nil {
			return fmt.Errorf("error scanning old images: %v", err)
		}

		if len(oldImages) > 0 {
			ids := make([]string, len(oldImages))
			for i, img := range oldImages {
				ids[i] = img.Id
				result.FreedBytes += img.ByteSize
			}
			_, err = tx.Exec("DELETE FROM images WHERE id = ANY($1)", pq.Array(ids))
			if err != nil {
				return fmt.Errorf("error deleting old images: %v", err)
			}
			result.DeletedImages = len(ids)
		}

		var postCount int
		err = tx.Get(&postCount, "SELECT COUNT(*) FROM posts")
		if err != nil {
			return fmt.Errorf("error counting posts: %v", err)
		}

		if postCount > opts.MaxPosts {
			var excessIds []string
			err = tx.Select(&excessIds, `
				SELECT id FROM posts
				ORDER BY created_at DESC
				OFFSET $1`, opts.MaxPosts)
			if err != nil {
				return fmt.Errorf("error selecting excess posts: %v", err)
			}

			var ownedImages []victim
			err = tx.Select(&ownedImages,
				"SELECT id, byte_size FROM images WHERE post_id = ANY($1)", pq.Array(excessIds))
			if err != nil {
				return fmt.Errorf("error scanning owned images: %v", err)
			}
			for _, img := range ownedImages {
				result.FreedBytes += img.ByteSize
			}
			result.DeletedImages += len(ownedImages)

			_, err = tx.Exec("DELETE FROM images WHERE post_id = ANY($1)", pq.Array(excessIds))
			if err != nil {
				return fmt.Errorf("error deleting owned images: %v", err)
			}

			_, err = tx.Exec("DELETE FROM posts WHERE id = ANY($1)", pq.Array(excessIds))
			if err != nil {
				return fmt.Errorf("error deleting excess posts: %v", err)
			}
			result.DeletedPosts = len(excessIds)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) GetStats(ctx context.Context) (*shared.StorageStats, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	stats := &shared.StorageStats{Backend: s.Name()}

	counts := []struct {
		table string
		dest  *int
	}{
		{"users", &stats.Users},
		{"posts", &stats.Posts},
		{"comments", &stats.Comments},
		{"follows", &stats.Follows},
		{"images", &stats.Images},
	}

	for _, c := range counts {
		err := s.conn.GetContext(ctx, c.dest, "SELECT COUNT(*) FROM "+c.table)
		if err != nil {
			return nil, fmt.Errorf("error counting %s: %v", c.table, err)
		}
	}

	quota, err := s.GetStorageQuota(ctx)
	if err != nil {
		return nil, err
	}
	stats.Quota = *quota

	return stats, nil
}

func (s *Store) ClearAll(ctx context.Context) error {
	return s.WithTx(ctx, "clear all data", func(tx *sqlx.Tx) error {
		_, err := tx.Exec("TRUNCATE users, posts, post_images, images, comments, follows, migration_status CASCADE")
		if err != nil {
			return fmt.Errorf("error clearing data: %v", err)
		}
		return nil
	})
}
