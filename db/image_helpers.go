package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fingnet-server/shared"
)

const upsertImageQuery = `
INSERT INTO images (id, post_id, data, original_name, byte_size, mime_type, width, height, display_percent, ord, created_at, last_accessed)
VALUES (:id, :post_id, :data, :original_name, :byte_size, :mime_type, :width, :height, :display_percent, :ord, :created_at, :last_accessed)
ON CONFLICT (id) DO UPDATE SET
	post_id = EXCLUDED.post_id,
	data = EXCLUDED.data,
	original_name = EXCLUDED.original_name,
	byte_size = EXCLUDED.byte_size,
	mime_type = EXCLUDED.mime_type,
	width = EXCLUDED.width,
	height = EXCLUDED.height,
	display_percent = EXCLUDED.display_percent,
	ord = EXCLUDED.ord,
	last_accessed = EXCLUDED.last_accessed`

func (s *Store) SaveImage(ctx context.Context, rec *shared.ImageRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	row := imageFromApi(rec)
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if row.LastAccessed.IsZero() {
		row.LastAccessed = row.CreatedAt
	}
	if row.ByteSize == 0 {
		row.ByteSize = int64(len(row.Data))
	}

	_, err := s.conn.NamedExecContext(ctx, upsertImageQuery, row)
	if err != nil {
		return fmt.Errorf("error saving image: %v", err)
	}
	return nil
}

// GetImage returns the binary record and refreshes last_accessed, which is
// the basis for age-based eviction.
func (s *Store) GetImage(ctx context.Context, id string) (*shared.ImageRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var img Image
	err := s.conn.GetContext(ctx, &img,
		"UPDATE images SET last_accessed = now() WHERE id = $1 RETURNING *", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting image: %v", err)
	}
	return img.ToApi(), nil
}

func (s *Store) DeleteImage(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	_, err := s.conn.ExecContext(ctx, "DELETE FROM images WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting image: %v", err)
	}
	return nil
}
