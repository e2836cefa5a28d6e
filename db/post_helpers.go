package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"fingnet-server/shared"
)

const upsertPostQuery = `
INSERT INTO posts (id, author_id, body, kind, visibility, cover_image_index, likes_count, comments_count, relationship, platform, feelings, edited, created_at, updated_at)
VALUES (:id, :author_id, :body, :kind, :visibility, :cover_image_index, :likes_count, :comments_count, :relationship, :platform, :feelings, :edited, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET
	body = EXCLUDED.body,
	kind = EXCLUDED.kind,
	visibility = EXCLUDED.visibility,
	cover_image_index = EXCLUDED.cover_image_index,
	likes_count = EXCLUDED.likes_count,
	comments_count = EXCLUDED.comments_count,
	relationship = EXCLUDED.relationship,
	platform = EXCLUDED.platform,
	feelings = EXCLUDED.feelings,
	edited = EXCLUDED.edited,
	updated_at = EXCLUDED.updated_at`

// SavePost writes the post and its owned image list as one atomic unit. The
// image list is replaced wholesale; a post exclusively owns its images.
func (s *Store) SavePost(ctx context.Context, post *shared.Post) error {
	return s.WithTx(ctx, "save post", func(tx *sqlx.Tx) error {
		return savePostTx(tx, post)
	})
}

// SavePostWithImages writes the binary records and the post in a single
// transaction so a partial failure leaves no collection half-written.
func (s *Store) SavePostWithImages(ctx context.Context, post *shared.Post, images []*shared.ImageRecord) error {
	return s.WithTx(ctx, "save post with images", func(tx *sqlx.Tx) error {
		for _, rec := range images {
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
			if _, err := tx.NamedExec(upsertImageQuery, row); err != nil {
				return fmt.Errorf("error saving image: %v", err)
			}
		}
		return savePostTx(tx, post)
	})
}

func savePostTx(tx *sqlx.Tx, post *shared.Post) error {
	_, err := tx.NamedExec(upsertPostQuery, postFromApi(post))
	if err != nil {
		return fmt.Errorf("error saving post: %v", err)
	}

	_, err = tx.Exec("DELETE FROM post_images WHERE post_id = $1", post.Id)
	if err != nil {
		return fmt.Errorf("error clearing post images: %v", err)
	}

	for i, img := range post.Images {
		_, err = tx.Exec(`
			INSERT INTO post_images (id, post_id, reference, thumbnail_reference, alt_text, width, height, display_percent, ord)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			img.Id, post.Id, img.Reference, img.ThumbnailReference, img.AltText,
			img.Width, img.Height, img.DisplayPercent, i)
		if err != nil {
			return fmt.Errorf("error saving post image: %v", err)
		}
	}

	return nil
}

func (s *Store) GetPost(ctx context.Context, id string) (*shared.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var post Post
	err := s.conn.GetContext(ctx, &post, "SELECT * FROM posts WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting post: %v", err)
	}

	var images []PostImage
	err = s.conn.SelectContext(ctx, &images, "SELECT * FROM post_images WHERE post_id = $1 ORDER BY ord ASC", id)
	if err != nil {
		return nil, fmt.Errorf("error getting post images: %v", err)
	}

	return post.ToApi(images), nil
}

func (s *Store) GetAllPosts(ctx context.Context) ([]*shared.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var posts []Post
	err := s.conn.SelectContext(ctx, &posts, "SELECT * FROM posts ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %v", err)
	}

	return s.attachImages(ctx, posts)
}

func (s *Store) GetPostsByAuthor(ctx context.Context, authorId string) ([]*shared.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var posts []Post
	err := s.conn.SelectContext(ctx, &posts, "SELECT * FROM posts WHERE author_id = $1 ORDER BY created_at DESC", authorId)
	if err != nil {
		return nil, fmt.Errorf("error listing posts by author: %v", err)
	}

	return s.attachImages(ctx, posts)
}

func (s *Store) attachImages(ctx context.Context, posts []Post) ([]*shared.Post, error) {
	if len(posts) == 0 {
		return nil, nil
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.Id
	}

	var images []PostImage
	err := s.conn.SelectContext(ctx, &images, "SELECT * FROM post_images WHERE post_id = ANY($1) ORDER BY ord ASC", pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error listing post images: %v", err)
	}

	byPost := map[string][]PostImage{}
	for _, img := range images {
		byPost[img.PostId] = append(byPost[img.PostId], img)
	}

	res := make([]*shared.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToApi(byPost[posts[i].Id])
	}
	return res, nil
}

// DeletePost removes the post, its owned image records, and (via schema
// cascade) its post-image rows and comments.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return s.WithTx(ctx, "delete post", func(tx *sqlx.Tx) error {
		_, err := tx.Exec("DELETE FROM images WHERE post_id = $1", id)
		if err != nil {
			return fmt.Errorf("error deleting image records: %v", err)
		}

		_, err = tx.Exec("DELETE FROM posts WHERE id = $1", id)
		if err != nil {
			return fmt.Errorf("error deleting post: %v", err)
		}
		return nil
	})
}
