package db

import (
	"context"
	"database/sql"
	"fmt"

	"fingnet-server/shared"
)

const upsertCommentQuery = `
INSERT INTO comments (id, post_id, author_id, body, parent_id, depth, likes_count, liked_by, deleted, created_at, updated_at)
VALUES (:id, :post_id, :author_id, :body, :parent_id, :depth, :likes_count, :liked_by, :deleted, :created_at, :updated_at)
ON CONFLICT (id) DO UPDATE SET
	body = EXCLUDED.body,
	likes_count = EXCLUDED.likes_count,
	liked_by = EXCLUDED.liked_by,
	deleted = EXCLUDED.deleted,
	updated_at = EXCLUDED.updated_at`

func (s *Store) SaveComment(ctx context.Context, comment *shared.Comment) error {
	if err := s.ready(ctx); err != nil {
		return err
	}

	_, err := s.conn.NamedExecContext(ctx, upsertCommentQuery, commentFromApi(comment))
	if err != nil {
		return fmt.Errorf("error saving comment: %v", err)
	}
	return nil
}

func (s *Store) GetComment(ctx context.Context, id string) (*shared.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var comment Comment
	err := s.conn.GetContext(ctx, &comment, "SELECT * FROM comments WHERE id = $1", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting comment: %v", err)
	}
	return comment.ToApi(), nil
}

func (s *Store) GetCommentsByPost(ctx context.Context, postId string) ([]*shared.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var comments []Comment
	err := s.conn.SelectContext(ctx, &comments,
		"SELECT * FROM comments WHERE post_id = $1 ORDER BY created_at ASC", postId)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %v", err)
	}

	res := make([]*shared.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToApi()
	}
	return res, nil
}
