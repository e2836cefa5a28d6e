package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fingnet-server/shared"
)

func (s *Storage) GetPostComments(ctx context.Context, postId string) ([]*shared.Comment, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	post, err := s.backend.GetPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, shared.NotFoundErr(fmt.Sprintf("post not found: %v", postId))
	}

	comments, err := s.backend.GetCommentsByPost(ctx, postId)
	if err != nil {
		return nil, err
	}

	userCache := map[string]*shared.User{}
	for _, c := range comments {
		if c.Deleted {
			c.Body = ""
		}
		if c.Author == nil {
			author, ok := userCache[c.AuthorId]
			if !ok {
				author, err = s.backend.GetUser(ctx, c.AuthorId)
				if err != nil {
					return nil, err
				}
				userCache[c.AuthorId] = author
			}
			c.Author = author
		}
	}
	return comments, nil
}

// CreateComment enforces referential integrity (post, author, parent) and
// the nesting cap: depth is parent depth + 1, at most 3.
func (s *Storage) CreateComment(ctx context.Context, req shared.CreateCommentRequest) (*shared.Comment, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	post, err := s.backend.GetPost(ctx, req.PostId)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, shared.InvalidRefErr(fmt.Sprintf("post not found: %v", req.PostId))
	}

	author, err := s.backend.GetUser(ctx, req.AuthorId)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, shared.InvalidRefErr(fmt.Sprintf("author not found: %v", req.AuthorId))
	}

	depth := 1
	if req.ParentId != nil {
		parent, err := s.backend.GetComment(ctx, *req.ParentId)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, shared.InvalidRefErr(fmt.Sprintf("parent comment not found: %v", *req.ParentId))
		}
		if parent.PostId != req.PostId {
			return nil, shared.InvalidRefErr("parent comment belongs to a different post")
		}
		depth = parent.Depth + 1
		if depth > shared.MaxCommentDepth {
			return nil, shared.ApiErr(shared.ApiErrorTypeDepthLimit, 422,
				fmt.Sprintf("comment nesting is capped at depth %d", shared.MaxCommentDepth))
		}
	}

	now := time.Now().UTC()
	comment := &shared.Comment{
		Id:        uuid.New().String(),
		PostId:    req.PostId,
		AuthorId:  req.AuthorId,
		Body:      req.Body,
		ParentId:  req.ParentId,
		Depth:     depth,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.backend.SaveComment(ctx, comment); err != nil {
		return nil, err
	}

	post.CommentsCount++
	if err := s.backend.SavePost(ctx, post); err != nil {
		return nil, err
	}

	comment.Author = author
	return comment, nil
}

func (s *Storage) UpdateComment(ctx context.Context, commentId, authorId, body string) (*shared.Comment, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	comment, err := s.backend.GetComment(ctx, commentId)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.Deleted {
		return nil, shared.NotFoundErr(fmt.Sprintf("comment not found: %v", commentId))
	}
	if comment.AuthorId != authorId {
		return nil, shared.ApiErr(shared.ApiErrorTypeInvalidInput, 403, "only the author can edit a comment")
	}

	comment.Body = body
	comment.UpdatedAt = time.Now().UTC()
	if err := s.backend.SaveComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment soft-deletes so replies keep their anchor.
func (s *Storage) DeleteComment(ctx context.Context, commentId, authorId string) error {
	if err := s.init(ctx); err != nil {
		return err
	}

	comment, err := s.backend.GetComment(ctx, commentId)
	if err != nil {
		return err
	}
	if comment == nil || comment.Deleted {
		return shared.NotFoundErr(fmt.Sprintf("comment not found: %v", commentId))
	}
	if comment.AuthorId != authorId {
		return shared.ApiErr(shared.ApiErrorTypeInvalidInput, 403, "only the author can delete a comment")
	}

	comment.Deleted = true
	comment.UpdatedAt = time.Now().UTC()
	if err := s.backend.SaveComment(ctx, comment); err != nil {
		return err
	}

	post, err := s.backend.GetPost(ctx, comment.PostId)
	if err != nil {
		return err
	}
	if post != nil && post.CommentsCount > 0 {
		post.CommentsCount--
		if err := s.backend.SavePost(ctx, post); err != nil {
			return err
		}
	}
	return nil
}

// LikeComment toggles the viewer's like.
func (s *Storage) LikeComment(ctx context.Context, commentId, userId string) (*shared.Comment, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	comment, err := s.backend.GetComment(ctx, commentId)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.Deleted {
		return nil, shared.NotFoundErr(fmt.Sprintf("comment not found: %v", commentId))
	}

	liked := false
	for i, id := range comment.LikedBy {
		if id == userId {
			comment.LikedBy = append(comment.LikedBy[:i], comment.LikedBy[i+1:]...)
			liked = true
			break
		}
	}
	if !liked {
		comment.LikedBy = append(comment.LikedBy, userId)
	}
	comment.LikesCount = len(comment.LikedBy)

	if err := s.backend.SaveComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
