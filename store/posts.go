package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fingnet-server/imageproc"
	"fingnet-server/shared"
)

func (s *Storage) GetUserPosts(ctx context.Context, userId, viewerId string) ([]*shared.Post, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	posts, err := s.backend.GetPostsByAuthor(ctx, userId)
	if err != nil {
		return nil, err
	}

	userCache := map[string]*shared.User{}
	var res []*shared.Post
	for _, post := range posts {
		if post.Visibility == shared.VisibilityPrivate && viewerId != userId {
			continue
		}
		s.resolvePost(ctx, post, userCache)
		res = append(res, post)
	}
	return res, nil
}

func (s *Storage) GetPostByID(ctx context.Context, id string) (*shared.Post, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	post, err := s.backend.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, shared.NotFoundErr(fmt.Sprintf("post not found: %v", id))
	}

	s.resolvePost(ctx, post, map[string]*shared.User{})
	return post, nil
}

// CreatePost validates the author, runs every upload through the image
// pipeline, persists the binaries, and writes the post. All uploads are
// processed before anything is written so a decode failure leaves no
// partial record behind.
func (s *Storage) CreatePost(ctx context.Context, req shared.CreatePostRequest) (*shared.Post, error) {
	if err := s.init(ctx); err != nil {
		return nil, err
	}

	author, err := s.backend.GetUser(ctx, req.AuthorId)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, shared.InvalidRefErr(fmt.Sprintf("author not found: %v", req.AuthorId))
	}

	if req.Kind == "" {
		req.Kind = shared.PostKindPublicShare
	}

	type processedUpload struct {
		upload    shared.ImageUpload
		processed *imageproc.Processed
	}

	var uploads []processedUpload
	for _, upload := range req.Images {
		processed, err := imageproc.Process(upload.Data, upload.Name)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, processedUpload{upload: upload, processed: processed})
	}

	now := time.Now().UTC()
	postId := uuid.New().String()

	post := &shared.Post{
		Id:           postId,
		AuthorId:     req.AuthorId,
		Body:         req.Body,
		Kind:         req.Kind,
		Visibility:   shared.VisibilityForKind(req.Kind),
		Relationship: req.Relationship,
		Platform:     req.Platform,
		Feelings:     req.Feelings,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	constrained, isConstrained := s.backend.(quotaConstrained)

	var records []*shared.ImageRecord
	for i, pu := range uploads {
		imageId := uuid.New().String()
		thumbId := imageId + "-thumb"

		displayPercent := pu.upload.DisplayPercent
		if displayPercent <= 0 {
			displayPercent = 100
		}

		meta := pu.processed.Meta
		meta.DisplayPercent = displayPercent
		meta.Order = i

		rec := &shared.ImageRecord{
			Id:     imageId,
			PostId: postId,
			Data:   pu.processed.Primary,
			Meta:   meta,
		}
		thumbRec := &shared.ImageRecord{
			Id:     thumbId,
			PostId: postId,
			Data:   pu.processed.Thumbnail,
			Meta: shared.ImageMeta{
				OriginalName:   pu.upload.Name,
				ByteSize:       int64(len(pu.processed.Thumbnail)),
				MimeType:       "image/jpeg",
				DisplayPercent: displayPercent,
				Order:          i,
			},
		}

		reference := shared.ImageRef(imageId)
		thumbReference := shared.ImageRef(thumbId)

		if isConstrained {
			ref, err := constrained.SaveImageConstrained(ctx, rec, pu.upload.Data, pu.processed.Primary)
			if err != nil {
				return nil, err
			}
			reference = ref

			if err := s.backend.SaveImage(ctx, thumbRec); err != nil {
				// thumbnail resolution degrades to the primary
				thumbReference = reference
			}
		} else {
			records = append(records, rec, thumbRec)
		}

		post.Images = append(post.Images, shared.PostImage{
			Id:                 imageId,
			Reference:          reference,
			ThumbnailReference: thumbReference,
			AltText:            pu.upload.AltText,
			Width:              pu.processed.Meta.Width,
			Height:             pu.processed.Meta.Height,
			DisplayPercent:     displayPercent,
			Order:              i,
		})
	}

	if req.CoverImageIndex >= 0 && req.CoverImageIndex < len(post.Images) {
		post.CoverImageIndex = req.CoverImageIndex
	}

	// the image records and the post go down as one atomic unit; the
	// constrained path has already persisted its binaries above
	if isConstrained {
		if err := s.backend.SavePost(ctx, post); err != nil {
			return nil, err
		}
	} else {
		if err := s.backend.SavePostWithImages(ctx, post, records); err != nil {
			return nil, err
		}
	}

	author.PostsCount++
	author.UpdatedAt = now
	if err := s.backend.SaveUser(ctx, author); err != nil {
		return nil, err
	}

	s.resolvePost(ctx, post, map[string]*shared.User{req.AuthorId: author})
	return post, nil
}
