package flatstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"fingnet-server/shared"
)

func (s *Store) SaveUser(ctx context.Context, user *shared.User) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users := map[string]*shared.User{}
	if err := s.readDoc(usersFile, &users); err != nil {
		return err
	}
	users[user.Id] = user
	return s.writeDoc(usersFile, users)
}

func (s *Store) GetUser(ctx context.Context, id string) (*shared.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users := map[string]*shared.User{}
	if err := s.readDoc(usersFile, &users); err != nil {
		return nil, err
	}
	return users[id], nil
}

func (s *Store) GetUserByHandle(ctx context.Context, handle string) (*shared.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users := map[string]*shared.User{}
	if err := s.readDoc(usersFile, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.Handle == handle {
			return u, nil
		}
	}
	return nil, nil
}

func (s *Store) GetAllUsers(ctx context.Context) ([]*shared.User, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	users := map[string]*shared.User{}
	if err := s.readDoc(usersFile, &users); err != nil {
		return nil, err
	}

	res := make([]*shared.User, 0, len(users))
	for _, u := range users {
		res = append(res, u)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) SavePost(ctx context.Context, post *shared.Post) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := map[string]*shared.Post{}
	if err := s.readDoc(postsFile, &posts); err != nil {
		return err
	}
	posts[post.Id] = post
	return s.writeDoc(postsFile, posts)
}

// SavePostWithImages persists the binary records and the post under one
// lock. The collection documents are each written via temp-file rename, so
// a crash mid-way can leave the images written without the post, which the
// next save repairs via upsert.
func (s *Store) SavePostWithImages(ctx context.Context, post *shared.Post, images []*shared.ImageRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range images {
		if err := s.saveImageLocked(rec); err != nil {
			return err
		}
	}

	posts := map[string]*shared.Post{}
	if err := s.readDoc(postsFile, &posts); err != nil {
		return err
	}
	posts[post.Id] = post
	return s.writeDoc(postsFile, posts)
}

func (s *Store) GetPost(ctx context.Context, id string) (*shared.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := map[string]*shared.Post{}
	if err := s.readDoc(postsFile, &posts); err != nil {
		return nil, err
	}
	return posts[id], nil
}

func (s *Store) GetAllPosts(ctx context.Context) ([]*shared.Post, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allPostsLocked()
}

func (s *Store) allPostsLocked() ([]*shared.Post, error) {
	posts := map[string]*shared.Post{}
	if err := s.readDoc(postsFile, &posts); err != nil {
		return nil, err
	}

	res := make([]*shared.Post, 0, len(posts))
	for _, p := range posts {
		res = append(res, p)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) GetPostsByAuthor(ctx context.Context, authorId string) ([]*shared.Post, error) {
	all, err := s.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}

	var res []*shared.Post
	for _, p := range all {
		if p.AuthorId == authorId {
			res = append(res, p)
		}
	}
	return res, nil
}

// DeletePost removes the post, its owned image records, and its comments.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := map[string]*shared.Post{}
	if err := s.readDoc(postsFile, &posts); err != nil {
		return err
	}
	post, ok := posts[id]
	if !ok {
		return nil
	}

	images := map[string]*shared.ImageRecord{}
	if err := s.readDoc(imagesFile, &images); err != nil {
		return err
	}
	for _, pi := range post.Images {
		if recId, ok := shared.ParseImageRef(pi.Reference); ok {
			delete(images, recId)
		}
		if recId, ok := shared.ParseImageRef(pi.ThumbnailReference); ok {
			delete(images, recId)
		}
	}

	comments := map[string]*shared.Comment{}
	if err := s.readDoc(commentsFile, &comments); err != nil {
		return err
	}
	for cid, c := range comments {
		if c.PostId == id {
			delete(comments, cid)
		}
	}

	delete(posts, id)

	if err := s.writeDoc(imagesFile, images); err != nil {
		return err
	}
	if err := s.writeDoc(commentsFile, comments); err != nil {
		return err
	}
	return s.writeDoc(postsFile, posts)
}

func (s *Store) SaveComment(ctx context.Context, comment *shared.Comment) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := map[string]*shared.Comment{}
	if err := s.readDoc(commentsFile, &comments); err != nil {
		return err
	}
	comments[comment.Id] = comment
	return s.writeDoc(commentsFile, comments)
}

func (s *Store) GetComment(ctx context.Context, id string) (*shared.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := map[string]*shared.Comment{}
	if err := s.readDoc(commentsFile, &comments); err != nil {
		return nil, err
	}
	return comments[id], nil
}

func (s *Store) GetCommentsByPost(ctx context.Context, postId string) ([]*shared.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := map[string]*shared.Comment{}
	if err := s.readDoc(commentsFile, &comments); err != nil {
		return nil, err
	}

	var res []*shared.Comment
	for _, c := range comments {
		if c.PostId == postId {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) GetAllComments(ctx context.Context) ([]*shared.Comment, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := map[string]*shared.Comment{}
	if err := s.readDoc(commentsFile, &comments); err != nil {
		return nil, err
	}

	res := make([]*shared.Comment, 0, len(comments))
	for _, c := range comments {
		res = append(res, c)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) GetAllFollows(ctx context.Context) ([]*shared.Follow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	follows := map[string]*shared.Follow{}
	if err := s.readDoc(followsFile, &follows); err != nil {
		return nil, err
	}

	res := make([]*shared.Follow, 0, len(follows))
	for _, f := range follows {
		res = append(res, f)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.Before(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) SaveFollow(ctx context.Context, follow *shared.Follow) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if follow.FollowerId == follow.FollowingId {
		return fmt.Errorf("user cannot follow themselves: %v", follow.FollowerId)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	follows := map[string]*shared.Follow{}
	if err := s.readDoc(followsFile, &follows); err != nil {
		return err
	}

	// one edge per ordered pair
	for _, f := range follows {
		if f.FollowerId == follow.FollowerId && f.FollowingId == follow.FollowingId {
			return nil
		}
	}

	follows[follow.Id] = follow
	return s.writeDoc(followsFile, follows)
}

func (s *Store) DeleteFollow(ctx context.Context, followerId, followingId string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	follows := map[string]*shared.Follow{}
	if err := s.readDoc(followsFile, &follows); err != nil {
		return err
	}
	for id, f := range follows {
		if f.FollowerId == followerId && f.FollowingId == followingId {
			delete(follows, id)
		}
	}
	return s.writeDoc(followsFile, follows)
}

func (s *Store) GetFollow(ctx context.Context, followerId, followingId string) (*shared.Follow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	follows := map[string]*shared.Follow{}
	if err := s.readDoc(followsFile, &follows); err != nil {
		return nil, err
	}
	for _, f := range follows {
		if f.FollowerId == followerId && f.FollowingId == followingId {
			return f, nil
		}
	}
	return nil, nil
}

func (s *Store) GetFollowers(ctx context.Context, userId string) ([]*shared.Follow, error) {
	return s.filterFollows(ctx, func(f *shared.Follow) bool { return f.FollowingId == userId })
}

func (s *Store) GetFollowing(ctx context.Context, userId string) ([]*shared.Follow, error) {
	return s.filterFollows(ctx, func(f *shared.Follow) bool { return f.FollowerId == userId })
}

func (s *Store) filterFollows(ctx context.Context, keep func(*shared.Follow) bool) ([]*shared.Follow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	follows := map[string]*shared.Follow{}
	if err := s.readDoc(followsFile, &follows); err != nil {
		return nil, err
	}

	var res []*shared.Follow
	for _, f := range follows {
		if keep(f) {
			res = append(res, f)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].CreatedAt.After(res[j].CreatedAt) })
	return res, nil
}

func (s *Store) SaveImage(ctx context.Context, rec *shared.ImageRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveImageLocked(rec)
}

func (s *Store) saveImageLocked(rec *shared.ImageRecord) error {
	images := map[string]*shared.ImageRecord{}
	if err := s.readDoc(imagesFile, &images); err != nil {
		return err
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.LastAccessed.IsZero() {
		rec.LastAccessed = rec.CreatedAt
	}
	if rec.Meta.ByteSize == 0 {
		rec.Meta.ByteSize = int64(len(rec.Data))
	}

	images[rec.Id] = rec
	return s.writeDoc(imagesFile, images)
}

func (s *Store) GetImage(ctx context.Context, id string) (*shared.ImageRecord, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	images := map[string]*shared.ImageRecord{}
	if err := s.readDoc(imagesFile, &images); err != nil {
		return nil, err
	}
	rec, ok := images[id]
	if !ok {
		return nil, nil
	}

	rec.LastAccessed = time.Now().UTC()
	if err := s.writeDoc(imagesFile, images); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) DeleteImage(ctx context.Context, id string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	images := map[string]*shared.ImageRecord{}
	if err := s.readDoc(imagesFile, &images); err != nil {
		return err
	}
	delete(images, id)
	return s.writeDoc(imagesFile, images)
}

func (s *Store) GetMigrationStatus(ctx context.Context) (*shared.MigrationStatus, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var status *shared.MigrationStatus
	if err := s.readDoc(statusFile, &status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Store) PutMigrationStatus(ctx context.Context, status *shared.MigrationStatus) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeDoc(statusFile, status)
}
