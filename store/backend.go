package store

import (
	"context"

	"fingnet-server/shared"
)

// Backend is the storage surface the façade routes through. Two
// implementations exist: the richer Postgres engine and the flat JSON
// fallback. The implementation is resolved once at startup and cached; no
// per-call branching.
type Backend interface {
	Name() string

	SaveUser(ctx context.Context, user *shared.User) error
	GetUser(ctx context.Context, id string) (*shared.User, error)
	GetUserByHandle(ctx context.Context, handle string) (*shared.User, error)
	GetAllUsers(ctx context.Context) ([]*shared.User, error)

	SavePost(ctx context.Context, post *shared.Post) error
	SavePostWithImages(ctx context.Context, post *shared.Post, images []*shared.ImageRecord) error
	GetPost(ctx context.Context, id string) (*shared.Post, error)
	GetAllPosts(ctx context.Context) ([]*shared.Post, error)
	GetPostsByAuthor(ctx context.Context, authorId string) ([]*shared.Post, error)
	DeletePost(ctx context.Context, id string) error

	SaveComment(ctx context.Context, comment *shared.Comment) error
	GetComment(ctx context.Context, id string) (*shared.Comment, error)
	GetCommentsByPost(ctx context.Context, postId string) ([]*shared.Comment, error)

	SaveFollow(ctx context.Context, follow *shared.Follow) error
	DeleteFollow(ctx context.Context, followerId, followingId string) error
	GetFollow(ctx context.Context, followerId, followingId string) (*shared.Follow, error)
	GetFollowers(ctx context.Context, userId string) ([]*shared.Follow, error)
	GetFollowing(ctx context.Context, userId string) ([]*shared.Follow, error)

	SaveImage(ctx context.Context, rec *shared.ImageRecord) error
	GetImage(ctx context.Context, id string) (*shared.ImageRecord, error)
	DeleteImage(ctx context.Context, id string) error

	GetStorageQuota(ctx context.Context) (*shared.StorageQuota, error)
	CleanupOldData(ctx context.Context, opts shared.CleanupOptions) (*shared.CleanupResult, error)
	GetStats(ctx context.Context) (*shared.StorageStats, error)
	ClearAll(ctx context.Context) error

	GetMigrationStatus(ctx context.Context) (*shared.MigrationStatus, error)
	PutMigrationStatus(ctx context.Context, status *shared.MigrationStatus) error
}

// quotaConstrained is implemented by backends that keep image payloads
// inline and need the tiered degrade policy on writes. The richer engine
// stores binaries natively and doesn't implement it.
type quotaConstrained interface {
	SaveImageConstrained(ctx context.Context, rec *shared.ImageRecord, original, compressed []byte) (string, error)
}
