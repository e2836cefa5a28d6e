package migration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fingnet-server/flatstore"
	"fingnet-server/shared"
)

func seededLegacy(t *testing.T) *flatstore.Store {
	t.Helper()
	ctx := context.Background()
	legacy := flatstore.NewStore(t.TempDir(), 0)

	require.NoError(t, legacy.SaveUser(ctx, &shared.User{Id: "user-1", Handle: "aria", CreatedAt: time.Now()}))
	require.NoError(t, legacy.SaveUser(ctx, &shared.User{Id: "user-2", Handle: "ben", CreatedAt: time.Now()}))

	inline := shared.EncodeInlineImage([]byte("fake jpeg payload"), "image/jpeg")
	require.NoError(t, legacy.SavePost(ctx, &shared.Post{
		Id:       "post-1",
		AuthorId: "user-1",
		Body:     "with inline image",
		Kind:     shared.PostKindPublicShare,
		Images: []shared.PostImage{
			{Id: "img-1", Reference: inline, ThumbnailReference: inline},
		},
		CreatedAt: time.Now(),
	}))
	require.NoError(t, legacy.SavePost(ctx, &shared.Post{
		Id:        "post-2",
		AuthorId:  "user-2",
		Body:      "no images",
		Kind:      shared.PostKindProfilePost,
		CreatedAt: time.Now(),
	}))

	require.NoError(t, legacy.SaveComment(ctx, &shared.Comment{
		Id: "comment-1", PostId: "post-1", AuthorId: "user-2", Body: "nice", Depth: 1, CreatedAt: time.Now(),
	}))
	require.NoError(t, legacy.SaveFollow(ctx, &shared.Follow{
		Id: "follow-1", FollowerId: "user-2", FollowingId: "user-1", CreatedAt: time.Now(),
	}))

	return legacy
}

func TestCheckRequired(t *testing.T) {
	ctx := context.Background()

	t.Run("no legacy data", func(t *testing.T) {
		m := NewManager(flatstore.NewStore(t.TempDir(), 0), flatstore.NewStore(t.TempDir(), 0))
		state, err := m.CheckRequired(ctx)
		require.NoError(t, err)
		assert.Equal(t, shared.MigrationNotRequired, state)
	})

	t.Run("legacy data present", func(t *testing.T) {
		m := NewManager(seededLegacy(t), flatstore.NewStore(t.TempDir(), 0))
		state, err := m.CheckRequired(ctx)
		require.NoError(t, err)
		assert.Equal(t, shared.MigrationRequired, state)
	})

	t.Run("already completed", func(t *testing.T) {
		dest := flatstore.NewStore(t.TempDir(), 0)
		require.NoError(t, dest.PutMigrationStatus(ctx, &shared.MigrationStatus{State: shared.MigrationCompleted}))

		m := NewManager(seededLegacy(t), dest)
		state, err := m.CheckRequired(ctx)
		require.NoError(t, err)
		assert.Equal(t, shared.MigrationNotRequired, state)
	})
}

func TestPerformMigratesEverything(t *testing.T) {
	ctx := context.Background()
	legacy := seededLegacy(t)
	dest := flatstore.NewStore(t.TempDir(), 0)

	m := NewManager(legacy, dest)
	m.SetGraceDelay(10 * time.Millisecond)

	var progress []shared.MigrationProgress
	ran, err := m.Perform(ctx, func(p shared.MigrationProgress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	assert.True(t, ran)
	assert.NotEmpty(t, progress)

	status, err := dest.GetMigrationStatus(ctx)
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.Equal(t, shared.MigrationCompleted, status.State)
	assert.Equal(t, 2, status.Users)
	assert.Equal(t, 2, status.Posts)
	assert.Equal(t, 1, status.Comments)
	assert.Equal(t, 1, status.Follows)
	assert.Equal(t, 2, status.Images) // primary + thumbnail
	assert.Greater(t, status.BytesBefore, int64(0))
	assert.NotNil(t, status.CompletedAt)

	// inline references were rewritten to managed references
	post, err := dest.GetPost(ctx, "post-1")
	require.NoError(t, err)
	require.Len(t, post.Images, 1)
	assert.True(t, shared.IsImageRef(post.Images[0].Reference))
	assert.True(t, shared.IsImageRef(post.Images[0].ThumbnailReference))

	// the converted binary is readable via its rewritten reference
	recId, ok := shared.ParseImageRef(post.Images[0].Reference)
	require.True(t, ok)
	rec, err := dest.GetImage(ctx, recId)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, []byte("fake jpeg payload"), rec.Data)
	assert.Equal(t, "image/jpeg", rec.Meta.MimeType)

	// legacy data is destroyed after the grace delay
	require.Eventually(t, func() bool { return !legacy.LegacyPresent() },
		time.Second, 10*time.Millisecond)
}

func TestPerformNotRequiredIsNoop(t *testing.T) {
	ctx := context.Background()
	m := NewManager(flatstore.NewStore(t.TempDir(), 0), flatstore.NewStore(t.TempDir(), 0))

	ran, err := m.Perform(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ran)
}

// failingDest wraps a destination and fails post writes until the budget of
// failures runs out.
type failingDest struct {
	Destination
	failPosts int
}

func (d *failingDest) SavePost(ctx context.Context, post *shared.Post) error {
	if d.failPosts > 0 {
		d.failPosts--
		return errors.New("write failed")
	}
	return d.Destination.SavePost(ctx, post)
}

func TestInterruptedRunIsRetryable(t *testing.T) {
	ctx := context.Background()
	legacy := seededLegacy(t)
	dest := flatstore.NewStore(t.TempDir(), 0)

	wrapped := &failingDest{Destination: dest, failPosts: 1}
	m := NewManager(legacy, wrapped)
	m.SetGraceDelay(10 * time.Millisecond)

	_, err := m.Perform(ctx, nil)
	require.Error(t, err)

	status, err := dest.GetMigrationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, shared.MigrationFailed, status.State)
	assert.NotEmpty(t, status.Errors)

	// legacy data survives a failed run
	assert.True(t, legacy.LegacyPresent())

	// a retry completes and never duplicates already-written records
	retry := NewManager(legacy, dest)
	retry.SetGraceDelay(10 * time.Millisecond)
	ran, err := retry.Perform(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ran)

	users, err := dest.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	posts, err := dest.GetAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestConcurrentPerformGuard(t *testing.T) {
	ctx := context.Background()
	legacy := seededLegacy(t)
	dest := flatstore.NewStore(t.TempDir(), 0)

	m := NewManager(legacy, dest)
	m.SetGraceDelay(time.Hour) // keep legacy around for the duration

	ran, err := m.Perform(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ran)

	// a second run after completion is a no-op via the persisted status
	ran, err = m.Perform(ctx, nil)
	require.NoError(t, err)
	assert.False(t, ran)
}

func TestUndecodableInlineImageIsItemLevel(t *testing.T) {
	ctx := context.Background()
	legacy := flatstore.NewStore(t.TempDir(), 0)

	require.NoError(t, legacy.SaveUser(ctx, &shared.User{Id: "user-1", Handle: "aria"}))
	require.NoError(t, legacy.SavePost(ctx, &shared.Post{
		Id:       "post-bad",
		AuthorId: "user-1",
		Kind:     shared.PostKindPublicShare,
		Images: []shared.PostImage{
			{Id: "img-bad", Reference: "data:image/jpeg;base64,%%%not-base64%%%"},
		},
		CreatedAt: time.Now(),
	}))

	dest := flatstore.NewStore(t.TempDir(), 0)
	m := NewManager(legacy, dest)
	m.SetGraceDelay(10 * time.Millisecond)

	ran, err := m.Perform(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ran)

	status, err := dest.GetMigrationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, shared.MigrationCompleted, status.State)
	assert.NotEmpty(t, status.Errors)

	post, err := dest.GetPost(ctx, "post-bad")
	require.NoError(t, err)
	require.Len(t, post.Images, 1)
	assert.Empty(t, post.Images[0].Reference)
}
