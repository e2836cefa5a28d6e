package flatstore

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fingnet-server/shared"
)

func newTestStore(t *testing.T, budget int64) *Store {
	t.Helper()
	return NewStore(t.TempDir(), budget)
}

func TestUserRoundTrip(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	user := &shared.User{
		Id:          "user-1",
		Handle:      "aria",
		DisplayName: "Aria",
		CreatedAt:   time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.SaveUser(ctx, user))

	got, err := s.GetUser(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, user.Handle, got.Handle)

	byHandle, err := s.GetUserByHandle(ctx, "aria")
	require.NoError(t, err)
	require.NotNil(t, byHandle)
	assert.Equal(t, "user-1", byHandle.Id)

	missing, err := s.GetUser(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestPostRoundTripWithImages(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	rec := &shared.ImageRecord{
		Id:     "img-1",
		PostId: "post-1",
		Data:   []byte("jpeg bytes"),
		Meta:   shared.ImageMeta{MimeType: "image/jpeg"},
	}
	post := &shared.Post{
		Id:       "post-1",
		AuthorId: "user-1",
		Body:     "hello",
		Kind:     shared.PostKindPublicShare,
		Images: []shared.PostImage{
			{Id: "img-1", Reference: shared.ImageRef("img-1")},
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, s.SavePostWithImages(ctx, post, []*shared.ImageRecord{rec}))

	got, err := s.GetPost(ctx, "post-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Images, 1)
	assert.Equal(t, shared.ImageRef("img-1"), got.Images[0].Reference)

	img, err := s.GetImage(ctx, "img-1")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.True(t, bytes.Equal(rec.Data, img.Data))
	assert.False(t, img.LastAccessed.IsZero())
}

func TestImageRoundTripManyCycles(t *testing.T) {
	s := newTestStore(t, 1<<30)
	ctx := context.Background()

	for i := 0; i < 10000; i++ {
		size := 1 + (i*37)%4096
		data := make([]byte, size)
		for j := range data {
			data[j] = byte((i + j) % 251)
		}

		rec := &shared.ImageRecord{
			Id:   fmt.Sprintf("img-%d", i),
			Data: data,
			Meta: shared.ImageMeta{ByteSize: int64(size), MimeType: "application/octet-stream"},
		}
		require.NoError(t, s.SaveImage(ctx, rec))

		got, err := s.GetImage(ctx, rec.Id)
		require.NoError(t, err)
		require.NotNil(t, got)
		require.True(t, bytes.Equal(data, got.Data), "cycle %d", i)

		require.NoError(t, s.DeleteImage(ctx, rec.Id))
	}
}

func TestSaveFollowRejectsSelfFollow(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	err := s.SaveFollow(ctx, &shared.Follow{
		Id:          "f-1",
		FollowerId:  "user-1",
		FollowingId: "user-1",
	})
	require.Error(t, err)
}

func TestSaveFollowIdempotent(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	first := &shared.Follow{Id: "f-1", FollowerId: "a", FollowingId: "b", CreatedAt: time.Now()}
	require.NoError(t, s.SaveFollow(ctx, first))

	// same ordered pair under a different id must not create a second edge
	dup := &shared.Follow{Id: "f-2", FollowerId: "a", FollowingId: "b", CreatedAt: time.Now()}
	require.NoError(t, s.SaveFollow(ctx, dup))

	follows, err := s.GetAllFollows(ctx)
	require.NoError(t, err)
	assert.Len(t, follows, 1)
	assert.Equal(t, "f-1", follows[0].Id)
}

func TestSaveImageConstrainedPrefersOriginal(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	original := make([]byte, 10<<10)
	compressed := make([]byte, 5<<10)
	rec := &shared.ImageRecord{Id: "img-1", PostId: "post-1"}

	ref, err := s.SaveImageConstrained(ctx, rec, original, compressed)
	require.NoError(t, err)
	assert.Equal(t, shared.ImageRef("img-1"), ref)

	got, err := s.GetImage(ctx, "img-1")
	require.NoError(t, err)
	assert.Len(t, got.Data, 10<<10)
}

func TestSaveImageConstrainedPicksCompressed(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	// original too large to keep as-is but the compressed variant fits
	original := make([]byte, 200<<10)
	compressed := make([]byte, 60<<10)
	rec := &shared.ImageRecord{Id: "img-1", PostId: "post-1"}

	ref, err := s.SaveImageConstrained(ctx, rec, original, compressed)
	require.NoError(t, err)
	assert.Equal(t, shared.ImageRef("img-1"), ref)

	got, err := s.GetImage(ctx, "img-1")
	require.NoError(t, err)
	assert.Len(t, got.Data, 60<<10)
}

func TestSaveImageConstrainedPlaceholder(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	// both variants blow past the absolute ceiling
	original := make([]byte, 1<<20)
	compressed := make([]byte, 500<<10)
	rec := &shared.ImageRecord{Id: "img-1", PostId: "post-1"}

	ref, err := s.SaveImageConstrained(ctx, rec, original, compressed)
	require.NoError(t, err)
	assert.Equal(t, PlaceholderImageURL, ref)

	got, err := s.GetImage(ctx, "img-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestQuotaExceededShrinksAndRetries(t *testing.T) {
	// budget just big enough for one small image doc plus a trimmed posts doc
	s := newTestStore(t, 64<<10)
	ctx := context.Background()

	// fill the store with posts so the shrink has something to trim
	for i := 0; i < 40; i++ {
		post := &shared.Post{
			Id:        postId(i),
			AuthorId:  "user-1",
			Body:      strings.Repeat("x", 1024),
			Kind:      shared.PostKindPublicShare,
			CreatedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.SavePost(ctx, post))
	}

	rec := &shared.ImageRecord{Id: "img-1", PostId: postId(39)}
	ref, err := s.SaveImageConstrained(ctx, rec, make([]byte, 20<<10), nil)
	require.NoError(t, err)
	assert.Equal(t, shared.ImageRef("img-1"), ref)

	posts, err := s.GetAllPosts(ctx)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(posts), 20)
}

func postId(i int) string {
	return "post-" + string(rune('a'+i/26)) + string(rune('a'+i%26))
}

func TestCleanupOldData(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	old := time.Now().UTC().Add(-60 * 24 * time.Hour)
	fresh := time.Now().UTC()

	require.NoError(t, s.SaveImage(ctx, &shared.ImageRecord{
		Id: "img-old", Data: make([]byte, 1000),
		Meta:         shared.ImageMeta{ByteSize: 1000},
		CreatedAt:    old,
		LastAccessed: old,
	}))
	require.NoError(t, s.SaveImage(ctx, &shared.ImageRecord{
		Id: "img-fresh", Data: make([]byte, 500),
		Meta:         shared.ImageMeta{ByteSize: 500},
		CreatedAt:    fresh,
		LastAccessed: fresh,
	}))

	res, err := s.CleanupOldData(ctx, shared.CleanupOptions{})
	require.NoError(t, err)

	assert.Equal(t, 1, res.DeletedImages)
	assert.Equal(t, int64(1000), res.FreedBytes)

	gone, err := s.GetImage(ctx, "img-old")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := s.GetImage(ctx, "img-fresh")
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

func TestCleanupTrimsExcessPosts(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 8; i++ {
		require.NoError(t, s.SavePost(ctx, &shared.Post{
			Id:        postId(i),
			AuthorId:  "user-1",
			Kind:      shared.PostKindPublicShare,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	// the trimmed post owns an image that must cascade
	require.NoError(t, s.SaveImage(ctx, &shared.ImageRecord{
		Id: "img-0", PostId: postId(0), Data: make([]byte, 700),
		Meta:         shared.ImageMeta{ByteSize: 700},
		LastAccessed: base,
	}))
	oldest, err := s.GetPost(ctx, postId(0))
	require.NoError(t, err)
	oldest.Images = []shared.PostImage{{Id: "img-0", Reference: shared.ImageRef("img-0")}}
	require.NoError(t, s.SavePost(ctx, oldest))

	// comments on a trimmed post must go with it; comments on kept posts stay
	require.NoError(t, s.SaveComment(ctx, &shared.Comment{
		Id: "c-trimmed", PostId: postId(0), AuthorId: "user-1", Body: "on the oldest", Depth: 1,
	}))
	require.NoError(t, s.SaveComment(ctx, &shared.Comment{
		Id: "c-kept", PostId: postId(7), AuthorId: "user-1", Body: "on the newest", Depth: 1,
	}))

	res, err := s.CleanupOldData(ctx, shared.CleanupOptions{MaxImageAge: 365 * 24 * time.Hour, MaxPosts: 5})
	require.NoError(t, err)

	assert.Equal(t, 3, res.DeletedPosts)
	assert.Equal(t, 1, res.DeletedImages)
	assert.Equal(t, int64(700), res.FreedBytes)

	posts, err := s.GetAllPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 5)
	// newest-first retention: the oldest posts were the ones trimmed
	for _, p := range posts {
		assert.NotEqual(t, postId(0), p.Id)
	}

	orphaned, err := s.GetCommentsByPost(ctx, postId(0))
	require.NoError(t, err)
	assert.Empty(t, orphaned)

	kept, err := s.GetCommentsByPost(ctx, postId(7))
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestLegacyPresentAndDestroy(t *testing.T) {
	s := newTestStore(t, 0)
	ctx := context.Background()

	assert.False(t, s.LegacyPresent())

	require.NoError(t, s.SaveUser(ctx, &shared.User{Id: "user-1", Handle: "aria"}))
	assert.True(t, s.LegacyPresent())
	assert.Greater(t, s.TotalBytes(), int64(0))

	require.NoError(t, s.Destroy())
	assert.False(t, s.LegacyPresent())
	assert.Equal(t, int64(0), s.TotalBytes())
}
