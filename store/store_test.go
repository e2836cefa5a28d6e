package store

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fingnet-server/flatstore"
	"fingnet-server/shared"
)

// newTestStorage wires the façade over a flat store in a temp dir with
// seeding disabled, so each test controls its own dataset.
func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	backend := flatstore.NewStore(t.TempDir(), 0)
	return NewWithBackend(backend, Config{SkipSeed: true})
}

func saveUser(t *testing.T, s *Storage, id, handle string) *shared.User {
	t.Helper()
	user := &shared.User{
		Id:          id,
		Handle:      handle,
		DisplayName: handle,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, s.SaveUser(context.Background(), user))
	return user
}

func savePost(t *testing.T, s *Storage, id, authorId string, kind shared.PostKind, createdAt time.Time) *shared.Post {
	t.Helper()
	post := &shared.Post{
		Id:         id,
		AuthorId:   authorId,
		Body:       "post " + id,
		Kind:       kind,
		Visibility: shared.VisibilityForKind(kind),
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
	require.NoError(t, s.backend.SavePost(context.Background(), post))
	return post
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
