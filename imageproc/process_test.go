package imageproc

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fingnet-server/shared"
)

// pngBytes encodes a width x height PNG. Noisy pixels keep the encoding
// close to raw size, flat pixels compress to almost nothing.
func pngBytes(t *testing.T, width, height int, noisy bool) []byte {
	t.Helper()

	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if noisy {
				img.Set(x, y, color.RGBA{
					R: uint8(rng.Intn(256)),
					G: uint8(rng.Intn(256)),
					B: uint8(rng.Intn(256)),
					A: 255,
				})
			} else {
				img.Set(x, y, color.RGBA{R: 40, G: 90, B: 200, A: 255})
			}
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestProcessSmallImagePassesThrough(t *testing.T) {
	data := pngBytes(t, 100, 80, false)
	require.LessOrEqual(t, len(data), 500<<10)

	res, err := Process(data, "small.png")
	require.NoError(t, err)

	assert.Equal(t, TierNone, res.Strategy.Tier)
	assert.False(t, res.WasCompressed)
	assert.Equal(t, data, res.Primary)
	assert.Equal(t, 1.0, res.CompressionRatio)
	assert.Equal(t, "image/png", res.Meta.MimeType)
	assert.Equal(t, 100, res.Meta.Width)
	assert.Equal(t, 80, res.Meta.Height)
	assert.NotEmpty(t, res.Thumbnail)
}

func TestProcessLargeImageAggressive(t *testing.T) {
	// random pixels are effectively incompressible, so 1200x1200 RGBA comes
	// out well past the 3MiB threshold
	data := pngBytes(t, 1200, 1200, true)
	require.Greater(t, len(data), 3<<20)

	res, err := Process(data, "large.png")
	require.NoError(t, err)

	assert.Equal(t, TierAggressive, res.Strategy.Tier)
	assert.True(t, res.WasCompressed)
	assert.LessOrEqual(t, res.Meta.Width, 800)
	assert.LessOrEqual(t, res.Meta.Height, 800)
	assert.Equal(t, "image/jpeg", res.Meta.MimeType)
	assert.Less(t, len(res.Primary), len(data))
	assert.Less(t, res.CompressionRatio, 1.0)
}

func TestProcessCapsBothDimensions(t *testing.T) {
	// a tall, narrow source must be bounded on its longer side too
	data := pngBytes(t, 500, 2400, true)
	require.Greater(t, len(data), 3<<20)

	res, err := Process(data, "tall.png")
	require.NoError(t, err)

	assert.Equal(t, TierAggressive, res.Strategy.Tier)
	assert.LessOrEqual(t, res.Meta.Width, 800)
	assert.LessOrEqual(t, res.Meta.Height, 800)
}

func TestProcessNeverUpscales(t *testing.T) {
	// small dimensions but padded past the light threshold so a resize tier
	// applies; dimensions must not grow
	small := pngBytes(t, 400, 300, true)
	padded := append(small, make([]byte, (1<<20)-len(small)+1)...)

	res, err := Process(padded, "padded.png")
	require.NoError(t, err)

	assert.Equal(t, TierStandard, res.Strategy.Tier)
	assert.Equal(t, 400, res.Meta.Width)
	assert.Equal(t, 300, res.Meta.Height)
}

func TestProcessThumbnailCapped(t *testing.T) {
	data := pngBytes(t, 100, 80, false)

	res, err := Process(data, "small.png")
	require.NoError(t, err)

	thumb, _, err := image.Decode(bytes.NewReader(res.Thumbnail))
	require.NoError(t, err)
	assert.LessOrEqual(t, thumb.Bounds().Dx(), 300)
	assert.LessOrEqual(t, thumb.Bounds().Dy(), 300)
}

func TestProcessUndecodableInput(t *testing.T) {
	_, err := Process([]byte("definitely not an image"), "garbage.png")
	require.Error(t, err)

	apiErr, ok := err.(*shared.ApiError)
	require.True(t, ok)
	assert.Equal(t, shared.ApiErrorTypeDecode, apiErr.Type)
}
