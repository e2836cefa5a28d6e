package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRefRoundTrip(t *testing.T) {
	ref := ImageRef("abc-123")
	assert.Equal(t, "fingnet-image://abc-123", ref)
	assert.True(t, IsImageRef(ref))

	id, ok := ParseImageRef(ref)
	require.True(t, ok)
	assert.Equal(t, "abc-123", id)
}

func TestParseImageRefRejectsOtherStrings(t *testing.T) {
	tests := []string{
		"",
		"https://example.com/cat.jpg",
		"data:image/png;base64,AAAA",
		"fingnet-image://",
	}
	for _, ref := range tests {
		_, ok := ParseImageRef(ref)
		assert.False(t, ok, "ref %q", ref)
	}
}

func TestInlineImageRoundTrip(t *testing.T) {
	payload := []byte{0xff, 0xd8, 0xff, 0x00}
	inline := EncodeInlineImage(payload, "image/jpeg")
	require.True(t, IsInlineImage(inline))

	data, mimeType, err := DecodeInlineImage(inline)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, "image/jpeg", mimeType)
}

func TestDecodeInlineImageErrors(t *testing.T) {
	_, _, err := DecodeInlineImage("https://example.com/cat.jpg")
	require.Error(t, err)

	_, _, err = DecodeInlineImage("data:image/jpeg;base64")
	require.Error(t, err)

	_, _, err = DecodeInlineImage("data:image/jpeg;base64,%%%")
	require.Error(t, err)
}

func TestVisibilityForKind(t *testing.T) {
	assert.Equal(t, VisibilityPublic, VisibilityForKind(PostKindPublicShare))
	assert.Equal(t, VisibilityPublic, VisibilityForKind(PostKindProfilePost))
	assert.Equal(t, VisibilityPrivate, VisibilityForKind(PostKindPrivateMemory))
}
