package shared

import (
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"
)

// Managed image references are opaque strings of the form
// fingnet-image://<id>. Anything else (an ordinary remote URL, a data URI)
// passes through the storage layer untouched.

const ImageRefScheme = "fingnet-image://"

func ImageRef(id string) string {
	return ImageRefScheme + id
}

func IsImageRef(ref string) bool {
	return strings.HasPrefix(ref, ImageRefScheme)
}

// ParseImageRef returns the record id for a managed reference, or ok=false
// for any other string.
func ParseImageRef(ref string) (string, bool) {
	if !IsImageRef(ref) {
		return "", false
	}
	id := strings.TrimPrefix(ref, ImageRefScheme)
	if id == "" {
		return "", false
	}
	return id, true
}

// IsInlineImage reports whether a legacy reference holds an inline
// base64-encoded payload rather than a URL or managed reference.
func IsInlineImage(ref string) bool {
	return strings.HasPrefix(ref, "data:")
}

// DecodeInlineImage splits a data URI into its payload and mime type.
func DecodeInlineImage(ref string) ([]byte, string, error) {
	if !IsInlineImage(ref) {
		return nil, "", fmt.Errorf("not an inline image reference")
	}
	rest := strings.TrimPrefix(ref, "data:")
	sep := strings.Index(rest, ",")
	if sep < 0 {
		return nil, "", fmt.Errorf("malformed data URI")
	}
	header := rest[:sep]
	payload := rest[sep+1:]

	mimeType := header
	if i := strings.Index(header, ";"); i >= 0 {
		mimeType = header[:i]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", fmt.Errorf("error decoding inline image: %v", err)
	}
	return data, mimeType, nil
}

func EncodeInlineImage(data []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

func ImageMimeType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	return ""
}
