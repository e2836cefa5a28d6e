package imageproc

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"fingnet-server/shared"
)

// Processed is the result of running a source image through the selected
// compression tier. Primary holds the bytes that should be persisted;
// Thumbnail is always produced at the fixed thumbnail cap.
type Processed struct {
	Primary          []byte
	Thumbnail        []byte
	Meta             shared.ImageMeta
	Strategy         Strategy
	WasCompressed    bool
	CompressionRatio float64
}

// Process decodes the source, applies the tier picked by SelectStrategy and
// produces a primary variant plus a thumbnail. If the source cannot be
// decoded as an image the whole operation fails; nothing partial comes back.
func Process(data []byte, name string) (*Processed, error) {
	strategy := SelectStrategy(int64(len(data)))

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &shared.ApiError{
			Type:   shared.ApiErrorTypeDecode,
			Status: http.StatusUnprocessableEntity,
			Msg:    fmt.Sprintf("error decoding image %q: %v", name, err),
		}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	primary := data
	outWidth, outHeight := width, height
	wasCompressed := false

	if strategy.Tier != TierNone {
		scaled, w, h := scaleToFit(img, strategy.MaxDimension, strategy.MaxDimension)
		encoded, err := encodeJpeg(scaled, strategy.Quality)
		if err != nil {
			return nil, fmt.Errorf("error encoding primary variant: %v", err)
		}
		primary = encoded
		outWidth, outHeight = w, h
		wasCompressed = true
	}

	thumbImg, _, _ := scaleToFit(img, thumbMaxWidth, thumbMaxHeight)
	thumbnail, err := encodeJpeg(thumbImg, thumbQuality)
	if err != nil {
		return nil, fmt.Errorf("error encoding thumbnail: %v", err)
	}

	mimeType := shared.ImageMimeType(name)
	if wasCompressed {
		mimeType = "image/jpeg"
	} else if mimeType == "" {
		mimeType = mimeForFormat(format, data)
	}

	ratio := 1.0
	if len(data) > 0 {
		ratio = float64(len(primary)) / float64(len(data))
	}

	return &Processed{
		Primary:   primary,
		Thumbnail: thumbnail,
		Meta: shared.ImageMeta{
			OriginalName: name,
			ByteSize:     int64(len(primary)),
			MimeType:     mimeType,
			Width:        outWidth,
			Height:       outHeight,
		},
		Strategy:         strategy,
		WasCompressed:    wasCompressed,
		CompressionRatio: ratio,
	}, nil
}

// scaleToFit resizes so neither dimension exceeds its cap, preserving aspect
// ratio. The scale factor is clamped to 1 so images are never upscaled.
func scaleToFit(img image.Image, maxWidth, maxHeight int) (image.Image, int, int) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	scale := 1.0
	if maxWidth > 0 && width > maxWidth {
		scale = float64(maxWidth) / float64(width)
	}
	if maxHeight > 0 && height > maxHeight {
		s := float64(maxHeight) / float64(height)
		if s < scale {
			scale = s
		}
	}

	if scale >= 1.0 {
		return img, width, height
	}

	outWidth := int(float64(width) * scale)
	outHeight := int(float64(height) * scale)
	if outWidth < 1 {
		outWidth = 1
	}
	if outHeight < 1 {
		outHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, outWidth, outHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst, outWidth, outHeight
}

func encodeJpeg(img image.Image, quality float64) ([]byte, error) {
	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: int(quality * 100)})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func mimeForFormat(format string, data []byte) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	}
	return http.DetectContentType(data)
}
