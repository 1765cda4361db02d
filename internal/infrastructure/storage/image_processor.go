package storage

import (
	"bytes"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// =====================================================
// IMAGE PROCESSING
// =====================================================

const (
	coverMaxWidth   = 1280
	coverMaxHeight  = 720
	thumbnailWidth  = 320
	thumbnailHeight = 180
	jpegQuality     = 85
)

// ProcessedImage holds the resized cover and its thumbnail, both JPEG
type ProcessedImage struct {
	Cover     []byte
	Thumbnail []byte
}

// ProcessCoverImage decodes an uploaded image, fits it into the cover
// bounds and renders a fixed-size thumbnail.
func ProcessCoverImage(r io.Reader) (*ProcessedImage, error) {
	src, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	cover := imaging.Fit(src, coverMaxWidth, coverMaxHeight, imaging.Lanczos)
	thumbnail := imaging.Fill(src, thumbnailWidth, thumbnailHeight, imaging.Center, imaging.Lanczos)

	coverBytes, err := encodeJPEG(cover)
	if err != nil {
		return nil, err
	}
	thumbBytes, err := encodeJPEG(thumbnail)
	if err != nil {
		return nil, err
	}

	return &ProcessedImage{Cover: coverBytes, Thumbnail: thumbBytes}, nil
}

func encodeJPEG(img *image.NRGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
