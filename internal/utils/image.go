package utils

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

const (
	// ThumbnailSize is the bounding box thumbnails are fitted into.
	ThumbnailSize    = 256
	thumbnailQuality = 80
)

// IsImage reports whether the mime type is a raster image we can thumbnail.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") && mimeType != "image/svg+xml"
}

// RenderThumbnail decodes an image and renders a JPEG thumbnail fitted into
// the ThumbnailSize box, preserving aspect ratio and EXIF orientation.
func RenderThumbnail(input io.Reader) ([]byte, error) {
	img, err := imaging.Decode(input, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	thumb := imaging.Fit(img, ThumbnailSize, ThumbnailSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.JPEG, imaging.JPEGQuality(thumbnailQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %v", err)
	}
	return buf.Bytes(), nil
}

// ImageDimensions reads the pixel size of an encoded image without fully
// decoding it.
func ImageDimensions(data []byte) (int, int, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image dimensions: %v", err)
	}
	return cfg.Width, cfg.Height, nil
}
