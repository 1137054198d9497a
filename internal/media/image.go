package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp"
)

const DefaultMaxDimension = 6000

var (
	ErrEmptyUpload      = errors.New("media: empty upload")
	ErrTooLarge         = errors.New("media: file exceeds size limit")
	ErrUnsupportedImage = errors.New("media: unsupported image format")
	ErrImageDimensions  = errors.New("media: image dimensions out of range")
)

type Upload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type Image struct {
	Bytes       []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// ImageInspector validates uploads by decoding only the image header.
type ImageInspector struct {
	maxBytes     int64
	maxDimension int
}

func NewImageInspector(maxBytes int64, maxDimension int) *ImageInspector {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &ImageInspector{maxBytes: maxBytes, maxDimension: maxDimension}
}

func (i *ImageInspector) Inspect(upload Upload) (*Image, error) {
	data, err := readLimited(upload.Reader, i.maxBytes)
	if err != nil {
		return nil, err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width > i.maxDimension || cfg.Height > i.maxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageDimensions, cfg.Width, cfg.Height)
	}

	contentType, ext, ok := imageFormat(format)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}
	return &Image{
		Bytes:       data,
		ContentType: contentType,
		Extension:   ext,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func imageFormat(format string) (contentType, ext string, ok bool) {
	switch format {
	case "jpeg":
		return "image/jpeg", ".jpg", true
	case "png":
		return "image/png", ".png", true
	case "gif":
		return "image/gif", ".gif", true
	case "webp":
		return "image/webp", ".webp", true
	}
	return "", "", false
}

func readLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	if r == nil {
		return nil, ErrEmptyUpload
	}
	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("media: read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
