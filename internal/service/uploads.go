package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/njprem/Estate_Site_BackEnd/internal/media"
	"github.com/njprem/Estate_Site_BackEnd/internal/repository/ports"
)

var ErrStorageUnavailable = errors.New("file storage is not configured")

// storeImage validates an image upload and writes it under prefix/<owner>/.
func storeImage(ctx context.Context, storage ports.ObjectStorage, inspector *media.ImageInspector, bucket, prefix string, owner uuid.UUID, upload media.Upload, now time.Time) (string, error) {
	if storage == nil || inspector == nil {
		return "", ErrStorageUnavailable
	}
	img, err := inspector.Inspect(upload)
	if err != nil {
		return "", mediaError(err)
	}
	objectKey := fmt.Sprintf("%s/%s/%s_%s%s", prefix, owner, now.UTC().Format("20060102T150405Z"), uuid.NewString()[:8], img.Extension)
	url, err := storage.Upload(ctx, bucket, objectKey, img.ContentType, bytes.NewReader(img.Bytes), int64(len(img.Bytes)))
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", objectKey, err)
	}
	return url, nil
}

func mediaError(err error) error {
	switch {
	case errors.Is(err, media.ErrEmptyUpload):
		return validationError("file is empty")
	case errors.Is(err, media.ErrTooLarge):
		return validationError("file exceeds the size limit")
	case errors.Is(err, media.ErrUnsupportedImage):
		return validationError("image must be jpeg, png, gif or webp")
	case errors.Is(err, media.ErrImageDimensions):
		return validationError("image dimensions are out of range")
	case errors.Is(err, media.ErrUnsupportedDocument):
		return validationError("cv must be a pdf, doc or docx file")
	}
	return err
}

func parseIDOrSlug(value string) (uuid.UUID, string, bool) {
	if id, err := uuid.Parse(value); err == nil {
		return id, "", true
	}
	return uuid.Nil, value, false
}
