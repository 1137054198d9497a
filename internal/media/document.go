package media

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

var ErrUnsupportedDocument = errors.New("media: unsupported document type")

type Document struct {
	Bytes       []byte
	ContentType string
	Extension   string
}

// InspectCV accepts PDF and Word documents up to maxBytes.
func InspectCV(upload Upload, maxBytes int64) (*Document, error) {
	data, err := readLimited(upload.Reader, maxBytes)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	sniffed := http.DetectContentType(data)
	switch {
	case ext == ".pdf" && strings.HasPrefix(sniffed, "application/pdf"):
		return &Document{Bytes: data, ContentType: "application/pdf", Extension: ext}, nil
	case ext == ".docx" && strings.HasPrefix(sniffed, "application/zip"):
		return &Document{Bytes: data, ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Extension: ext}, nil
	case ext == ".doc" && strings.HasPrefix(sniffed, "application/octet-stream"):
		return &Document{Bytes: data, ContentType: "application/msword", Extension: ext}, nil
	}
	return nil, ErrUnsupportedDocument
}
