// Package media stores uploaded profile images and returns the reference saved on the user.
package media

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"

	"github.com/petermazzocco/murmur-api/internal/apperr"
)

// Store persists an image and returns a reference clients can render.
type Store interface {
	Put(ctx context.Context, owner uint, img Image) (string, error)
}

// Image is a validated upload.
type Image struct {
	Filename string
	Ext      string
	MimeType string
	Data     []byte
}

var mimeTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
}

// NewImage validates the filename extension against png, jpg, jpeg and gif.
func NewImage(filename string, data []byte) (Image, error) {
	if filename == "" {
		return Image{}, apperr.Invalid("No file selected")
	}
	if len(data) == 0 {
		return Image{}, apperr.Invalid("No file provided")
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	mime, ok := mimeTypes[ext]
	if !ok {
		return Image{}, apperr.Invalid("Invalid file type. Only images are allowed (PNG, JPG, JPEG, GIF)")
	}
	return Image{Filename: filename, Ext: ext, MimeType: mime, Data: data}, nil
}

// InlineStore encodes images as data URIs. The whole payload ends up in the user row, so it
// suits development and small deployments only.
type InlineStore struct{}

func (InlineStore) Put(_ context.Context, _ uint, img Image) (string, error) {
	return DataURI(img.MimeType, img.Data), nil
}

func DataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
