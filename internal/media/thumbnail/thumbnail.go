// Package thumbnail crops avatars with libvips before they are uploaded. It is kept apart from
// package media because bimg links libvips through cgo.
package thumbnail

import (
	"github.com/h2non/bimg"
	"github.com/petermazzocco/murmur-api/internal/media"
)

// Thumbnailer crops images to a Size x Size square. GIFs pass through untouched since libvips
// builds without gifsave cannot write them back.
type Thumbnailer struct {
	Size int
}

var _ media.Resizer = Thumbnailer{}

func (t Thumbnailer) Resize(img media.Image) ([]byte, error) {
	if t.Size <= 0 || img.Ext == "gif" {
		return img.Data, nil
	}
	return bimg.NewImage(img.Data).Process(bimg.Options{
		Width:   t.Size,
		Height:  t.Size,
		Crop:    true,
		Gravity: bimg.GravitySmart,
	})
}
