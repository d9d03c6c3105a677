package media

// Resizer turns an upload into the bytes that get stored.
type Resizer interface {
	Resize(img Image) ([]byte, error)
}

type NopResizer struct{}

func (NopResizer) Resize(img Image) ([]byte, error) { return img.Data, nil }
