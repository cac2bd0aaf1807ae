package contracts

import "context"

// ImageStore persists image bytes under a server-chosen name.
type ImageStore interface {
	// Store writes data with the given extension (".jpg", ".png", ...) and returns
	// a web-addressable path. I/O failures wrap domain.ErrStorage.
	Store(ctx context.Context, data []byte, ext string) (string, error)

	// Remove deletes an image previously returned by Store.
	Remove(ctx context.Context, url string) error
}
