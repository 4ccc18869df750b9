package driven

import "context"

// ImageStore persists captured page images as opaque byte blobs.
// The returned reference is a stable handle (typically a file URI) that can
// reload the same bytes later.
type ImageStore interface {
	// SaveImage stores the image bytes and returns a reference to them.
	SaveImage(ctx context.Context, data []byte) (string, error)

	// LoadImage reloads the bytes behind a reference.
	LoadImage(ctx context.Context, ref string) ([]byte, error)

	// DeleteImage removes the bytes behind a reference.
	// Deleting a reference that no longer exists is not an error.
	DeleteImage(ctx context.Context, ref string) error
}
