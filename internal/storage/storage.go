package storage

import "context"

// Storage persists uploaded post images and returns the public URL the
// rendered page should reference. Format validation happens before this
// layer; storage only ever sees accepted bytes.
type Storage interface {
	SaveImage(ctx context.Context, data []byte, ownerID, filename string) (string, error)
}
