package service

import "context"

// StoredFile is the result of a successful object-storage write.
type StoredFile struct {
	URL string // Publicly reachable URL of the stored object.
	Key string // Storage key within the bucket.
}

// FileStorage defines the object-storage collaborator used for image upload.
// It accepts raw bytes plus metadata and returns the public URL and key.
type FileStorage interface {
	// Upload writes the payload under a generated key derived from filename
	// and returns where it landed.
	Upload(ctx context.Context, filename, contentType string, payload []byte) (*StoredFile, error)
}
