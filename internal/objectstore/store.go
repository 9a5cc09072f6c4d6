package objectstore

import "context"

// Store is the staging storage the transcription service reads audio from.
// One staged object belongs to exactly one transcription job.
type Store interface {
	// Upload stages the file at localPath under key.
	Upload(ctx context.Context, localPath, key string) error

	// Delete removes the staged object. Callers treat failures as
	// non-fatal cleanup errors.
	Delete(ctx context.Context, key string) error
}
