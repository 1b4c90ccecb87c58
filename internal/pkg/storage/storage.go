package storage

import (
	"context"
	"errors"
	"io"
)

var ErrInvalidPath = errors.New("invalid file path")

type FileStorage interface {
	// Upload stores content under path and returns the stored key.
	Upload(ctx context.Context, content io.Reader, path string, contentType string) (string, error)

	// Delete removes a stored file. Missing files are not an error.
	Delete(ctx context.Context, path string) error

	// URL returns the public URL of a stored key.
	URL(path string) string
}
