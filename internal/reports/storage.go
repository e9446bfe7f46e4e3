package reports

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ObjectStore persists uploaded report files and returns a URL the portal can
// serve them from.
type ObjectStore interface {
	Save(objectPath, contentType string, content io.Reader) (string, error)
}

// FileStore is an ObjectStore backed by a local directory. Uploaded objects
// are addressable under a public base URL that a reverse proxy or static
// handler serves.
type FileStore struct {
	basePath  string
	publicURL string
}

// NewFileStore creates a file-backed object store rooted at basePath.
func NewFileStore(basePath, publicURL string) *FileStore {
	return &FileStore{
		basePath:  basePath,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Save writes the object and returns its public URL. Existing objects are
// never overwritten; callers generate unique object paths.
func (fs *FileStore) Save(objectPath, contentType string, content io.Reader) (string, error) {
	fullPath := filepath.Join(fs.basePath, filepath.FromSlash(objectPath))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create storage object: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write storage object: %w", err)
	}

	return fs.publicURL + "/" + objectPath, nil
}
