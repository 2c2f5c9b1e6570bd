package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"imageshare.com/internal/domain"
)

// LocalStore keeps image payloads on the local filesystem, one file per
// image, named img-<id>.<ext> under the root directory.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image dir %s: %w", root, err)
	}
	return &LocalStore{root: root}, nil
}

// PathFor returns the path of a payload relative to nothing in particular;
// it is the on-disk location used by Write/Open/Remove.
func (s *LocalStore) PathFor(id uint, ext string) string {
	return filepath.Join(s.root, fmt.Sprintf("img-%d.%s", id, ext))
}

// Write stores the payload. The bytes land in a temp file first and are
// renamed into place, so readers never observe a partially written image.
func (s *LocalStore) Write(id uint, ext string, r io.Reader) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, "upload-*")
	if err != nil {
		return err
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), s.PathFor(id, ext))
}

func (s *LocalStore) Open(id uint, ext string) (io.ReadCloser, error) {
	return os.Open(s.PathFor(id, ext))
}

func (s *LocalStore) Remove(id uint, ext string) error {
	err := os.Remove(s.PathFor(id, ext))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Interface guard
var _ domain.ImageStore = (*LocalStore)(nil)
