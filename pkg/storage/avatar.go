// Package storage holds uploaded avatar images. The disk store keeps files
// under a single directory served statically at /uploads; the interface
// exists so the service layer never touches the filesystem directly.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type AvatarStore interface {
	// Save writes the image and returns the public reference (URL path).
	Save(ownerID, ext string, r io.Reader) (string, error)
	// Delete removes a previously stored image by its public reference.
	Delete(ref string) error
}

type DiskAvatarStore struct {
	dir       string
	publicDir string
}

func NewDiskAvatarStore(dir string) (*DiskAvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskAvatarStore{
		dir:       dir,
		publicDir: "/uploads",
	}, nil
}

func (s *DiskAvatarStore) Save(ownerID, ext string, r io.Reader) (string, error) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	switch ext {
	case "jpg", "jpeg", "png":
	default:
		return "", fmt.Errorf("unsupported image format: %q", ext)
	}

	name := fmt.Sprintf("avatar_%s_%s.%s", ownerID, uuid.NewString(), ext)

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return path.Join(s.publicDir, name), nil
}

func (s *DiskAvatarStore) Delete(ref string) error {
	name := path.Base(ref)
	// Base() already strips any directory part; an empty or dot name means
	// the stored reference was never ours.
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid avatar reference: %q", ref)
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete avatar file: %w", err)
	}
	return nil
}
