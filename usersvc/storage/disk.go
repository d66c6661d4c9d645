package storage

import (
	"os"
	"path/filepath"

	"github.com/taskfolio/taskfolio/usersvc"
)

type diskStore struct {
	dir string
}

// NewDiskStore writes avatars under dir, creating it on first use. The
// same directory is served back at the static files route.
func NewDiskStore(dir string) usersvc.AvatarStore {
	return &diskStore{dir: dir}
}

func (s *diskStore) Write(filename string, data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(s.dir, filename), data, 0o644)
}
