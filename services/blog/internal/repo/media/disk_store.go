package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskStore writes images into dir, which is served under publicPath.
type DiskStore struct {
	dir        string
	publicPath string
}

func NewDiskStore(dir, publicPath string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create images directory: %w", err)
	}
	return &DiskStore{dir: dir, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) PublicPath() string {
	return s.publicPath
}

func (s *DiskStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	name := generateName(filename, contentType, data)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}
	return path.Join(s.publicPath, name), nil
}

// Delete ignores references that do not point at a file directly under the store.
func (s *DiskStore) Delete(ctx context.Context, ref string) error {
	name, ok := strings.CutPrefix(ref, s.publicPath+"/")
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("image %q is not in the image store", ref)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}
