package media

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ImageStore persists uploaded images. Save returns the reference stored on the post.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, ref string) error
}

// imageExtensions are the only extensions written to the store. Static serving picks
// the response type from the extension, so markup types such as .html and .svg never get in.
var imageExtensions = map[string]bool{
	".avif": true,
	".bmp":  true,
	".gif":  true,
	".ico":  true,
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".webp": true,
}

// fallbackExtension is served as application/octet-stream.
const fallbackExtension = ".bin"

func generateName(filename, contentType string, data []byte) string {
	return uuid.New().String() + imageExtension(filename, contentType, data)
}

// imageExtension keeps the uploaded file's extension when it is a known image
// extension, otherwise derives one from the declared type or the bytes.
func imageExtension(filename, contentType string, data []byte) string {
	if ext := strings.ToLower(filepath.Ext(filename)); imageExtensions[ext] {
		return ext
	}
	if m := mimetype.Lookup(contentType); m != nil && imageExtensions[m.Extension()] {
		return m.Extension()
	}
	if ext := mimetype.Detect(data).Extension(); imageExtensions[ext] {
		return ext
	}
	return fallbackExtension
}
