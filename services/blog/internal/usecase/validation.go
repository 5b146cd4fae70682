package usecase

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"blog/services/blog/internal/entity"

	"github.com/gabriel-vasile/mimetype"
)

// Rules bound what a submission may contain.
type Rules struct {
	MinTitleLength   int
	MinContentLength int
	MaxImageSize     int64
}

func DefaultRules() Rules {
	return Rules{
		MinTitleLength:   5,
		MinContentLength: 20,
		MaxImageSize:     5 * 1024 * 1024,
	}
}

// ImageUpload is an attachment as received. Size is the declared size, Reader the bytes.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// ValidatePost trims the fields and checks them against rules. This is the only
// authoritative check; the create form repeats the non-empty part for convenience.
func ValidatePost(title string, content entity.Content, rules Rules) (string, entity.Content, error) {
	title = strings.TrimSpace(title)
	content = normalizeContent(content)

	if title == "" || content.IsEmpty() {
		return "", entity.Content{}, entity.NewValidationError("", "Title and content are required.")
	}

	if n := utf8.RuneCountInString(title); n < rules.MinTitleLength {
		return "", entity.Content{}, entity.NewValidationError("title",
			"Title must be at least %d characters long.", rules.MinTitleLength)
	}

	if n := utf8.RuneCountInString(content.String()); n < rules.MinContentLength {
		return "", entity.Content{}, entity.NewValidationError("content",
			"Content must be at least %d characters long.", rules.MinContentLength)
	}

	return title, content, nil
}

func normalizeContent(c entity.Content) entity.Content {
	if c.Kind != entity.ContentParagraphs {
		return entity.TextContent(strings.TrimSpace(c.Text))
	}

	paragraphs := make([]string, 0, len(c.Paragraphs))
	for _, p := range c.Paragraphs {
		if p = strings.TrimSpace(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return entity.ParagraphContent(paragraphs...)
}

// ReadImage enforces the size ceiling and the image content type, and returns the
// bytes with the effective content type. A missing declared type is sniffed.
func ReadImage(upload *ImageUpload, maxSize int64) ([]byte, string, error) {
	if upload.Size > maxSize {
		return nil, "", imageTooLarge(maxSize)
	}

	contentType := strings.ToLower(strings.TrimSpace(upload.ContentType))
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, "", entity.NewValidationError("image", "Only image files are allowed.")
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(upload.Reader, maxSize+1)); err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(buf.Len()) > maxSize {
		return nil, "", imageTooLarge(maxSize)
	}

	if contentType == "" {
		contentType = mimetype.Detect(buf.Bytes()).String()
		if !strings.HasPrefix(contentType, "image/") {
			return nil, "", entity.NewValidationError("image", "Only image files are allowed.")
		}
	}

	return buf.Bytes(), contentType, nil
}

func imageTooLarge(maxSize int64) error {
	return entity.NewValidationError("image", "File size must be less than %s.", formatSize(maxSize))
}

func formatSize(n int64) string {
	const mib = 1024 * 1024
	if n >= mib && n%mib == 0 {
		return fmt.Sprintf("%dMB", n/mib)
	}
	if n >= 1024 && n%1024 == 0 {
		return fmt.Sprintf("%dKB", n/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}
