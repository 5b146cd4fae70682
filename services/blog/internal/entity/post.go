package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

var ErrPostNotFound = errors.New("post not found")

type ContentKind string

const (
	ContentText       ContentKind = "text"
	ContentParagraphs ContentKind = "paragraphs"
)

// Content is either a single text blob or an ordered list of paragraphs.
type Content struct {
	Kind       ContentKind `json:"kind"`
	Text       string      `json:"text,omitempty"`
	Paragraphs []string    `json:"paragraphs,omitempty"`
}

func TextContent(text string) Content {
	return Content{Kind: ContentText, Text: text}
}

func ParagraphContent(paragraphs ...string) Content {
	return Content{Kind: ContentParagraphs, Paragraphs: paragraphs}
}

// String joins paragraphs with newlines.
func (c Content) String() string {
	if c.Kind == ContentParagraphs {
		return strings.Join(c.Paragraphs, "\n")
	}
	return c.Text
}

// Blocks splits the content into displayable paragraphs, dropping blank lines.
func (c Content) Blocks() []string {
	var lines []string
	if c.Kind == ContentParagraphs {
		lines = c.Paragraphs
	} else {
		lines = strings.Split(strings.ReplaceAll(c.Text, "\r\n", "\n"), "\n")
	}

	blocks := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			blocks = append(blocks, line)
		}
	}
	return blocks
}

// Snippet returns at most limit runes of the content followed by "..." when cut.
func (c Content) Snippet(limit int) string {
	s := c.String()
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

func (c Content) IsEmpty() bool {
	return strings.TrimSpace(c.String()) == ""
}

// UnmarshalJSON accepts the tagged form as well as a bare string or string array.
func (c *Content) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = TextContent(text)
		return nil
	}

	var paragraphs []string
	if err := json.Unmarshal(data, &paragraphs); err == nil {
		*c = ParagraphContent(paragraphs...)
		return nil
	}

	type tagged Content
	var t tagged
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("content must be a string, an array of strings or a tagged object: %w", err)
	}
	switch t.Kind {
	case ContentText, ContentParagraphs:
	case "":
		t.Kind = ContentText
		if len(t.Paragraphs) > 0 {
			t.Kind = ContentParagraphs
		}
	default:
		return fmt.Errorf("unknown content kind %q", t.Kind)
	}
	*c = Content(t)
	return nil
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   Content   `json:"content"`
	CreatedAt time.Time `json:"date"`
	Image     string    `json:"image,omitempty"`
}

// SortByDateDesc orders posts newest first. Equal dates fall back to ID, descending.
func SortByDateDesc(posts []*Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
