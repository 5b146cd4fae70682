package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const adminTokenHeader = "x-admin-token"

type Content struct {
	Kind       string   `json:"kind"`
	Text       string   `json:"text,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
}

type Post struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Content Content   `json:"content"`
	Date    time.Time `json:"date"`
	Image   string    `json:"image,omitempty"`
}

// NewPost is a submission. Image is optional; when set it is sent as multipart.
type NewPost struct {
	Title     string
	Content   string
	Image     []byte
	ImageName string
}

// APIError is a non-2xx answer from the posts API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL    string
	adminToken string
	httpClient *http.Client
}

func New(baseURL, adminToken string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/posts", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	var posts []Post
	if err := c.do(req, http.StatusOK, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) CreatePost(ctx context.Context, post NewPost) (*Post, error) {
	body, contentType, err := encodePost(post)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/posts", body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.adminToken != "" {
		req.Header.Set(adminTokenHeader, c.adminToken)
	}

	var created Post
	if err := c.do(req, http.StatusCreated, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func encodePost(post NewPost) (io.Reader, string, error) {
	if post.Image == nil {
		data, err := json.Marshal(map[string]string{"title": post.Title, "content": post.Content})
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode post: %w", err)
		}
		return bytes.NewReader(data), "application/json", nil
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if err := writer.WriteField("title", post.Title); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("content", post.Content); err != nil {
		return nil, "", err
	}

	name := post.ImageName
	if name == "" {
		name = "image"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, name))
	header.Set("Content-Type", mimetype.Detect(post.Image).String())
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image part: %w", err)
	}
	if _, err := part.Write(post.Image); err != nil {
		return nil, "", fmt.Errorf("failed to write image part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}

func (c *Client) do(req *http.Request, want int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		return &APIError{StatusCode: resp.StatusCode, Message: errBody.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
