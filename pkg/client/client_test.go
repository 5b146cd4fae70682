package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01")

func TestListPosts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/posts", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"id":"2","title":"Second","content":{"kind":"text","text":"b"},"date":"2024-03-02T10:00:00Z"}]`)
	}))
	defer server.Close()

	posts, err := New(server.URL+"/", "").ListPosts(context.Background())

	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "2", posts[0].ID)
	assert.Equal(t, "text", posts[0].Content.Kind)
	assert.Equal(t, 2024, posts[0].Date.Year())
}

func TestCreatePost_JSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get(adminTokenHeader))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hello world", body["title"])

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"1","title":"Hello world","content":{"kind":"text","text":"x"},"date":"2024-03-01T10:00:00Z"}`)
	}))
	defer server.Close()

	post, err := New(server.URL, "secret").CreatePost(context.Background(), NewPost{
		Title:   "Hello world",
		Content: "Some content that is long enough.",
	})

	require.NoError(t, err)
	assert.Equal(t, "1", post.ID)
}

func TestCreatePost_Multipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "With image", r.FormValue("title"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cat.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))

		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"id":"5","title":"With image","content":{"kind":"text","text":"x"},"date":"2024-03-01T10:00:00Z","image":"/images/a.png"}`)
	}))
	defer server.Close()

	post, err := New(server.URL, "").CreatePost(context.Background(), NewPost{
		Title:     "With image",
		Content:   "Some content that is long enough.",
		Image:     pngBytes,
		ImageName: "cat.png",
	})

	require.NoError(t, err)
	assert.Equal(t, "/images/a.png", post.Image)
}

func TestCreatePost_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Title and content are required."}`)
	}))
	defer server.Close()

	_, err := New(server.URL, "").CreatePost(context.Background(), NewPost{})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Title and content are required.", apiErr.Message)
}
