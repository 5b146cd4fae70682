package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"blog/pkg/logger"
	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPostUseCase is a mock implementation of PostUseCase
type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, input usecase.CreatePostInput) (*entity.Post, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) GetPost(ctx context.Context, postID string) (*entity.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) ListPosts(ctx context.Context, limit int) ([]*entity.Post, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Post), args.Error(1)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func testLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard)
}

func samplePost(id, title string, day int) *entity.Post {
	return &entity.Post{
		ID:        id,
		Title:     title,
		Content:   entity.TextContent("Some content that is long enough to pass validation."),
		CreatedAt: time.Date(2024, time.March, day, 10, 0, 0, 0, time.UTC),
	}
}

func newAPIRouter(uc usecase.PostUseCase) *gin.Engine {
	handler := NewPostHandler(uc, testLogger())
	router := setupTestRouter()
	router.HandleMethodNotAllowed = true
	router.NoMethod(MethodNotAllowed)
	router.GET("/api/posts", handler.ListPosts)
	router.POST("/api/posts", handler.CreatePost)
	router.GET("/api/posts/:id", handler.GetPost)
	return router
}

func TestCreatePost_JSON(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	created := samplePost("1710064800000", "Hello world", 10)
	mockUseCase.On("CreatePost", mock.Anything, mock.MatchedBy(func(in usecase.CreatePostInput) bool {
		return in.Title == "Hello world" && in.Content.Kind == entity.ContentText && in.Image == nil
	})).Return(created, nil)

	body := `{"title":"Hello world","content":"Some content that is long enough to pass validation."}`
	req, _ := http.NewRequest(http.MethodPost, "/api/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var got entity.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Title, got.Title)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_JSONParagraphs(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("CreatePost", mock.Anything, mock.MatchedBy(func(in usecase.CreatePostInput) bool {
		return in.Content.Kind == entity.ContentParagraphs && len(in.Content.Paragraphs) == 2
	})).Return(samplePost("2", "Paragraphs", 11), nil)

	body := `{"title":"Paragraphs","content":["First paragraph here.","Second paragraph here."]}`
	req, _ := http.NewRequest(http.MethodPost, "/api/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_MultipartWithImage(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Picture post"))
	require.NoError(t, writer.WriteField("content", "A post that carries an attached picture."))
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="photo.png"`)
	header.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	post := samplePost("3", "Picture post", 12)
	post.Image = "/images/abc.png"
	mockUseCase.On("CreatePost", mock.Anything, mock.MatchedBy(func(in usecase.CreatePostInput) bool {
		return in.Title == "Picture post" &&
			in.Image != nil &&
			in.Image.Filename == "photo.png" &&
			in.Image.ContentType == "image/png"
	})).Return(post, nil)

	req, _ := http.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"image":"/images/abc.png"`)
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_MultipartWithoutImage(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("title", "Plain post"))
	require.NoError(t, writer.WriteField("content", "A post submitted without any picture."))
	require.NoError(t, writer.Close())

	mockUseCase.On("CreatePost", mock.Anything, mock.MatchedBy(func(in usecase.CreatePostInput) bool {
		return in.Image == nil && in.Title == "Plain post"
	})).Return(samplePost("4", "Plain post", 13), nil)

	req, _ := http.NewRequest(http.MethodPost, "/api/posts", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), `"image"`)
	mockUseCase.AssertExpectations(t)
}

func TestCreatePost_ValidationError(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("CreatePost", mock.Anything, mock.Anything).
		Return(nil, entity.NewValidationError("title", "Title must be at least %d characters long.", 5))

	req, _ := http.NewRequest(http.MethodPost, "/api/posts", bytes.NewBufferString(`{"title":"Hi","content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Title must be at least 5 characters long.", response["error"])
}

func TestCreatePost_InvalidJSON(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	req, _ := http.NewRequest(http.MethodPost, "/api/posts", bytes.NewBufferString(`{"title":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request body.")
	mockUseCase.AssertNotCalled(t, "CreatePost", mock.Anything, mock.Anything)
}

func TestCreatePost_StorageError(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("CreatePost", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

	body := `{"title":"Hello world","content":"Some content that is long enough to pass validation."}`
	req, _ := http.NewRequest(http.MethodPost, "/api/posts", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to create post")
	assert.NotContains(t, w.Body.String(), "disk full")
}

func TestListPosts_Empty(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("ListPosts", mock.Anything, 0).Return([]*entity.Post{}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListPosts_Limit(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	posts := []*entity.Post{samplePost("2", "Second post", 2), samplePost("1", "First post", 1)}
	mockUseCase.On("ListPosts", mock.Anything, 2).Return(posts, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/posts?limit=2", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []entity.Post
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "2", got[0].ID)
	assert.Equal(t, "1", got[1].ID)
	mockUseCase.AssertExpectations(t)
}

func TestListPosts_InvalidLimitIgnored(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("ListPosts", mock.Anything, 0).Return([]*entity.Post{}, nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/posts?limit=abc", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestListPosts_Error(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("ListPosts", mock.Anything, 0).Return(nil, errors.New("corrupt file"))

	req, _ := http.NewRequest(http.MethodGet, "/api/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to fetch posts")
}

func TestGetPost(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("GetPost", mock.Anything, "42").Return(samplePost("42", "Answer post", 5), nil)

	req, _ := http.NewRequest(http.MethodGet, "/api/posts/42", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"42"`)
}

func TestGetPost_NotFound(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	mockUseCase.On("GetPost", mock.Anything, "missing").Return(nil, entity.ErrPostNotFound)

	req, _ := http.NewRequest(http.MethodGet, "/api/posts/missing", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Post not found")
}

func TestPosts_MethodNotAllowed(t *testing.T) {
	mockUseCase := new(MockPostUseCase)
	router := newAPIRouter(mockUseCase)

	req, _ := http.NewRequest(http.MethodDelete, "/api/posts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Contains(t, w.Body.String(), "Method not allowed")
}
