package http

import (
	"errors"
	"net/http"
	"strconv"

	"blog/pkg/logger"
	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
}

func NewPostHandler(postUseCase usecase.PostUseCase, logger *logger.Logger) *PostHandler {
	return &PostHandler{
		postUseCase: postUseCase,
		logger:      logger,
	}
}

type CreatePostRequest struct {
	Title   string         `json:"title"`
	Content entity.Content `json:"content" swaggertype:"string"`
}

// CreatePost godoc
// @Summary      Create a new post
// @Description  Create a post from a JSON body or from multipart form data with an optional image (max 5MB, image/* only).
// @Tags         posts
// @Accept       json,mpfd
// @Produce      json
// @Param        request body CreatePostRequest false "JSON submission"
// @Param        title formData string false "Post title"
// @Param        content formData string false "Post content"
// @Param        image formData file false "Image file"
// @Success      201  {object}  entity.Post
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) CreatePost(c *gin.Context) {
	input, cleanup, err := readSubmission(c)
	defer cleanup()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), input)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
			return
		}
		h.logger.Error("Failed to create post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	h.logger.Info("Created post %s", post.ID)
	c.JSON(http.StatusCreated, post)
}

// ListPosts godoc
// @Summary      List posts
// @Description  Get every post, newest first. limit caps the result.
// @Tags         posts
// @Produce      json
// @Param        limit query int false "Maximum number of posts"
// @Success      200  {array}   entity.Post
// @Failure      500  {object}  map[string]string
// @Router       /posts [get]
func (h *PostHandler) ListPosts(c *gin.Context) {
	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	posts, err := h.postUseCase.ListPosts(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to list posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPost godoc
// @Summary      Get post by ID
// @Tags         posts
// @Produce      json
// @Param        id path string true "Post ID"
// @Success      200  {object}  entity.Post
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.postUseCase.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		h.logger.Error("Failed to get post %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, post)
}

func MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}
