package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"blog/pkg/logger"
	"blog/pkg/middleware"
	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

const dateLayout = "02/01/2006"

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"home", "all_posts", "post", "not_found", "create_post", "about"}

type SiteInfo struct {
	Title      string
	URL        string
	AuthorName string
}

type PageConfig struct {
	Site           SiteInfo
	HomePostLimit  int
	SnippetLength  int
	AdminTokenHash string
}

type PageHandler struct {
	postUseCase usecase.PostUseCase
	logger      *logger.Logger
	cfg         PageConfig
	templates   map[string]*template.Template
}

type postSummary struct {
	ID      string
	Title   string
	Snippet string
	Date    string
}

type postView struct {
	ID         string
	Title      string
	Date       string
	Paragraphs []string
	Image      string
}

type formValues struct {
	Title   string
	Content string
}

type pageData struct {
	Site          SiteInfo
	Year          int
	Title         string
	Heading       string
	Error         string
	Posts         []postSummary
	Post          *postView
	Form          formValues
	AdminRequired bool
}

func NewPageHandler(postUseCase usecase.PostUseCase, logger *logger.Logger, cfg PageConfig) (*PageHandler, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = t
	}

	return &PageHandler{
		postUseCase: postUseCase,
		logger:      logger,
		cfg:         cfg,
		templates:   templates,
	}, nil
}

func (h *PageHandler) Home(c *gin.Context) {
	data := pageData{}

	posts, err := h.postUseCase.ListPosts(c.Request.Context(), h.cfg.HomePostLimit)
	if err != nil {
		h.logger.Error("Failed to load posts for home page: %v", err)
		data.Error = "Failed to load posts. Please try again later."
	}
	data.Posts = h.summaries(posts)

	h.render(c, http.StatusOK, "home", data)
}

func (h *PageHandler) AllPosts(c *gin.Context) {
	data := pageData{Title: "All Posts"}

	posts, err := h.postUseCase.ListPosts(c.Request.Context(), 0)
	if err != nil {
		h.logger.Error("Failed to load posts: %v", err)
		data.Error = "Failed to load posts. Please try again later."
	}
	data.Posts = h.summaries(posts)

	h.render(c, http.StatusOK, "all_posts", data)
}

func (h *PageHandler) Post(c *gin.Context) {
	post, err := h.postUseCase.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, entity.ErrPostNotFound) {
			h.render(c, http.StatusNotFound, "not_found", pageData{Title: "Post not found"})
			return
		}
		h.logger.Error("Failed to load post %s: %v", c.Param("id"), err)
		h.render(c, http.StatusInternalServerError, "not_found", pageData{
			Title:   "Error",
			Heading: "Something went wrong",
			Error:   "Failed to load the post. Please try again later.",
		})
		return
	}

	h.render(c, http.StatusOK, "post", pageData{
		Title: post.Title,
		Post: &postView{
			ID:         post.ID,
			Title:      post.Title,
			Date:       post.CreatedAt.Format(dateLayout),
			Paragraphs: post.Content.Blocks(),
			Image:      post.Image,
		},
	})
}

func (h *PageHandler) CreatePostForm(c *gin.Context) {
	h.renderForm(c, http.StatusOK, formValues{}, "")
}

// CreatePostSubmit handles the create form. Success redirects home; failures keep
// the submitted values on the form.
func (h *PageHandler) CreatePostSubmit(c *gin.Context) {
	input, cleanup, err := readSubmission(c)
	defer cleanup()

	form := formValues{Title: input.Title, Content: input.Content.String()}
	if err != nil {
		h.renderForm(c, http.StatusBadRequest, form, err.Error())
		return
	}

	if h.cfg.AdminTokenHash != "" && !middleware.CheckAdminToken(h.cfg.AdminTokenHash, c.PostForm("admin_token")) {
		h.renderForm(c, http.StatusForbidden, form, "Forbidden: Invalid admin token.")
		return
	}

	post, err := h.postUseCase.CreatePost(c.Request.Context(), input)
	if err != nil {
		var verr *entity.ValidationError
		if errors.As(err, &verr) {
			h.renderForm(c, http.StatusBadRequest, form, verr.Message)
			return
		}
		h.logger.Error("Failed to create post from form: %v", err)
		h.renderForm(c, http.StatusInternalServerError, form, "Failed to create the post.")
		return
	}

	h.logger.Info("Created post %s from form", post.ID)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *PageHandler) About(c *gin.Context) {
	h.render(c, http.StatusOK, "about", pageData{Title: "About"})
}

func (h *PageHandler) NotFound(c *gin.Context) {
	h.render(c, http.StatusNotFound, "not_found", pageData{
		Title:   "Not found",
		Heading: "Page not found",
		Error:   "The page you're looking for doesn't exist.",
	})
}

func (h *PageHandler) renderForm(c *gin.Context, status int, form formValues, message string) {
	h.render(c, status, "create_post", pageData{
		Title:         "Create a New Post",
		Error:         message,
		Form:          form,
		AdminRequired: h.cfg.AdminTokenHash != "",
	})
}

func (h *PageHandler) render(c *gin.Context, status int, name string, data pageData) {
	data.Site = h.cfg.Site
	data.Year = time.Now().Year()
	c.Render(status, render.HTML{Template: h.templates[name], Name: "layout", Data: data})
}

func (h *PageHandler) summaries(posts []*entity.Post) []postSummary {
	summaries := make([]postSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, postSummary{
			ID:      post.ID,
			Title:   post.Title,
			Snippet: post.Content.Snippet(h.cfg.SnippetLength),
			Date:    post.CreatedAt.Format(dateLayout),
		})
	}
	return summaries
}
