package http

import (
	"net/http"
	"strings"
	"time"

	"blog/pkg/logger"
	"blog/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
)

const feedItemLimit = 20

type FeedHandler struct {
	postUseCase   usecase.PostUseCase
	logger        *logger.Logger
	site          SiteInfo
	snippetLength int
}

func NewFeedHandler(postUseCase usecase.PostUseCase, logger *logger.Logger, site SiteInfo, snippetLength int) *FeedHandler {
	return &FeedHandler{
		postUseCase:   postUseCase,
		logger:        logger,
		site:          site,
		snippetLength: snippetLength,
	}
}

// RSS godoc
// @Summary      RSS feed
// @Description  The newest posts as an RSS 2.0 feed.
// @Tags         feed
// @Produce      xml
// @Success      200  {string}  string
// @Router       /rss.xml [get]
func (h *FeedHandler) RSS(c *gin.Context) {
	posts, err := h.postUseCase.ListPosts(c.Request.Context(), feedItemLimit)
	if err != nil {
		h.logger.Error("Failed to load posts for feed: %v", err)
		c.String(http.StatusInternalServerError, "Failed to build feed")
		return
	}

	base := strings.TrimRight(h.site.URL, "/")
	feed := &feeds.Feed{
		Title:       h.site.Title,
		Link:        &feeds.Link{Href: base + "/"},
		Description: "Latest posts from " + h.site.Title,
		Author:      &feeds.Author{Name: h.site.AuthorName},
		Created:     time.Now().UTC(),
	}
	if len(posts) > 0 {
		feed.Created = posts[0].CreatedAt
	}

	for _, post := range posts {
		link := base + "/posts/" + post.ID
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          link,
			Title:       post.Title,
			Link:        &feeds.Link{Href: link},
			Description: post.Content.Snippet(h.snippetLength),
			Created:     post.CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		h.logger.Error("Failed to render feed: %v", err)
		c.String(http.StatusInternalServerError, "Failed to build feed")
		return
	}

	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
