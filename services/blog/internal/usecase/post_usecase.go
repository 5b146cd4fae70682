package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"blog/pkg/logger"
	"blog/pkg/queue"
	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/repo/media"
	"blog/services/blog/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const postCacheTTL = 24 * time.Hour

// timePrecision is the coarsest resolution among the backends (BSON dates).
const timePrecision = time.Millisecond

type CreatePostInput struct {
	Title   string
	Content entity.Content
	Image   *ImageUpload
}

type PostUseCase interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*entity.Post, error)
	GetPost(ctx context.Context, postID string) (*entity.Post, error)
	ListPosts(ctx context.Context, limit int) ([]*entity.Post, error)
}

// EventPublisher receives post_created events. queue.Client implements it.
type EventPublisher interface {
	PublishPostEvent(ctx context.Context, event queue.PostEvent) error
}

type postUseCase struct {
	postRepo    persistent.PostRepository
	images      media.ImageStore
	redisClient *redis.Client
	publisher   EventPublisher
	rules       Rules
	logger      *logger.Logger
	now         func() time.Time
}

// NewPostUseCase wires the post operations. redisClient and publisher may be nil.
func NewPostUseCase(
	postRepo persistent.PostRepository,
	images media.ImageStore,
	redisClient *redis.Client,
	publisher EventPublisher,
	rules Rules,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:    postRepo,
		images:      images,
		redisClient: redisClient,
		publisher:   publisher,
		rules:       rules,
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, input CreatePostInput) (*entity.Post, error) {
	title, content, err := ValidatePost(input.Title, input.Content, uc.rules)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
	)
	if input.Image != nil {
		data, contentType, err = ReadImage(input.Image, uc.rules.MaxImageSize)
		if err != nil {
			return nil, err
		}
	}

	post := &entity.Post{
		Title:     title,
		Content:   content,
		CreatedAt: uc.now().UTC().Truncate(timePrecision),
	}

	if input.Image != nil {
		ref, err := uc.images.Save(ctx, input.Image.Filename, contentType, data)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
		post.Image = ref
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		if post.Image != "" {
			uc.removeOrphan(post.Image)
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	uc.cachePost(ctx, post)

	if uc.publisher != nil {
		go uc.publishCreated(*post)
	}

	return post, nil
}

func (uc *postUseCase) GetPost(ctx context.Context, postID string) (*entity.Post, error) {
	if post, ok := uc.cachedPost(ctx, postID); ok {
		return post, nil
	}

	post, err := uc.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	uc.cachePost(ctx, post)
	return post, nil
}

// ListPosts returns every post newest first, capped at limit when limit > 0.
func (uc *postUseCase) ListPosts(ctx context.Context, limit int) ([]*entity.Post, error) {
	posts, err := uc.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if posts == nil {
		posts = []*entity.Post{}
	}

	entity.SortByDateDesc(posts)

	if limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// removeOrphan deletes an image whose post was never stored. It runs on its own
// context so a cancelled request still cleans up.
func (uc *postUseCase) removeOrphan(ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := uc.images.Delete(ctx, ref); err != nil {
		uc.logger.Error("Failed to remove orphaned image %s: %v", ref, err)
		return
	}
	uc.logger.Warn("Removed orphaned image %s after failed post write", ref)
}

func postCacheKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}

// Posts are never edited, so a cached copy cannot go stale.
func (uc *postUseCase) cachePost(ctx context.Context, post *entity.Post) {
	if uc.redisClient == nil {
		return
	}

	data, err := json.Marshal(post)
	if err != nil {
		uc.logger.Warn("Failed to encode post %s for cache: %v", post.ID, err)
		return
	}
	if err := uc.redisClient.Set(ctx, postCacheKey(post.ID), data, postCacheTTL).Err(); err != nil {
		uc.logger.Warn("Failed to cache post %s: %v", post.ID, err)
	}
}

func (uc *postUseCase) cachedPost(ctx context.Context, postID string) (*entity.Post, bool) {
	if uc.redisClient == nil {
		return nil, false
	}

	data, err := uc.redisClient.Get(ctx, postCacheKey(postID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			uc.logger.Warn("Failed to read cached post %s: %v", postID, err)
		}
		return nil, false
	}

	var post entity.Post
	if err := json.Unmarshal(data, &post); err != nil {
		uc.logger.Warn("Discarding unreadable cached post %s: %v", postID, err)
		return nil, false
	}
	return &post, true
}

func (uc *postUseCase) publishCreated(post entity.Post) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := queue.PostEvent{
		Type:      queue.PostCreatedKey,
		PostID:    post.ID,
		Title:     post.Title,
		Image:     post.Image,
		CreatedAt: post.CreatedAt,
	}
	if err := uc.publisher.PublishPostEvent(ctx, event); err != nil {
		uc.logger.Error("[EVENTS] Failed to publish post_created: %v (post_id=%s)", err, post.ID)
	}
}
