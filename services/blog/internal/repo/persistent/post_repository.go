package persistent

import (
	"context"
	"errors"
	"fmt"

	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostRepository is the durable store for posts. Create assigns the ID.
// GetByID returns entity.ErrPostNotFound for unknown or malformed IDs.
type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	List(ctx context.Context) ([]*entity.Post, error)
	Count(ctx context.Context) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	postModel := ToPostModel(post)
	postModel.ID = ""

	if err := r.db.WithContext(ctx).Create(postModel).Error; err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	*post = *ToPostEntity(postModel)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, entity.ErrPostNotFound
	}

	var postModel model.PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return ToPostEntity(&postModel), nil
}

func (r *postRepository) List(ctx context.Context) ([]*entity.Post, error) {
	var postModels []model.PostModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&postModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PostModel{}).Count(&count).Error
	return count, err
}
