package persistent

import (
	"context"
	"errors"
	"fmt"

	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const postsCollection = "posts"

type mongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) PostRepository {
	return &mongoRepository{collection: db.Collection(postsCollection)}
}

func (r *mongoRepository) Create(ctx context.Context, post *entity.Post) error {
	doc := ToPostDocument(post)
	doc.ID = primitive.NilObjectID

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id %v", res.InsertedID)
	}
	doc.ID = id

	*post = *DocumentToPostEntity(doc)
	return nil
}

func (r *mongoRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, entity.ErrPostNotFound
	}

	var doc model.PostDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entity.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return DocumentToPostEntity(&doc), nil
}

func (r *mongoRepository) List(ctx context.Context) ([]*entity.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []model.PostDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}

	posts := make([]*entity.Post, len(docs))
	for i := range docs {
		posts[i] = DocumentToPostEntity(&docs[i])
	}
	return posts, nil
}

func (r *mongoRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
