package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PostDocument is the mongodb document for a post.
type PostDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	ContentKind string             `bson:"content_kind"`
	Content     string             `bson:"content,omitempty"`
	Paragraphs  []string           `bson:"paragraphs,omitempty"`
	Image       string             `bson:"image,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}
