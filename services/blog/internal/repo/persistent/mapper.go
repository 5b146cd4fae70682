package persistent

import (
	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func splitContent(c entity.Content) (kind, text string, paragraphs []string) {
	if c.Kind == entity.ContentParagraphs {
		return string(entity.ContentParagraphs), "", c.Paragraphs
	}
	return string(entity.ContentText), c.Text, nil
}

func joinContent(kind, text string, paragraphs []string) entity.Content {
	if entity.ContentKind(kind) == entity.ContentParagraphs {
		return entity.ParagraphContent(paragraphs...)
	}
	return entity.TextContent(text)
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}

	return &entity.Post{
		ID:        m.ID,
		Title:     m.Title,
		Content:   joinContent(m.ContentKind, m.Content, m.Paragraphs),
		CreatedAt: m.CreatedAt.UTC(),
		Image:     m.Image,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}

	kind, text, paragraphs := splitContent(e.Content)
	return &model.PostModel{
		ID:          e.ID,
		Title:       e.Title,
		ContentKind: kind,
		Content:     text,
		Paragraphs:  paragraphs,
		Image:       e.Image,
		CreatedAt:   e.CreatedAt,
	}
}

func DocumentToPostEntity(d *model.PostDocument) *entity.Post {
	if d == nil {
		return nil
	}

	return &entity.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   joinContent(d.ContentKind, d.Content, d.Paragraphs),
		CreatedAt: d.CreatedAt.UTC(),
		Image:     d.Image,
	}
}

// ToPostDocument leaves the ObjectID zero when e.ID is not a valid hex id.
func ToPostDocument(e *entity.Post) *model.PostDocument {
	if e == nil {
		return nil
	}

	kind, text, paragraphs := splitContent(e.Content)
	doc := &model.PostDocument{
		Title:       e.Title,
		ContentKind: kind,
		Content:     text,
		Paragraphs:  paragraphs,
		Image:       e.Image,
		CreatedAt:   e.CreatedAt,
	}
	if id, err := primitive.ObjectIDFromHex(e.ID); err == nil {
		doc.ID = id
	}
	return doc
}

func RecordToPostEntity(r *model.PostRecord) *entity.Post {
	if r == nil {
		return nil
	}

	return &entity.Post{
		ID:        r.ID,
		Title:     r.Title,
		Content:   joinContent(r.ContentKind, r.Content, r.Paragraphs),
		CreatedAt: r.CreatedAt.UTC(),
		Image:     r.Image,
	}
}

func ToPostRecord(e *entity.Post) *model.PostRecord {
	if e == nil {
		return nil
	}

	kind, text, paragraphs := splitContent(e.Content)
	return &model.PostRecord{
		ID:          e.ID,
		Title:       e.Title,
		ContentKind: kind,
		Content:     text,
		Paragraphs:  paragraphs,
		Image:       e.Image,
		CreatedAt:   e.CreatedAt,
	}
}
