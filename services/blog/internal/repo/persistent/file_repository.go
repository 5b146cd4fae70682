package persistent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"blog/services/blog/internal/entity"
	"blog/services/blog/internal/model"
)

// FileRepository keeps every post in one JSON array that is rewritten on each insert.
// IDs are millisecond timestamps, bumped so they stay strictly increasing.
type FileRepository struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path, now: time.Now}
}

func (r *FileRepository) Create(ctx context.Context, post *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	records, err := r.read()
	if err != nil {
		return err
	}

	record := ToPostRecord(post)
	record.ID = strconv.FormatInt(r.nextID(records), 10)
	records = append(records, *record)

	if err := r.write(records); err != nil {
		return err
	}

	*post = *RecordToPostEntity(record)
	return nil
}

func (r *FileRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if _, err := strconv.ParseInt(id, 10, 64); err != nil {
		return nil, entity.ErrPostNotFound
	}

	r.mu.Lock()
	records, err := r.read()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	for i := range records {
		if records[i].ID == id {
			return RecordToPostEntity(&records[i]), nil
		}
	}
	return nil, entity.ErrPostNotFound
}

func (r *FileRepository) List(ctx context.Context) ([]*entity.Post, error) {
	r.mu.Lock()
	records, err := r.read()
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(records))
	for i := range records {
		posts[i] = RecordToPostEntity(&records[i])
	}
	return posts, nil
}

func (r *FileRepository) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	records, err := r.read()
	r.mu.Unlock()
	if err != nil {
		return 0, err
	}
	return int64(len(records)), nil
}

func (r *FileRepository) nextID(records []model.PostRecord) int64 {
	id := r.now().UnixMilli()
	for i := range records {
		existing, err := strconv.ParseInt(records[i].ID, 10, 64)
		if err == nil && existing >= id {
			id = existing + 1
		}
	}
	return id
}

// read treats a missing or empty file as an empty collection.
func (r *FileRepository) read() ([]model.PostRecord, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read posts file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var records []model.PostRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode posts file: %w", err)
	}
	return records, nil
}

func (r *FileRepository) write(records []model.PostRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode posts: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create posts directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write posts file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write posts file: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace posts file: %w", err)
	}
	return nil
}
