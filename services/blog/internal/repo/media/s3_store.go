package media

import (
	"context"
	"fmt"

	"blog/pkg/s3"
)

type S3Store struct {
	client *s3.Client
}

func NewS3Store(client *s3.Client) *S3Store {
	return &S3Store{client: client}
}

func (s *S3Store) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	key := "posts/" + generateName(filename, contentType, data)
	return s.client.UploadFile(ctx, key, data, contentType)
}

func (s *S3Store) Delete(ctx context.Context, ref string) error {
	key, ok := s.client.KeyFromURL(ref)
	if !ok {
		return fmt.Errorf("image %q is not in the bucket", ref)
	}
	return s.client.DeleteFile(ctx, key)
}
