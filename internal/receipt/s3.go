package receipt

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Storage кладёт чеки в MinIO/S3-совместимый бакет: ключ — ref,
// content type на объекте, исходное имя файла в user metadata.
type S3Storage struct {
	cfg    S3Config
	client *minio.Client
}

func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	cl, err := minio.New(strings.TrimPrefix(cfg.Endpoint, "http://"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &S3Storage{cfg: cfg, client: cl}, nil
}

func (s *S3Storage) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return err
	}
	if !exists {
		return s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (s *S3Storage) Store(ctx context.Context, data []byte, name, contentType string) (string, error) {
	ref := uuid.NewString()
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, ref,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: map[string]string{"original-name": name},
		})
	if err != nil {
		return "", err
	}
	return ref, nil
}

func (s *S3Storage) Retrieve(ctx context.Context, ref string) ([]byte, Meta, error) {
	obj, err := s.client.GetObject(ctx, s.cfg.Bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, Meta{}, err
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, Meta{}, ErrNotFound
		}
		return nil, Meta{}, err
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, Meta{}, err
	}

	name := stat.UserMetadata["Original-Name"]
	if name == "" {
		name = ref
	}
	return data, Meta{Name: name, ContentType: stat.ContentType}, nil
}
