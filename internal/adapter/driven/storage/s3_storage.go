// Package storage implements the cloud document archive on top of Amazon S3.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/wattbuild/costreport-go/internal/domain/entity"
	"github.com/wattbuild/costreport-go/internal/domain/repository"
)

// s3API cobre as operações do client S3 que o repositório usa; os testes
// substituem por um mock.
type s3API interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage guarda documentos exportados num bucket, sob um prefixo fixo.
type S3Storage struct {
	client s3API
	bucket string
	prefix string
}

var _ repository.CloudStorageRepository = (*S3Storage)(nil)

// NewS3Storage resolves the default AWS credential chain and returns a
// storage repository bound to the given bucket and prefix.
func NewS3Storage(ctx context.Context, bucket, prefix, region string) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &S3Storage{client: s3.NewFromConfig(cfg), bucket: bucket, prefix: normalizePrefix(prefix)}, nil
}

// newWithClient é usado pelos testes.
func newWithClient(client s3API, bucket, prefix string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, prefix: normalizePrefix(prefix)}
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return prefix
}

func (s *S3Storage) key(path string) string {
	return s.prefix + strings.TrimPrefix(path, "/")
}

// List retorna os objetos sob o caminho dado, paginando quando necessário.
func (s *S3Storage) List(ctx context.Context, path string) ([]entity.StorageObject, error) {
	var objects []entity.StorageObject
	var continuationToken *string

	for {
		resp, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.key(path)),
			ContinuationToken: continuationToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects under %q: %w", path, err)
		}

		for _, obj := range resp.Contents {
			objects = append(objects, entity.StorageObject{
				Path:         strings.TrimPrefix(aws.ToString(obj.Key), s.prefix),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}

		if resp.IsTruncated == nil || !*resp.IsTruncated {
			break
		}
		continuationToken = resp.NextContinuationToken
	}

	sort.Slice(objects, func(i, j int) bool { return objects[i].Path < objects[j].Path })
	return objects, nil
}

// Upload grava o conteúdo no caminho dado.
func (s *S3Storage) Upload(ctx context.Context, path string, data []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(path)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentTypeFor(path)),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %q: %w", path, err)
	}
	return nil
}

// Download devolve o conteúdo do objeto.
func (s *S3Storage) Download(ctx context.Context, path string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download %q: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}

// Delete remove o objeto.
func (s *S3Storage) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %q: %w", path, err)
	}
	return nil
}

// CreateFolder materializa uma "pasta" gravando um marcador vazio com sufixo
// "/", a convenção usual do S3.
func (s *S3Storage) CreateFolder(ctx context.Context, path string) error {
	key := strings.TrimSuffix(s.key(path), "/") + "/"
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to create folder %q: %w", path, err)
	}
	return nil
}

func contentTypeFor(path string) string {
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return "application/pdf"
	}
	return "application/octet-stream"
}
