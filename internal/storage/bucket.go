// Package storage binds the flat vehicle image bucket: a name listing for
// the matcher and public URL construction for matched files.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Lenacars/adminpanel-sub000/internal/observability"
)

// Config holds object storage connection parameters.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// BucketStore lists file names from an S3-compatible bucket.
type BucketStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

func NewBucketStore(cfg Config) (*BucketStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("storage endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("storage access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	return &BucketStore{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// ListFileNames returns every object name in the bucket. The bucket is flat;
// listing order comes from the store and is left untouched.
func (s *BucketStore) ListFileNames(ctx context.Context) ([]string, error) {
	var names []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", s.bucket, object.Err)
		}
		names = append(names, object.Key)
	}
	observability.ListingFetches.WithLabelValues("bucket").Inc()
	return names, nil
}

// PublicURL builds the public URL of a stored file. Pure string
// concatenation, no network call.
func (s *BucketStore) PublicURL(fileName string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.publicBaseURL, s.bucket, fileName)
}
