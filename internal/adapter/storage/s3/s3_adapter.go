package s3

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PartyAppOfficial/Partyapp/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// S3Storage stores the business media in a MinIO/S3 bucket. Object
// references are the object keys.
type S3Storage struct {
	client  *minio.Client
	bucket  string
	baseURL string
	logger  *logger.Logger
}

func NewS3Storage(ctx context.Context, opts Options, log *logger.Logger) (*S3Storage, error) {
	log = log.Named("S3Storage")
	log.Info("Initializing S3 MinIO storage", zap.String("endpoint", opts.Endpoint), zap.String("bucket", opts.Bucket), zap.Bool("useSSL", opts.UseSSL))

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", opts.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, opts.Bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", opts.Bucket, err, errExists)
		}
		log.Info("Bucket already exists", zap.String("bucket", opts.Bucket))
	} else {
		log.Info("Bucket created", zap.String("bucket", opts.Bucket))
	}

	return NewWithClient(client, opts.Bucket, opts.PublicBaseURL, log), nil
}

// NewWithClient wraps an existing client. An empty publicBaseURL means
// objects are served from <endpoint>/<bucket>.
func NewWithClient(client *minio.Client, bucket, publicBaseURL string, log *logger.Logger) *S3Storage {
	base := strings.TrimRight(publicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("%s/%s", client.EndpointURL().String(), bucket)
	}
	return &S3Storage{client: client, bucket: bucket, baseURL: base, logger: log}
}

func (s *S3Storage) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.logger.Error("PutObject failed", zap.String("bucket", s.bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", key, s.bucket, err)
	}
	s.logger.Debug("Object uploaded", zap.String("key", info.Key), zap.Int64("size", info.Size))
	return key, nil
}

func (s *S3Storage) PublicURL(_ context.Context, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("empty object reference")
	}
	// Keys end in the uploaded file name, which may hold spaces, '#' or '%'.
	escaped := (&url.URL{Path: strings.TrimLeft(ref, "/")}).EscapedPath()
	return s.baseURL + "/" + escaped, nil
}
