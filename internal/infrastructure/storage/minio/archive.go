// Package minio archives raw bulk-data payloads in S3-compatible object
// storage so a feed outage never loses source documents.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// API is the subset of the minio-go client the archive needs.
type API interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Archive stores raw feed payloads under a single bucket.  It satisfies the
// object-store contract used by the bulk-data syncer.
type Archive struct {
	client        API
	bucket        string
	presignExpiry time.Duration
	log           logging.Logger
}

// NewArchive connects to MinIO and ensures the archive bucket exists.
func NewArchive(ctx context.Context, cfg config.MinIOConfig, log logging.Logger) (*Archive, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to create minio client")
	}
	a := &Archive{
		client:        client,
		bucket:        cfg.Bucket,
		presignExpiry: cfg.PresignExpiry,
		log:           log.Named("archive"),
	}
	if a.bucket == "" {
		a.bucket = config.DefaultMinIOBucket
	}
	if a.presignExpiry <= 0 {
		a.presignExpiry = time.Hour
	}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, err
	}
	a.log.Info("minio archive ready",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", a.bucket))
	return a, nil
}

// NewArchiveWithClient wires an existing API implementation, for tests.
func NewArchiveWithClient(client API, bucket string, log logging.Logger) *Archive {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Archive{client: client, bucket: bucket, presignExpiry: time.Hour, log: log}
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "failed to check archive bucket")
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("failed to create bucket %s", a.bucket))
	}
	return nil
}

// Put archives one payload under key.
func (a *Archive) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("failed to archive %s", key))
	}
	return nil
}

// Get reads one archived payload back.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("failed to open archived %s", key))
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("failed to read archived %s", key))
	}
	return data, nil
}

// PresignedURL returns a time-limited download link for an archived payload.
func (a *Archive) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := a.client.PresignedGetObject(ctx, a.bucket, key, a.presignExpiry, nil)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, fmt.Sprintf("failed to presign %s", key))
	}
	return u.String(), nil
}

//Personal.AI order the ending
