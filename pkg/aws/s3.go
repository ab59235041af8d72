package aws

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectPutter is the part of the S3 client the export store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// PresignFunc returns a download URL for bucket/key valid for expiry.
type PresignFunc func(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)

// StoredExport locates an uploaded export.
type StoredExport struct {
	Bucket    string    `json:"bucket"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ExportStore uploads export files and hands back presigned download links.
type ExportStore struct {
	client  ObjectPutter
	presign PresignFunc
	bucket  string
	prefix  string
	expiry  time.Duration
}

// NewS3Client creates a new S3 client from AWS config.
func NewS3Client(cfg sdkaws.Config) *s3.Client {
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
}

// NewExportStore builds a store backed by a real S3 client.
func NewExportStore(client *s3.Client, bucket, prefix string, expiry time.Duration) *ExportStore {
	presigner := s3.NewPresignClient(client)
	return &ExportStore{
		client: client,
		presign: func(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
			req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
				Bucket: sdkaws.String(bucket),
				Key:    sdkaws.String(key),
			}, func(o *s3.PresignOptions) {
				o.Expires = expiry
			})
			if err != nil {
				return "", err
			}
			return req.URL, nil
		},
		bucket: bucket,
		prefix: prefix,
		expiry: expiry,
	}
}

// NewExportStoreWith is used when the caller supplies its own client and signer.
func NewExportStoreWith(client ObjectPutter, presign PresignFunc, bucket, prefix string, expiry time.Duration) *ExportStore {
	return &ExportStore{client: client, presign: presign, bucket: bucket, prefix: prefix, expiry: expiry}
}

// Put uploads body under prefix/name and returns a presigned GET URL.
func (s *ExportStore) Put(ctx context.Context, name, contentType string, body []byte) (*StoredExport, error) {
	key := path.Join(s.prefix, name)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(s.bucket),
		Key:         sdkaws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: sdkaws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload export %s: %w", key, err)
	}

	url, err := s.presign(ctx, s.bucket, key, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign get object: %w", err)
	}

	return &StoredExport{
		Bucket:    s.bucket,
		Key:       key,
		URL:       url,
		ExpiresAt: time.Now().Add(s.expiry).UTC(),
	}, nil
}
