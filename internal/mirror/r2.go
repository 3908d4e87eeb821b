// Package mirror uploads published article folders to an S3-compatible
// bucket (CloudFlare R2). Uploads are best-effort: the local tree stays the
// source of truth.
package mirror

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/werkbank/postplan/internal/logger"
)

// Settings holds the bucket coordinates
type Settings struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
}

type R2Mirror struct {
	client *s3.Client
	bucket string
	root   string
}

// NewR2Mirror builds an S3 client pointed at the R2 endpoint. root is the
// local storage root the uploaded folder paths are relative to.
func NewR2Mirror(ctx context.Context, root string, settings Settings) (*R2Mirror, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(settings.Endpoint)
		o.UsePathStyle = true
	})

	return &R2Mirror{
		client: client,
		bucket: settings.Bucket,
		root:   root,
	}, nil
}

// Upload pushes every regular file inside the folder to the bucket, keyed
// by its storage-relative path
func (m *R2Mirror) Upload(ctx context.Context, folderPath string) error {
	entries, err := os.ReadDir(filepath.Join(m.root, folderPath))
	if err != nil {
		return fmt.Errorf("read folder %s: %w", folderPath, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		rel := filepath.Join(folderPath, entry.Name())
		data, err := os.ReadFile(filepath.Join(m.root, rel))
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}

		key := filepath.ToSlash(rel)
		_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(m.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(contentType(entry.Name())),
		})
		if err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
		logger.Debug().Str("key", key).Int("bytes", len(data)).Msg("Mirrored object")
	}
	return nil
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
