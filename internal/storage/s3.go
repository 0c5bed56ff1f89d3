package storage

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"cvtransform/internal/config"
	apperrors "cvtransform/internal/errors"
	"cvtransform/internal/infrastructure"
)

// UploadAPI is the part of s3manager.Uploader used to publish outputs
type UploadAPI interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

// S3Uploader copies local run outputs to s3://<bucket>/<prefix>/<file name>.
type S3Uploader struct {
	api    UploadAPI
	bucket string
	prefix string
	logger *slog.Logger
}

// NewS3Uploader creates an uploader using the default AWS credential chain
func NewS3Uploader(cfg config.UploadConfig, logger *slog.Logger) (*S3Uploader, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
	})
	if err != nil {
		return nil, apperrors.NewStorageError("failed to create AWS session", err)
	}
	return NewS3UploaderWithAPI(s3manager.NewUploader(sess), cfg, logger), nil
}

// NewS3UploaderWithAPI creates an uploader on top of an existing upload client
func NewS3UploaderWithAPI(api UploadAPI, cfg config.UploadConfig, logger *slog.Logger) *S3Uploader {
	return &S3Uploader{
		api:    api,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		logger: infrastructure.WithComponent(logger, "s3_uploader"),
	}
}

// Key returns the object key a local file is uploaded to
func (u *S3Uploader) Key(localPath string) string {
	return path.Join(u.prefix, filepath.Base(localPath))
}

// Upload sends one local file and returns its s3:// location.
// metadata is attached to the object as user metadata.
func (u *S3Uploader) Upload(ctx context.Context, localPath string, metadata map[string]string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("cannot open %s for upload", localPath), err)
	}
	defer f.Close()

	key := u.Key(localPath)
	input := &s3manager.UploadInput{
		Bucket:   aws.String(u.bucket),
		Key:      aws.String(key),
		Body:     f,
		Metadata: aws.StringMap(metadata),
	}
	if ct := contentType(localPath); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := u.api.UploadWithContext(ctx, input); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("failed to upload %s", filepath.Base(localPath)), err).
			WithContext("bucket", u.bucket).
			WithContext("key", key)
	}

	location := fmt.Sprintf("s3://%s/%s", u.bucket, key)
	u.logger.InfoContext(ctx, "Uploaded file",
		slog.String("file", filepath.Base(localPath)),
		slog.String("location", location))
	return location, nil
}

func contentType(localPath string) string {
	switch ext := filepath.Ext(localPath); ext {
	case ".parquet":
		return "application/vnd.apache.parquet"
	case ".csv":
		return "text/csv"
	default:
		return mime.TypeByExtension(ext)
	}
}
