/*
Package storage implements the upload store.

This file defines the S3-compatible backend. Object keys are minted from
UUIDs, so every Save yields a fresh key and stored blobs are never
overwritten; downloads are served through time-limited presigned URLs.
*/
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"rtchat/internal/configs"
	"rtchat/internal/pkg/errs"
	"rtchat/internal/pkg/logx"
)

// presignedURLDuration is how long a download URL stays valid.
const presignedURLDuration = 5 * time.Minute

// s3Store persists uploads in an S3-compatible bucket.
type s3Store struct {
	bucket   string
	client   *s3.Client
	uploader *manager.Uploader
	logger   zerolog.Logger
}

// newS3Store initializes the S3 client using a custom configuration that
// supports S3-compatible endpoints.
func newS3Store(cfg *configs.AppConfig) (*s3Store, error) {
	sdkCfg, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client configuration: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Store{
		bucket:   cfg.S3BucketName,
		client:   client,
		uploader: manager.NewUploader(client),
		logger:   logx.Logger().With().Str("component", "S3Store").Logger(),
	}, nil
}

// Save uploads the blob under a UUID-derived key. The sanitized display name
// survives in the Content-Disposition header so downloads keep a meaningful
// filename.
func (s *s3Store) Save(ctx context.Context, name string, body io.Reader) (string, *errs.CustomError) {
	clean := SanitizeName(name)
	if clean == "" {
		return "", errs.NewError(errs.ErrInvalidParams)
	}

	if customErr := ValidateName(clean); customErr != nil {
		return "", customErr
	}

	ext := strings.ToLower(filepath.Ext(clean))
	key := uuid.New().String() + ext
	disposition := fmt.Sprintf("attachment; filename=%q", clean)

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:             &s.bucket,
		Key:                &key,
		Body:               body,
		ContentDisposition: &disposition,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("S3 upload failed")
		return "", errs.NewError(errs.ErrFileStorageFailed)
	}

	s.logger.Info().Str("key", key).Str("file_name", clean).Msg("Stored uploaded file")
	return key, nil
}

// ServeBlob redirects the client to a presigned download URL for the key.
func (s *s3Store) ServeBlob(w http.ResponseWriter, r *http.Request, storedName string) {
	presignClient := s3.NewPresignClient(s.client)

	resp, err := presignClient.PresignGetObject(r.Context(), &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &storedName,
	}, s3.WithPresignExpires(presignedURLDuration))

	if err != nil {
		s.logger.Error().Err(err).Str("key", storedName).Msg("Failed to generate presigned download URL")
		http.Error(w, "failed to resolve file", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, resp.URL, http.StatusFound)
}
