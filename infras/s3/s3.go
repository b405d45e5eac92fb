// Package s3 stores room, menu and logo images in an S3-compatible bucket
// (R2, MinIO, AWS) and hands back their public URLs.
package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"

	"hotel/config"
	"hotel/infras/otel"
	"hotel/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrStorageDisabled = errors.New("object storage is not configured")

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
	otelAttrSize      = "size"
	defaultRegion     = "auto"
)

type S3 interface {
	UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error)
	DeleteFile(ctx context.Context, bucketName, directory, objectName string) error
	GetObjectNameFromURL(bucketName, url string) (objectName string)
}

// objectAPI is the part of *s3.Client the storage needs.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type storage struct {
	client objectAPI
	cfg    *config.Config
	otel   otel.Otel
}

// New builds the S3 client. Without an API endpoint every call fails with
// ErrStorageDisabled, which services treat as "no image".
func New(cfg *config.Config, otel otel.Otel) S3 {
	settings := cfg.External.S3
	if settings.APIEndpoint == constant.Empty {
		log.Warn().Msg("S3 endpoint not configured, file uploads are disabled")

		return &storage{cfg: cfg, otel: otel}
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, ""),
		),
		awsConfig.WithRegion(defaultRegion),
	)
	if err != nil {
		log.Error().Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(settings.APIEndpoint)
		o.UsePathStyle = true
	})

	return &storage{client: client, cfg: cfg, otel: otel}
}

func (s *storage) bucket(name string) string {
	if name == constant.Empty {
		return s.cfg.External.S3.BucketName
	}

	return name
}

func (s *storage) UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucketName = s.bucket(bucketName)
	key := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    bucketName,
	})

	if s.client == nil {
		return constant.Empty, ErrStorageDisabled
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to read file: %w", err)
	}

	scope.SetAttribute(otelAttrSize, len(data))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(fileHeader.Header.Get(constant.RequestHeaderContentType)),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return s.publicURL(key), nil
}

func (s *storage) DeleteFile(ctx context.Context, bucketName, directory, objectName string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer scope.TraceIfError(err)

	bucketName = s.bucket(bucketName)
	key := path.Join(directory, objectName)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    bucketName,
	})

	if s.client == nil {
		return ErrStorageDisabled
	}

	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to delete file from S3")

		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// GetObjectNameFromURL recognises URLs on the public domain and path-style API
// URLs for bucketName. Anything else yields an empty name.
func (s *storage) GetObjectNameFromURL(bucketName, url string) string {
	settings := s.cfg.External.S3
	prefixes := []string{
		settings.APIEndpoint + "/" + s.bucket(bucketName) + "/",
	}

	if settings.PublicDomain != constant.Empty {
		prefixes = append([]string{strings.TrimSuffix(settings.PublicDomain, "/") + "/"}, prefixes...)
	}

	for _, prefix := range prefixes {
		if key, ok := strings.CutPrefix(url, prefix); ok && key != constant.Empty {
			return path.Base(key)
		}
	}

	return constant.Empty
}

func (s *storage) publicURL(key string) string {
	return strings.TrimSuffix(s.cfg.External.S3.PublicDomain, "/") + "/" + key
}

// ObjectName gives an upload a random name that keeps the original extension.
func ObjectName(originalFilename string) string {
	return uuid.NewString() + strings.ToLower(path.Ext(originalFilename))
}
