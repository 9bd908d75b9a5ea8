// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"

	"github.com/motohanem/moto-backend/internal/apperrors"
	"github.com/motohanem/moto-backend/internal/config"
	"github.com/motohanem/moto-backend/internal/i18n"
)

// LocalUploadRoute is where locally stored uploads are served from.
const LocalUploadRoute = "/uploads"

type UploadKind string

const (
	UploadModelImage UploadKind = "models"
	UploadBrandLogo  UploadKind = "brands"
)

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string
	MaxSize      int64
	AllowedTypes []string
}

// StorageService writes images to S3, or to a local directory when no AWS
// credentials are configured.
type StorageService struct {
	s3Client s3iface.S3API
	aws      config.AWSConfig
	now      func() time.Time
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	s := &StorageService{aws: cfg, now: time.Now}
	if cfg.AccessKeyID == "" {
		return s, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	s.s3Client = s3.New(sess)
	return s, nil
}

func OptionsFor(kind UploadKind) UploadOptions {
	switch kind {
	case UploadBrandLogo:
		return UploadOptions{
			Folder:       string(UploadBrandLogo),
			MaxSize:      2 * 1024 * 1024,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".webp"},
		}
	default:
		return UploadOptions{
			Folder:       string(UploadModelImage),
			MaxSize:      10 * 1024 * 1024,
			AllowedTypes: []string{".jpg", ".jpeg", ".png", ".webp"},
		}
	}
}

// UploadImage checks size, extension and content of an uploaded image and
// stores it. Rejected files are ValidationErrors.
func (s *StorageService) UploadImage(ctx context.Context, file multipart.File, header *multipart.FileHeader, kind UploadKind) (*UploadResult, error) {
	opts := OptionsFor(kind)
	if opts.MaxSize > 0 && header.Size > opts.MaxSize {
		return nil, apperrors.NewValidationError(i18n.KeyUploadInvalidFile)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExt(ext, opts.AllowedTypes) {
		return nil, apperrors.NewValidationError(i18n.KeyUploadInvalidFile)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, apperrors.NewInternalError("read upload", err)
	}
	mimeType, ok := DetectImageType(data)
	if !ok {
		return nil, apperrors.NewValidationError(i18n.KeyUploadInvalidFile)
	}

	key := s.objectKey(opts.Folder, ext)
	if s.s3Client != nil {
		err = s.putS3(ctx, key, mimeType, data)
	} else {
		err = s.putLocal(key, data)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(i18n.KeyUploadFailed, err)
	}

	return &UploadResult{URL: s.publicURL(key), Key: key, Size: int64(len(data)), MimeType: mimeType}, nil
}

func (s *StorageService) DeleteFile(ctx context.Context, key string) error {
	if s.s3Client == nil {
		if err := os.Remove(filepath.Join(s.aws.LocalUploadDir, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete local file: %w", err)
		}
		return nil
	}
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.aws.S3Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *StorageService) putS3(ctx context.Context, key, contentType string, data []byte) error {
	_, err := s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.aws.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to S3: %w", err)
	}
	return nil
}

func (s *StorageService) putLocal(key string, data []byte) error {
	dst := filepath.Join(s.aws.LocalUploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func (s *StorageService) objectKey(folder, ext string) string {
	name := fmt.Sprintf("%s_%s%s", s.now().UTC().Format("20060102"), uuid.NewString()[:8], ext)
	return path.Join(folder, name)
}

func (s *StorageService) publicURL(key string) string {
	switch {
	case s.s3Client == nil:
		return path.Join(LocalUploadRoute, key)
	case s.aws.CloudFrontURL != "":
		return strings.TrimRight(s.aws.CloudFrontURL, "/") + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.aws.S3Bucket, s.aws.Region, key)
	}
}

func allowedExt(ext string, allowed []string) bool {
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// DetectImageType sniffs the file signature of JPEG, PNG and WebP images.
func DetectImageType(data []byte) (string, bool) {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg", true
	case len(data) >= 8 && bytes.Equal(data[:8], []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}):
		return "image/png", true
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return "image/webp", true
	}
	return "", false
}
