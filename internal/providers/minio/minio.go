package minio

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"backend/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// MinioProvider mirrors inbound media (MMS attachments referenced by
// carrier-hosted URLs) into an owned bucket so messages stop depending on
// provider URLs that expire.
type MinioProvider struct {
	client    *minio.Client
	bucket    string
	maxSize   int64
	logger    *zap.Logger
	publicURL string
	http      *http.Client
}

func NewMinioProvider(cfg *config.Config, logger *zap.Logger) (*MinioProvider, error) {
	minioURL := cfg.MinioURL
	if strings.HasPrefix(minioURL, "http://") || strings.HasPrefix(minioURL, "https://") {
		u, err := url.Parse(minioURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse minio URL: %w", err)
		}
		minioURL = u.Host
	}

	secure := !strings.HasPrefix(cfg.MinioURL, "http://")

	logger.Info("Initializing MinIO", zap.String("endpoint", minioURL), zap.Bool("secure", secure))

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: false},
	}
	tr.MaxIdleConnsPerHost = 256

	client, err := minio.New(minioURL, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.MinioUser, cfg.MinioPassword, ""),
		Secure:    secure,
		Transport: tr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	publicURL := cfg.MinioPublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("http://%s/%s", minioURL, cfg.MinioBucket)
	}

	provider := &MinioProvider{
		client:    client,
		bucket:    cfg.MinioBucket,
		maxSize:   cfg.MaxMediaSize,
		logger:    logger,
		publicURL: strings.TrimRight(publicURL, "/"),
		http:      &http.Client{},
	}

	if err := provider.ensureBucket(); err != nil {
		return nil, err
	}

	return provider, nil
}

func (m *MinioProvider) ensureBucket() error {
	ctx := context.Background()
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
		m.logger.Info("MinIO bucket created", zap.String("bucket", m.bucket))
	}
	return nil
}

// MirrorFromURL downloads srcURL and stores it under a fresh object name,
// returning the public URL of the stored copy.
func (m *MinioProvider) MirrorFromURL(ctx context.Context, srcURL string, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build media request: %w", err)
	}

	resp, err := m.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("media download returned status %d", resp.StatusCode)
	}
	if resp.ContentLength > m.maxSize {
		return "", fmt.Errorf("media exceeds max size: %d bytes", resp.ContentLength)
	}

	if contentType == "" {
		contentType = resp.Header.Get("Content-Type")
		if idx := strings.Index(contentType, ";"); idx >= 0 {
			contentType = strings.TrimSpace(contentType[:idx])
		}
	}

	objectName := uuid.New().String() + extensionFor(srcURL, contentType)

	body := io.LimitReader(resp.Body, m.maxSize)
	size := resp.ContentLength
	if size < 0 {
		size = -1 // unknown length, minio streams it
	}

	_, err = m.client.PutObject(ctx, m.bucket, objectName, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store media object: %w", err)
	}

	return m.publicURL + "/" + objectName, nil
}

func extensionFor(srcURL string, contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	}
	if u, err := url.Parse(srcURL); err == nil {
		if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
			return ext
		}
	}
	return ""
}
