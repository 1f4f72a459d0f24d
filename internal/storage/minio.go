package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"job-copilot-go/internal/config"
	"job-copilot-go/internal/logger"
)

// MinIO 封装对象存储客户端，用于归档用户上传的原始简历文件。
// 解析出的文本仍走Redis；这里只负责留存原件以便回溯。
type MinIO struct {
	Client        *minio.Client
	resumesBucket string
	location      string
}

// NewMinIOClient 创建MinIO客户端并确保简历存储桶存在
func NewMinIOClient(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("minio config cannot be nil")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	m := &MinIO{
		Client:        client,
		resumesBucket: cfg.ResumesBucket,
		location:      cfg.Location,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.ensureBucket(ctx, m.resumesBucket); err != nil {
		return nil, err
	}

	return m, nil
}

// ensureBucket 确保存储桶存在，不存在则创建
func (m *MinIO) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := m.Client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if exists {
		return nil
	}

	err = m.Client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: m.location})
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucketName, err)
	}
	logger.Info().Str("bucket", bucketName).Msg("MinIO存储桶创建成功")
	return nil
}

// ArchiveResumeFile 归档用户上传的简历原件。
// 对象名按 userID/时间戳_文件名 组织，同一用户的历史版本都会保留。
func (m *MinIO) ArchiveResumeFile(ctx context.Context, userID, fileName string, reader io.Reader, size int64, contentType string) (string, error) {
	if m == nil || m.Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	objectName := fmt.Sprintf("%s/%d_%s", userID, time.Now().Unix(), fileName)

	info, err := m.Client.PutObject(ctx, m.resumesBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive resume file: %w", err)
	}

	logger.Info().
		Str("user_id", userID).
		Str("object", info.Key).
		Int64("size", info.Size).
		Msg("简历原件归档成功")

	return info.Key, nil
}
