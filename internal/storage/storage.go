package storage

import (
	"job-copilot-go/internal/config"
	"job-copilot-go/internal/logger"
)

// Storage 聚合所有存储后端。
// Redis是必需的；MinIO和RabbitMQ按配置可选，未配置时为nil，调用方需判空。
type Storage struct {
	Redis    *Redis
	MinIO    *MinIO
	RabbitMQ *RabbitMQ
}

// NewStorage 按配置初始化各存储后端
func NewStorage(cfg *config.Config) (*Storage, error) {
	s := &Storage{}

	redisAdapter, err := NewRedisAdapter(&cfg.Redis)
	if err != nil {
		return nil, err
	}
	s.Redis = redisAdapter
	logger.Info().Str("address", cfg.Redis.Address).Msg("Redis连接成功")

	// MinIO可选：未配置endpoint时跳过，简历原件归档功能降级关闭
	if cfg.MinIO.Endpoint != "" {
		minioClient, err := NewMinIOClient(&cfg.MinIO)
		if err != nil {
			logger.Warn().Err(err).Msg("MinIO初始化失败, 简历原件归档不可用")
		} else {
			s.MinIO = minioClient
			logger.Info().Str("endpoint", cfg.MinIO.Endpoint).Msg("MinIO连接成功")
		}
	}

	// RabbitMQ可选：未配置URL时跳过，投递事件发布降级关闭
	if cfg.RabbitMQ.URL != "" {
		mq, err := NewRabbitMQ(&cfg.RabbitMQ)
		if err != nil {
			logger.Warn().Err(err).Msg("RabbitMQ初始化失败, 投递事件发布不可用")
		} else {
			s.RabbitMQ = mq
			logger.Info().Str("exchange", cfg.RabbitMQ.ApplicationExchange).Msg("RabbitMQ连接成功")
		}
	}

	return s, nil
}

// Close 关闭所有存储连接
func (s *Storage) Close() {
	if s.RabbitMQ != nil {
		if err := s.RabbitMQ.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭RabbitMQ连接失败")
		}
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn().Err(err).Msg("关闭Redis连接失败")
		}
	}
}
