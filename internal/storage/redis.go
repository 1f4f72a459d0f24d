package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"job-copilot-go/internal/config"
	"job-copilot-go/internal/constants"
	"job-copilot-go/internal/tracing"
	"job-copilot-go/internal/types"
)

// ErrNotFound is returned when a key is not found in Redis.
// It wraps the underlying redis.Nil error for abstraction.
var ErrNotFound = redis.Nil

// 为Redis操作定义专用tracer
var redisTracer = otel.Tracer("job-copilot-go/storage/redis")

// Redis wraps the Redis client
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端连接
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is required")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		MaxRetries: cfg.MaxRetries,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子, 记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("failed to instrument Redis with OpenTelemetry: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close closes the Redis client connection
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping checks the Redis connection
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}
	return r.Client.Ping(ctx).Err()
}

// --- 匹配分数缓存 ---

// GetMatchScore 读取 (简历指纹, 岗位ID) 对应的评分快照。
// 不存在或已过期时返回 ErrNotFound。
func (r *Redis) GetMatchScore(ctx context.Context, fingerprint, jobID string) (*types.ScoredJob, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyMatchScore, fingerprint, jobID)
	data, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, err // redis.Nil 即 ErrNotFound
	}

	var job types.ScoredJob
	if err := json.Unmarshal([]byte(data), &job); err != nil {
		return nil, fmt.Errorf("反序列化分数缓存失败: %w", err)
	}
	return &job, nil
}

// SetMatchScore 写入评分快照并刷新TTL。
// 条目不做原地修改：重算总是整体覆盖旧值（last-write-wins）。
func (r *Redis) SetMatchScore(ctx context.Context, fingerprint, jobID string, job *types.ScoredJob, ttl time.Duration) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("序列化评分快照失败: %w", err)
	}

	key := fmt.Sprintf(constants.KeyMatchScore, fingerprint, jobID)
	if err := r.Client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("写入分数缓存失败: %w", err)
	}
	return nil
}

// --- 岗位列表缓存 ---

// GetCachedJobFeed 按过滤条件摘要读取缓存的岗位列表
func (r *Redis) GetCachedJobFeed(ctx context.Context, filtersDigest string) ([]types.Job, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyJobFeed, filtersDigest)
	data, err := r.Client.Get(ctx, key).Result()
	if err != nil {
		return nil, err
	}

	var jobs []types.Job
	if err := json.Unmarshal([]byte(data), &jobs); err != nil {
		return nil, fmt.Errorf("反序列化岗位列表缓存失败: %w", err)
	}
	return jobs, nil
}

// CacheJobFeed 缓存岗位列表
func (r *Redis) CacheJobFeed(ctx context.Context, filtersDigest string, jobs []types.Job, ttl time.Duration) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	data, err := json.Marshal(jobs)
	if err != nil {
		return fmt.Errorf("序列化岗位列表失败: %w", err)
	}

	key := fmt.Sprintf(constants.KeyJobFeed, filtersDigest)
	return r.Client.Set(ctx, key, data, ttl).Err()
}

// --- 用户简历 ---

// SetUserResume 保存用户的简历文本（不设TTL，覆盖旧值）
func (r *Redis) SetUserResume(ctx context.Context, userID, resumeText string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyUserResume, userID)
	ctx, span := redisTracer.Start(ctx, "redis.SetUserResume",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("redis.key", tracing.SafeRedisKey(key)),
		))
	defer span.End()

	return r.Client.Set(ctx, key, resumeText, 0).Err()
}

// GetUserResume 读取用户的简历文本。未上传过简历时返回空串而不是错误。
func (r *Redis) GetUserResume(ctx context.Context, userID string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyUserResume, userID)
	text, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("读取用户简历失败: %w", err)
	}
	return text, nil
}

// --- 投递记录 (HASH, field=applicationID, value=JSON) ---

// SetApplication 写入一条投递记录
func (r *Redis) SetApplication(ctx context.Context, userID string, app *types.Application) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	data, err := json.Marshal(app)
	if err != nil {
		return fmt.Errorf("序列化投递记录失败: %w", err)
	}

	key := fmt.Sprintf(constants.KeyUserApplications, userID)
	return r.Client.HSet(ctx, key, app.ID, data).Err()
}

// GetApplication 按ID读取投递记录，不存在时返回 ErrNotFound
func (r *Redis) GetApplication(ctx context.Context, userID, applicationID string) (*types.Application, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyUserApplications, userID)
	data, err := r.Client.HGet(ctx, key, applicationID).Result()
	if err != nil {
		return nil, err
	}

	var app types.Application
	if err := json.Unmarshal([]byte(data), &app); err != nil {
		return nil, fmt.Errorf("反序列化投递记录失败: %w", err)
	}
	return &app, nil
}

// ListApplications 读取用户的全部投递记录（无序）
func (r *Redis) ListApplications(ctx context.Context, userID string) ([]types.Application, error) {
	if r.Client == nil {
		return nil, fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyUserApplications, userID)
	entries, err := r.Client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("读取投递记录失败: %w", err)
	}

	apps := make([]types.Application, 0, len(entries))
	for _, raw := range entries {
		var app types.Application
		if err := json.Unmarshal([]byte(raw), &app); err != nil {
			// 跳过损坏的条目，不让单条坏数据拖垮整个列表
			continue
		}
		apps = append(apps, app)
	}
	return apps, nil
}

// DeleteApplication 删除一条投递记录
func (r *Redis) DeleteApplication(ctx context.Context, userID, applicationID string) error {
	if r.Client == nil {
		return fmt.Errorf("redis client is not initialized")
	}

	key := fmt.Sprintf(constants.KeyUserApplications, userID)
	return r.Client.HDel(ctx, key, applicationID).Err()
}
