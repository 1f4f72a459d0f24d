package matching

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"job-copilot-go/internal/constants"
	"job-copilot-go/internal/storage"
	"job-copilot-go/internal/types"
)

// ScoreStore 匹配分数缓存的后端存储抽象（由 storage.Redis 实现）
type ScoreStore interface {
	// GetMatchScore 读取缓存的评分快照，不存在或已过期时返回 storage.ErrNotFound
	GetMatchScore(ctx context.Context, fingerprint, jobID string) (*types.ScoredJob, error)
	// SetMatchScore 写入评分快照并刷新TTL
	SetMatchScore(ctx context.Context, fingerprint, jobID string, job *types.ScoredJob, ttl time.Duration) error
}

// ScoreCache 按 (简历指纹, 岗位ID) 记忆评分结果。
// 条目从不原地修改：重算产生新条目逻辑上替换旧条目。
// 并发重算允许竞争写入，last-write-wins——评分对稳定输入幂等，
// 重复计算只是性能损耗而非正确性问题。
type ScoreCache struct {
	store  ScoreStore // 为nil时每次都重新计算
	ttl    time.Duration
	logger zerolog.Logger
}

// NewScoreCache 创建分数缓存。ttl<=0 时使用默认24小时。
func NewScoreCache(store ScoreStore, ttl time.Duration, logger zerolog.Logger) *ScoreCache {
	if ttl <= 0 {
		ttl = constants.MatchScoreCacheTTL
	}
	return &ScoreCache{
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Fingerprint 计算简历文本的内容指纹：MD5十六进制的前8位。
// 对相同文本跨进程稳定，让不同用户的相同简历也能命中同一批缓存分数。
func Fingerprint(resumeText string) string {
	sum := md5.Sum([]byte(resumeText))
	return hex.EncodeToString(sum[:])[:constants.ResumeFingerprintLen]
}

// GetOrCompute 在TTL内返回缓存的评分快照；未命中或过期时调用 computeFn
// 计算新快照、写回缓存并返回。缓存后端故障只降级为直接计算，不向上传播。
func (c *ScoreCache) GetOrCompute(ctx context.Context, fingerprint string, job *types.Job, computeFn func() *types.ScoredJob) *types.ScoredJob {
	if c.store != nil {
		cached, err := c.store.GetMatchScore(ctx, fingerprint, job.ID)
		if err == nil && cached != nil {
			return cached
		}
		if err != nil && !errors.Is(err, storage.ErrNotFound) {
			c.logger.Warn().Err(err).Str("job_id", job.ID).Msg("读取分数缓存失败，将重新计算")
		}
	}

	fresh := computeFn()

	if c.store != nil {
		if err := c.store.SetMatchScore(ctx, fingerprint, job.ID, fresh, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("job_id", job.ID).Msg("写入分数缓存失败")
		}
	}

	return fresh
}
