package handler

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/rs/zerolog"

	"job-copilot-go/internal/jobsource"
	"job-copilot-go/internal/logger"
	"job-copilot-go/internal/matching"
	"job-copilot-go/internal/storage"
	"job-copilot-go/internal/types"
)

// userIDFromRequest 从请求头解析用户标识，未提供时归入default
func userIDFromRequest(c *app.RequestContext) string {
	userID := string(c.GetHeader("X-User-ID"))
	if userID == "" {
		return "default"
	}
	return userID
}

// JobHandler 负责处理岗位列表请求
type JobHandler struct {
	engine  *matching.Engine
	source  *jobsource.Client
	redis   *storage.Redis
	feedTTL time.Duration
	logger  zerolog.Logger
}

// NewJobHandler 创建岗位处理器
func NewJobHandler(engine *matching.Engine, source *jobsource.Client, redis *storage.Redis, feedTTL time.Duration) *JobHandler {
	return &JobHandler{
		engine:  engine,
		source:  source,
		redis:   redis,
		feedTTL: feedTTL,
		logger:  logger.Logger.With().Str("component", "job_handler").Logger(),
	}
}

// HandleListJobs 处理岗位列表请求。
// GET /api/v1/jobs
// 流程：解析过滤条件 -> 读用户简历 -> 取岗位列表（缓存或远程）->
// 逐岗位评分 -> 本地过滤链 -> 计算最佳匹配。
func (h *JobHandler) HandleListJobs(ctx context.Context, c *app.RequestContext) {
	filters, err := parseJobFilters(func(name string) string {
		return c.Query(name)
	})
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	userID := userIDFromRequest(c)

	// 简历读取失败按未上传处理，岗位列表不因此不可用
	resumeText, err := h.redis.GetUserResume(ctx, userID)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("读取用户简历失败, 按未上传处理")
		resumeText = ""
	}

	jobs := h.fetchJobs(ctx, filters)

	scored := h.engine.ScoreJobs(ctx, jobs, resumeText)
	filtered := h.engine.FilterJobs(scored, *filters)
	bestMatches := h.engine.BestMatches(filtered)

	c.JSON(consts.StatusOK, utils.H{
		"jobs":        filtered,
		"bestMatches": bestMatches,
		"total":       len(filtered),
		"hasResume":   resumeText != "",
	})
}

// fetchJobs 获取岗位列表，优先走缓存，未命中时请求来源并回填
func (h *JobHandler) fetchJobs(ctx context.Context, filters *types.FilterSet) []types.Job {
	digest := jobsource.CacheDigest(filters)

	cached, err := h.redis.GetCachedJobFeed(ctx, digest)
	if err == nil {
		h.logger.Debug().Str("digest", digest).Int("count", len(cached)).Msg("岗位列表缓存命中")
		return cached
	}
	if err != storage.ErrNotFound {
		h.logger.Warn().Err(err).Msg("读取岗位列表缓存失败")
	}

	jobs := h.source.FetchJobs(ctx, filters)

	if cacheErr := h.redis.CacheJobFeed(ctx, digest, jobs, h.feedTTL); cacheErr != nil {
		h.logger.Warn().Err(cacheErr).Msg("写入岗位列表缓存失败")
	}

	return jobs
}
