package handler

import (
	"context"
	"encoding/json"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"job-copilot-go/internal/application"
	"job-copilot-go/internal/types"
)

// ApplicationHandler 负责投递记录的增删改查和统计
type ApplicationHandler struct {
	svc   *application.Service
	redis redisResumeReader
}

// redisResumeReader 统计接口需要读简历状态
type redisResumeReader interface {
	GetUserResume(ctx context.Context, userID string) (string, error)
}

// NewApplicationHandler 创建投递记录处理器
func NewApplicationHandler(svc *application.Service, redis redisResumeReader) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, redis: redis}
}

// createApplicationRequest 创建投递记录的请求体
type createApplicationRequest struct {
	Job *types.ScoredJob `json:"job"`
}

// HandleCreate 记录一次投递。
// POST /api/v1/applications
func (h *ApplicationHandler) HandleCreate(ctx context.Context, c *app.RequestContext) {
	userID := userIDFromRequest(c)

	var req createApplicationRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
		return
	}
	if req.Job == nil || req.Job.ID == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "job data is required"})
		return
	}

	app, err := h.svc.Create(ctx, userID, req.Job)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to track application"})
		return
	}

	c.JSON(consts.StatusOK, utils.H{
		"success":     true,
		"application": app,
		"message":     "Application tracked successfully",
	})
}

// HandleList 查询投递记录，同时返回统计。
// GET /api/v1/applications
func (h *ApplicationHandler) HandleList(ctx context.Context, c *app.RequestContext) {
	userID := userIDFromRequest(c)

	filters := application.ListFilters{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}

	apps, err := h.svc.List(ctx, userID, filters)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to load applications"})
		return
	}

	stats, err := h.svc.Stats(ctx, userID)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to load application stats"})
		return
	}

	c.JSON(consts.StatusOK, utils.H{
		"applications": apps,
		"stats":        stats,
	})
}

// updateApplicationRequest 更新投递记录的请求体
type updateApplicationRequest struct {
	Status *types.ApplicationStatus `json:"status"`
	Notes  *string                  `json:"notes"`
}

// HandleUpdate 更新投递状态或备注。
// PATCH /api/v1/applications/:id
func (h *ApplicationHandler) HandleUpdate(ctx context.Context, c *app.RequestContext) {
	userID := userIDFromRequest(c)
	applicationID := c.Param("id")

	var req updateApplicationRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
		return
	}

	updated, err := h.svc.Update(ctx, userID, applicationID, application.UpdateFields{
		Status: req.Status,
		Notes:  req.Notes,
	})
	if err != nil {
		if err == application.ErrNotFound {
			c.JSON(consts.StatusNotFound, utils.H{"error": "application not found"})
			return
		}
		c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	c.JSON(consts.StatusOK, utils.H{
		"success":     true,
		"application": updated,
	})
}

// HandleDelete 删除投递记录。
// DELETE /api/v1/applications/:id
func (h *ApplicationHandler) HandleDelete(ctx context.Context, c *app.RequestContext) {
	userID := userIDFromRequest(c)
	applicationID := c.Param("id")

	if err := h.svc.Delete(ctx, userID, applicationID); err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to delete application"})
		return
	}

	c.JSON(consts.StatusOK, utils.H{"success": true})
}

// HandleStats 查询投递统计。
// GET /api/v1/stats
func (h *ApplicationHandler) HandleStats(ctx context.Context, c *app.RequestContext) {
	userID := userIDFromRequest(c)

	stats, err := h.svc.Stats(ctx, userID)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to load stats"})
		return
	}

	resumeText, err := h.redis.GetUserResume(ctx, userID)
	if err != nil {
		resumeText = ""
	}

	c.JSON(consts.StatusOK, utils.H{
		"total":          stats.Total,
		"byStatus":       stats.ByStatus,
		"avgMatchScore":  stats.AvgMatchScore,
		"recentActivity": stats.RecentActivity,
		"hasResume":      resumeText != "",
		"resumeLength":   len(resumeText),
	})
}
