package handler

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"job-copilot-go/internal/matching"
)

// ChatHandler 负责聊天助手接口
type ChatHandler struct {
	engine *matching.Engine
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(engine *matching.Engine) *ChatHandler {
	return &ChatHandler{engine: engine}
}

// chatRequest 聊天请求体
type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat 处理自然语言查询，返回回答和抽取出的过滤条件。
// POST /api/v1/chat
func (h *ChatHandler) HandleChat(ctx context.Context, c *app.RequestContext) {
	var req chatRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if err := validateChatMessage(req.Message); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	reply := h.engine.ExtractFilters(ctx, req.Message)

	c.JSON(consts.StatusOK, utils.H{
		"success":  true,
		"response": reply.Response,
		"filters":  reply.Filters,
		"type":     reply.Type,
	})
}
