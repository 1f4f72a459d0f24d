// Package router 注册HTTP路由。
package router

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/hertz-contrib/keyauth"

	"job-copilot-go/internal/api/handler"
)

// Handlers 路由需要的全部处理器
type Handlers struct {
	Job         *handler.JobHandler
	Resume      *handler.ResumeHandler
	Application *handler.ApplicationHandler
	Chat        *handler.ChatHandler
}

// RegisterRoutes 注册API路由。
// apiKey非空时对写操作启用Bearer鉴权，读接口保持开放。
func RegisterRoutes(h *server.Hertz, handlers *Handlers, apiKey string) {
	api := h.Group("/api/v1")

	// 读接口
	api.GET("/jobs", handlers.Job.HandleListJobs)
	api.GET("/resume", handlers.Resume.HandleGetResume)
	api.GET("/applications", handlers.Application.HandleList)
	api.GET("/stats", handlers.Application.HandleStats)

	// 写接口，可选鉴权
	mutating := api.Group("")
	if apiKey != "" {
		mutating.Use(keyauth.New(
			keyauth.WithKeyLookUp("header:Authorization", "Bearer"),
			keyauth.WithValidator(func(ctx context.Context, c *app.RequestContext, key string) (bool, error) {
				return key == apiKey, nil
			}),
		))
	}
	mutating.POST("/resume/upload", handlers.Resume.HandleUpload)
	mutating.POST("/applications", handlers.Application.HandleCreate)
	mutating.PATCH("/applications/:id", handlers.Application.HandleUpdate)
	mutating.DELETE("/applications/:id", handlers.Application.HandleDelete)
	mutating.POST("/chat", handlers.Chat.HandleChat)

	// 健康检查和连通性测试
	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})
	api.GET("/test", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"message": "API is working!"})
	})
}
