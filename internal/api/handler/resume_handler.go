package handler

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"job-copilot-go/internal/logger"
	"job-copilot-go/internal/matching"
	"job-copilot-go/internal/parser"
	"job-copilot-go/internal/storage"
	"job-copilot-go/internal/tracing"
)

var resumeTracer = otel.Tracer("job-copilot-go/api/resume")

// ResumeHandler 负责简历上传和查询
type ResumeHandler struct {
	redis     *storage.Redis
	minio     *storage.MinIO
	extractor *parser.ResumePDFExtractor
	logger    zerolog.Logger
}

// NewResumeHandler 创建简历处理器。minio和extractor可为nil，
// 为nil时仅支持纯文本上传。
func NewResumeHandler(redis *storage.Redis, minioClient *storage.MinIO, extractor *parser.ResumePDFExtractor) *ResumeHandler {
	return &ResumeHandler{
		redis:     redis,
		minio:     minioClient,
		extractor: extractor,
		logger:    logger.Logger.With().Str("component", "resume_handler").Logger(),
	}
}

// resumeUploadRequest JSON形式上传简历的请求体
type resumeUploadRequest struct {
	Text     string `json:"text"`
	FileName string `json:"fileName"`
}

// HandleUpload 处理简历上传。
// POST /api/v1/resume/upload
// 两种形式：multipart上传PDF文件（解析出文本并归档原件），
// 或JSON直接提交纯文本。解析出的文本按用户覆盖保存。
func (h *ResumeHandler) HandleUpload(ctx context.Context, c *app.RequestContext) {
	ctx, span := resumeTracer.Start(ctx, "resume.Upload")
	defer span.End()

	userID := userIDFromRequest(c)
	span.SetAttributes(attribute.String("user.id", userID))

	var text, fileName string

	fileHeader, err := c.FormFile("file")
	if err == nil {
		if h.extractor == nil {
			c.JSON(consts.StatusBadRequest, utils.H{"error": "PDF upload is not supported, submit resume text instead"})
			return
		}

		fileName = fileHeader.Filename
		file, openErr := fileHeader.Open()
		if openErr != nil {
			c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to open uploaded file"})
			return
		}
		defer file.Close()

		// 用一次性ID作为解析URI，避免把用户文件名带进追踪系统
		parseID, _ := uuid.NewV4()
		text, err = h.extractor.ExtractFromReader(ctx, file, parseID.String()+".pdf")
		if err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeInternal)
			c.JSON(consts.StatusUnprocessableEntity, utils.H{"error": "failed to extract text from PDF"})
			return
		}

		// 归档原件是旁路操作，失败不影响上传结果
		if h.minio != nil {
			if _, seekErr := file.Seek(0, io.SeekStart); seekErr == nil {
				if _, archiveErr := h.minio.ArchiveResumeFile(ctx, userID, fileName, file, fileHeader.Size, "application/pdf"); archiveErr != nil {
					h.logger.Warn().Err(archiveErr).Str("user_id", userID).Msg("简历原件归档失败")
				}
			}
		}
	} else {
		var req resumeUploadRequest
		if jsonErr := json.Unmarshal(c.Request.Body(), &req); jsonErr != nil {
			c.JSON(consts.StatusBadRequest, utils.H{"error": "invalid request body"})
			return
		}
		text = req.Text
		fileName = req.FileName
	}

	text = strings.TrimSpace(text)
	if err := validateResumeText(text); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		c.JSON(consts.StatusBadRequest, utils.H{"error": err.Error()})
		return
	}

	if err := h.redis.SetUserResume(ctx, userID, text); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeRedis)
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to save resume"})
		return
	}

	h.logger.Info().
		Str("user_id", userID).
		Str("resume_preview", tracing.SafeResumeContent(text)).
		Int("length", len(text)).
		Msg("简历上传成功")

	c.JSON(consts.StatusOK, utils.H{
		"success":   true,
		"message":   "Resume uploaded successfully",
		"fileName":  fileName,
		"length":    len(text),
		"extracted": matching.ExtractSkills(text),
	})
}

// HandleGetResume 查询当前保存的简历。
// GET /api/v1/resume
func (h *ResumeHandler) HandleGetResume(ctx context.Context, c *app.RequestContext) {
	userID := userIDFromRequest(c)

	text, err := h.redis.GetUserResume(ctx, userID)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "failed to load resume"})
		return
	}

	c.JSON(consts.StatusOK, utils.H{
		"hasResume": text != "",
		"text":      text,
		"length":    len(text),
		"skills":    matching.ExtractSkills(text),
	})
}
