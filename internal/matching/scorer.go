package matching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"job-copilot-go/internal/constants"
	"job-copilot-go/internal/tracing"
	"job-copilot-go/internal/types"
)

// llmMatchReply 补全服务的结构化回复
type llmMatchReply struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// MatchScorer 计算简历文本与岗位文本的兼容性分数 (0-100)。
// 主路径调用补全服务，任何远端失败都会回退到本地的词表重合度计算，
// 因此 Score 永远不向调用方返回错误。
type MatchScorer struct {
	llmModel       model.ToolCallingChatModel // 为nil时始终走本地路径
	promptTemplate string
	logger         zerolog.Logger
}

// ScorerOption MatchScorer 的配置选项
type ScorerOption func(*MatchScorer)

// WithScorerPromptTemplate 设置自定义提示词模板
func WithScorerPromptTemplate(template string) ScorerOption {
	return func(s *MatchScorer) {
		s.promptTemplate = template
	}
}

// NewMatchScorer 创建评分器。llmModel 传 nil 表示补全服务未配置。
func NewMatchScorer(llmModel model.ToolCallingChatModel, logger zerolog.Logger, options ...ScorerOption) *MatchScorer {
	s := &MatchScorer{
		llmModel: llmModel,
		logger:   logger,
	}
	s.promptTemplate = defaultScorePromptTemplate

	for _, opt := range options {
		opt(s)
	}
	return s
}

const defaultScorePromptTemplate = `Compare this resume with job description and give a match percentage (0-100).
Resume: %s
Job: %s

Return ONLY a JSON with: {"score": number, "reasons": string[]}`

// Score 计算匹配分数。
// 主路径：补全服务 + 确定性的提示词（简历和岗位文本各截断前1000字符）；
// 远端失败或回复无法解析时回退到本地词表重合度。
func (s *MatchScorer) Score(ctx context.Context, resumeText, jobText string) *types.MatchResult {
	if s.llmModel == nil {
		return s.localScore(resumeText, jobText)
	}

	result, err := s.remoteScore(ctx, resumeText, jobText)
	if err != nil {
		errType := tracing.ErrorTypeLLM
		if errors.Is(err, context.DeadlineExceeded) {
			errType = tracing.ErrorTypeTimeout
		}
		tracing.RecordErrorWithInfo(trace.SpanFromContext(ctx), err, errType,
			attribute.Int("match.resume_length", len(resumeText)))
		s.logger.Warn().Err(err).Msg("补全服务评分失败，回退到本地关键词匹配")
		return s.localScore(resumeText, jobText)
	}
	return result
}

// remoteScore 调用补全服务并解析结构化回复
func (s *MatchScorer) remoteScore(ctx context.Context, resumeText, jobText string) (*types.MatchResult, error) {
	prompt := fmt.Sprintf(s.promptTemplate,
		truncateRunes(resumeText, constants.PromptTruncateLen),
		truncateRunes(jobText, constants.PromptTruncateLen),
	)

	messages := []*einoschema.Message{einoschema.UserMessage(prompt)}

	response, err := s.llmModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("LLM 调用失败: %w", err)
	}
	if response == nil || response.Content == "" {
		return nil, fmt.Errorf("LLM 返回空回复")
	}

	// 去掉BOM后从回复中抽取首个完整的JSON对象
	content := strings.TrimPrefix(response.Content, "\uFEFF")
	jsonStr := extractJSONObject(content)
	if jsonStr == "" {
		return nil, fmt.Errorf("无法从LLM回复中抽取JSON: %.200s", content)
	}

	var reply llmMatchReply
	if err := json.Unmarshal([]byte(jsonStr), &reply); err != nil {
		return nil, fmt.Errorf("反序列化LLM回复失败: %w, 内容: %.200s", err, jsonStr)
	}

	if reply.Score < 0 || reply.Score > 100 {
		return nil, fmt.Errorf("score 必须在0-100之间, 实际为 %d", reply.Score)
	}

	reasons := reply.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return &types.MatchResult{Score: reply.Score, Reasons: reasons}, nil
}

// localScore 本地回退路径：词表重合度。
// 纯函数，相同输入永远产生相同的 {score, reasons}。
// score = round(100 * |简历技能 ∩ 岗位技能| / max(|岗位技能|, 1))
func (s *MatchScorer) localScore(resumeText, jobText string) *types.MatchResult {
	resumeSkills := ExtractSkills(resumeText)
	jobSkills := ExtractSkills(jobText)

	matched := make([]string, 0, len(jobSkills))
	for _, skill := range resumeSkills {
		if containsSkill(jobSkills, skill) {
			matched = append(matched, skill)
		}
	}

	denom := len(jobSkills)
	if denom < 1 {
		denom = 1
	}
	// +denom/2 实现四舍五入
	score := (100*len(matched) + denom/2) / denom

	reasons := make([]string, 0, len(matched))
	for _, skill := range matched {
		reasons = append(reasons, "Matched skill: "+skill)
	}

	return &types.MatchResult{Score: score, Reasons: reasons}
}

// truncateRunes 按字符数截断文本，避免截断在多字节字符中间
func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}

// extractJSONObject 从文本中抽取首个配平的JSON对象
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	for i := start; i < len(text); i++ {
		if text[i] == '{' {
			level++
		} else if text[i] == '}' {
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}
