package matching

import (
	"context"
	"strings"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"job-copilot-go/internal/types"
)

// chatSystemPrompt 固定的系统指令：列举可识别的过滤词汇表和应用功能
const chatSystemPrompt = `You are a helpful job search assistant. You help users find jobs and answer questions about the job tracker app.

Available filters users can use:
- Role/Title: Search by job title
- Skills: Multi-select skills (React, Node.js, Python, etc.)
- Date Posted: Last 24 hours, Last week, Last month
- Job Type: Full-time, Part-time, Contract, Internship
- Work Mode: Remote, Hybrid, On-site
- Location: City/region filter
- Match Score: High (>70%), Medium (40-70%), Low (<40%)

App Features:
- Job Feed: Shows available jobs with match scores
- Applications: Track your job applications
- Resume: Upload and update your resume
- Settings: Update preferences

When users ask about jobs, extract filters from their query and respond with:
1. A natural language answer
2. Extracted filters in JSON format
3. Suggested next steps

When users ask about the app, give clear instructions.`

// 规则抽取使用的固定短语表
var (
	extractorSkillPhrases = []string{"react", "node", "python", "javascript", "typescript", "figma", "ux"}
	extractorCityPhrases  = []string{"san francisco", "new york", "austin", "chicago", "boston", "seattle"}
)

// QueryFilterExtractor 把自由文本查询解析为结构化过滤条件。
// 结构化部分始终由本地规则抽取产生——自由文本经远端模型往返后
// 的结构化结果不可信；补全服务只负责自然语言回答，失败时替换为
// 本地的预置回答，绝不阻断过滤条件抽取。
type QueryFilterExtractor struct {
	llmModel model.ToolCallingChatModel // 为nil时始终使用预置回答
	logger   zerolog.Logger
}

// NewQueryFilterExtractor 创建查询过滤抽取器
func NewQueryFilterExtractor(llmModel model.ToolCallingChatModel, logger zerolog.Logger) *QueryFilterExtractor {
	return &QueryFilterExtractor{
		llmModel: llmModel,
		logger:   logger,
	}
}

// Extract 解析自由文本查询，返回自然语言回答、结构化过滤条件和意图类别
func (e *QueryFilterExtractor) Extract(ctx context.Context, query string) *types.ChatReply {
	// 规则抽取无条件执行
	filters := ExtractFiltersFromQuery(query)
	queryType := DetermineQueryType(query)

	response := ""
	if e.llmModel != nil {
		remote, err := e.remoteResponse(ctx, query)
		if err != nil {
			e.logger.Warn().Err(err).Msg("聊天补全失败，使用预置回答")
		} else {
			response = remote
		}
	}
	if response == "" {
		response = cannedResponse(query)
	}

	return &types.ChatReply{
		Response: response,
		Filters:  filters,
		Type:     queryType,
	}
}

// remoteResponse 向补全服务请求自然语言回答
func (e *QueryFilterExtractor) remoteResponse(ctx context.Context, query string) (string, error) {
	messages := []*einoschema.Message{
		einoschema.SystemMessage(chatSystemPrompt),
		einoschema.UserMessage(query),
	}
	response, err := e.llmModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", errEmptyReply
	}
	return response.Content, nil
}

var errEmptyReply = &emptyReplyError{}

type emptyReplyError struct{}

func (*emptyReplyError) Error() string { return "补全服务返回空回复" }

// ExtractFiltersFromQuery 规则抽取：对固定短语集做大小写不敏感的子串匹配。
// 每个维度独立，按固定优先级取首个命中（技能维度收集所有命中）；
// 没有短语命中的维度保持未设置，不会默认为"all"。
func ExtractFiltersFromQuery(query string) types.FilterSet {
	filters := types.FilterSet{}
	q := strings.ToLower(query)

	// 雇佣类型
	switch {
	case strings.Contains(q, "full-time") || strings.Contains(q, "full time"):
		filters.JobType = "fulltime"
	case strings.Contains(q, "part-time") || strings.Contains(q, "part time"):
		filters.JobType = "parttime"
	case strings.Contains(q, "contract"):
		filters.JobType = "contractor"
	case strings.Contains(q, "intern"):
		filters.JobType = "intern"
	}

	// 工作模式
	switch {
	case strings.Contains(q, "remote"):
		filters.WorkMode = "remote"
	case strings.Contains(q, "hybrid"):
		filters.WorkMode = "hybrid"
	case strings.Contains(q, "onsite") || strings.Contains(q, "on-site"):
		filters.WorkMode = "onsite"
	}

	// 技能：收集所有命中，不止第一个
	var foundSkills []string
	for _, skill := range extractorSkillPhrases {
		if strings.Contains(q, skill) {
			foundSkills = append(foundSkills, skill)
		}
	}
	if len(foundSkills) > 0 {
		filters.Skills = strings.Join(foundSkills, ",")
	}

	// 地点：只取第一个命中的城市
	for _, city := range extractorCityPhrases {
		if strings.Contains(q, city) {
			filters.Location = city
			break
		}
	}

	// 发布时间
	switch {
	case strings.Contains(q, "today") || strings.Contains(q, "24 hour"):
		filters.DatePosted = "24h"
	case strings.Contains(q, "week"):
		filters.DatePosted = "week"
	}

	// 资历
	switch {
	case strings.Contains(q, "senior"):
		filters.Query = "senior developer"
	case strings.Contains(q, "junior"):
		filters.Query = "junior developer"
	}

	return filters
}

// DetermineQueryType 按固定优先级对查询意图分类，仅作UI路由提示
func DetermineQueryType(query string) types.QueryType {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "application") || strings.Contains(q, "applied"):
		return types.QueryTypeApplications
	case strings.Contains(q, "resume") || strings.Contains(q, "upload"):
		return types.QueryTypeResume
	case strings.Contains(q, "match") || strings.Contains(q, "score"):
		return types.QueryTypeMatching
	case strings.Contains(q, "how") || strings.Contains(q, "where") || strings.Contains(q, "what"):
		return types.QueryTypeHelp
	default:
		return types.QueryTypeJobs
	}
}

// cannedResponse 补全服务不可用时的预置自然语言回答
func cannedResponse(query string) string {
	q := strings.ToLower(query)

	switch {
	case strings.Contains(q, "remote react"):
		return "I'll show you remote React jobs. These positions typically require React, JavaScript, and modern frontend frameworks. I'm filtering for remote positions with React in the requirements."
	case strings.Contains(q, "ux") || strings.Contains(q, "figma"):
		return "Here are UX/UI design jobs requiring Figma. These positions often need skills in user research, wireframing, and design systems."
	case strings.Contains(q, "application"):
		return "You can view your applications in the 'Applications' section in the sidebar. There you'll see all jobs you've applied to, with their current status and timeline."
	default:
		return "I can help you find jobs, track applications, and answer questions about the job tracker. Try asking about specific jobs or features!"
	}
}
