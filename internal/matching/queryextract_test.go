package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-copilot-go/internal/agent"
	"job-copilot-go/internal/types"
)

func TestExtractFiltersFromQuery_RemoteReact(t *testing.T) {
	filters := ExtractFiltersFromQuery("Show me remote React jobs")

	assert.Equal(t, "remote", filters.WorkMode)
	assert.Contains(t, filters.Skills, "react")
}

func TestExtractFiltersFromQuery_JobTypePriority(t *testing.T) {
	assert.Equal(t, "fulltime", ExtractFiltersFromQuery("looking for full-time work").JobType)
	assert.Equal(t, "fulltime", ExtractFiltersFromQuery("full time position").JobType)
	assert.Equal(t, "parttime", ExtractFiltersFromQuery("part-time roles please").JobType)
	assert.Equal(t, "contractor", ExtractFiltersFromQuery("contract positions").JobType)
	assert.Equal(t, "intern", ExtractFiltersFromQuery("internship openings").JobType)
}

func TestExtractFiltersFromQuery_WorkModePriority(t *testing.T) {
	// remote 优先于 hybrid 和 onsite
	assert.Equal(t, "remote", ExtractFiltersFromQuery("remote or hybrid jobs").WorkMode)
	assert.Equal(t, "hybrid", ExtractFiltersFromQuery("hybrid jobs").WorkMode)
	assert.Equal(t, "onsite", ExtractFiltersFromQuery("on-site roles").WorkMode)
}

func TestExtractFiltersFromQuery_SkillsCollectAll(t *testing.T) {
	filters := ExtractFiltersFromQuery("jobs needing react and python and figma")

	assert.Equal(t, "react,python,figma", filters.Skills)
}

func TestExtractFiltersFromQuery_LocationFirstHit(t *testing.T) {
	filters := ExtractFiltersFromQuery("jobs in new york or austin")

	// 只取短语表顺序下的第一个命中
	assert.Equal(t, "new york", filters.Location)
}

func TestExtractFiltersFromQuery_DatePosted(t *testing.T) {
	assert.Equal(t, "24h", ExtractFiltersFromQuery("jobs posted today").DatePosted)
	assert.Equal(t, "24h", ExtractFiltersFromQuery("last 24 hours").DatePosted)
	assert.Equal(t, "week", ExtractFiltersFromQuery("jobs from this week").DatePosted)
	assert.Empty(t, ExtractFiltersFromQuery("jobs from this month").DatePosted)
}

func TestExtractFiltersFromQuery_Seniority(t *testing.T) {
	assert.Equal(t, "senior developer", ExtractFiltersFromQuery("senior backend role").Query)
	assert.Equal(t, "junior developer", ExtractFiltersFromQuery("junior positions").Query)
}

func TestExtractFiltersFromQuery_NoHitsLeavesUnset(t *testing.T) {
	filters := ExtractFiltersFromQuery("tell me about the weather")

	assert.True(t, filters.IsEmpty())
}

func TestDetermineQueryType_Priority(t *testing.T) {
	assert.Equal(t, types.QueryTypeApplications, DetermineQueryType("how are my applications doing"))
	assert.Equal(t, types.QueryTypeApplications, DetermineQueryType("jobs I applied to"))
	assert.Equal(t, types.QueryTypeResume, DetermineQueryType("how do I upload my file"))
	assert.Equal(t, types.QueryTypeMatching, DetermineQueryType("why is my match score low"))
	assert.Equal(t, types.QueryTypeHelp, DetermineQueryType("what can you do"))
	// "show"包含"how"，因此被归为help
	assert.Equal(t, types.QueryTypeHelp, DetermineQueryType("show me remote jobs"))
	assert.Equal(t, types.QueryTypeJobs, DetermineQueryType("remote react roles"))
}

func TestExtract_RemoteResponseUsed(t *testing.T) {
	mockLLM := agent.NewMockChatModel("Sure, here are some remote React roles for you.", nil)
	extractor := NewQueryFilterExtractor(mockLLM, zerolog.Nop())

	reply := extractor.Extract(context.Background(), "remote React jobs please")

	require.NotNil(t, reply)
	assert.Equal(t, "Sure, here are some remote React roles for you.", reply.Response)
	// 结构化过滤条件始终来自规则抽取，与模型回复无关
	assert.Equal(t, "remote", reply.Filters.WorkMode)
	assert.Contains(t, reply.Filters.Skills, "react")
	assert.Equal(t, types.QueryTypeJobs, reply.Type)
}

func TestExtract_RemoteFailureUsesCannedResponse(t *testing.T) {
	mockLLM := agent.NewMockChatModel("", errors.New("timeout"))
	extractor := NewQueryFilterExtractor(mockLLM, zerolog.Nop())

	reply := extractor.Extract(context.Background(), "show me remote react jobs")

	require.NotNil(t, reply)
	assert.Contains(t, reply.Response, "remote React jobs")
	// 过滤条件不受远端失败影响
	assert.Equal(t, "remote", reply.Filters.WorkMode)
}

func TestExtract_NilModelUsesCannedResponse(t *testing.T) {
	extractor := NewQueryFilterExtractor(nil, zerolog.Nop())

	applications := extractor.Extract(context.Background(), "where are my applications")
	assert.Contains(t, applications.Response, "Applications")
	assert.Equal(t, types.QueryTypeApplications, applications.Type)

	ux := extractor.Extract(context.Background(), "figma design jobs")
	assert.Contains(t, ux.Response, "UX/UI")

	generic := extractor.Extract(context.Background(), "hello there")
	assert.Contains(t, generic.Response, "I can help you find jobs")
}

func TestExtract_EmptyRemoteReplyFallsBack(t *testing.T) {
	mockLLM := agent.NewMockChatModel("   ", nil)
	extractor := NewQueryFilterExtractor(mockLLM, zerolog.Nop())

	reply := extractor.Extract(context.Background(), "hello")

	assert.Contains(t, reply.Response, "I can help you find jobs")
}
