package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"job-copilot-go/internal/agent"
)

func newTestScorer(llm *agent.MockChatModel) *MatchScorer {
	if llm == nil {
		return NewMatchScorer(nil, zerolog.Nop())
	}
	return NewMatchScorer(llm, zerolog.Nop())
}

func TestScore_RemotePath(t *testing.T) {
	mockLLM := agent.NewMockChatModel(`{"score": 85, "reasons": ["Strong React experience"]}`, nil)
	scorer := newTestScorer(mockLLM)

	result := scorer.Score(context.Background(), "react developer resume", "react job")

	require.NotNil(t, result)
	assert.Equal(t, 85, result.Score)
	assert.Equal(t, []string{"Strong React experience"}, result.Reasons)
}

func TestScore_RemoteJSONEmbeddedInProse(t *testing.T) {
	// 模型回复里混有说明文字，应该抽取出其中的JSON对象
	mockLLM := agent.NewMockChatModel(`Here is my assessment: {"score": 60, "reasons": ["Partial match"]} Hope this helps!`, nil)
	scorer := newTestScorer(mockLLM)

	result := scorer.Score(context.Background(), "resume", "job")

	assert.Equal(t, 60, result.Score)
}

func TestScore_RemoteReplyWithLeadingBOM(t *testing.T) {
	// 部分模型回复开头带有U+FEFF，应当剥掉后正常解析
	mockLLM := agent.NewMockChatModel("\ufeff"+`{"score": 72, "reasons": ["Solid overlap"]}`, nil)
	scorer := newTestScorer(mockLLM)

	result := scorer.Score(context.Background(), "react developer resume", "react job")

	require.NotNil(t, result)
	assert.Equal(t, 72, result.Score)
	assert.Equal(t, []string{"Solid overlap"}, result.Reasons)
}

func TestScore_RemoteFailureFallsBackToLocal(t *testing.T) {
	mockLLM := agent.NewMockChatModel("", errors.New("connection refused"))
	scorer := newTestScorer(mockLLM)

	result := scorer.Score(context.Background(),
		"I know react and python",
		"Looking for react and python developer")

	// 本地回退：岗位2个技能全部命中
	require.NotNil(t, result)
	assert.Equal(t, 100, result.Score)
	assert.Contains(t, result.Reasons, "Matched skill: react")
	assert.Contains(t, result.Reasons, "Matched skill: python")
}

func TestScore_RemoteFailureRecordsSpanError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	ctx, span := tp.Tracer("test").Start(context.Background(), "score")

	mockLLM := agent.NewMockChatModel("", errors.New("boom"))
	scorer := newTestScorer(mockLLM)
	scorer.Score(ctx, "react resume", "react job")
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Attributes(), attribute.String("error.type", "llm"))
}

func TestScore_InvalidRemoteScoreFallsBack(t *testing.T) {
	// 超出0-100范围的分数视为远端失败
	mockLLM := agent.NewMockChatModel(`{"score": 150, "reasons": []}`, nil)
	scorer := newTestScorer(mockLLM)

	result := scorer.Score(context.Background(), "react", "react job")

	require.NotNil(t, result)
	assert.LessOrEqual(t, result.Score, 100)
}

func TestScore_UnparsableReplyFallsBack(t *testing.T) {
	mockLLM := agent.NewMockChatModel("I think this is a great match!", nil)
	scorer := newTestScorer(mockLLM)

	result := scorer.Score(context.Background(), "react developer", "react job")

	// 无JSON可抽取，回退本地计算
	require.NotNil(t, result)
	assert.Equal(t, 100, result.Score)
}

func TestScore_NilModelUsesLocalPath(t *testing.T) {
	scorer := newTestScorer(nil)

	result := scorer.Score(context.Background(),
		"react and node developer",
		"need react, node and python")

	// 岗位3个技能命中2个: round(200/3) = 67
	assert.Equal(t, 67, result.Score)
	assert.Len(t, result.Reasons, 2)
}

func TestLocalScore_NoJobSkills(t *testing.T) {
	scorer := newTestScorer(nil)

	result := scorer.Score(context.Background(), "react developer", "general manager position")

	// 岗位无词表技能，分母取1，分数为0
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.Reasons)
}

func TestLocalScore_Deterministic(t *testing.T) {
	scorer := newTestScorer(nil)

	resume := "react node python"
	job := "react python javascript"

	first := scorer.Score(context.Background(), resume, job)
	second := scorer.Score(context.Background(), resume, job)

	assert.Equal(t, first, second)
}

func TestExtractJSONObject(t *testing.T) {
	assert.Equal(t, `{"a": 1}`, extractJSONObject(`prefix {"a": 1} suffix`))
	assert.Equal(t, `{"a": {"b": 2}}`, extractJSONObject(`{"a": {"b": 2}}`))
	assert.Equal(t, "", extractJSONObject("no json here"))
	assert.Equal(t, "", extractJSONObject("{unbalanced"))
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abcdef", 3))
	assert.Equal(t, "abc", truncateRunes("abc", 10))
	// 多字节字符按字符数截断，不会截断在字节中间
	assert.Equal(t, "简历", truncateRunes("简历内容", 2))
}
