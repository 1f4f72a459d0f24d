package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "", MaskPII(""))
	assert.Equal(t, "*", MaskPII("a"))
	assert.Equal(t, "a*", MaskPII("ab"))
	assert.Equal(t, "a*c", MaskPII("abc"))
	assert.Equal(t, "my***************om", MaskPII("myemail@example.com"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))

	long := strings.Repeat("a", 50) + strings.Repeat("b", 50)
	out := TruncateString(long, 21)
	assert.Contains(t, out, "...")
	assert.LessOrEqual(t, len(out), 21)
}

func TestSafeAttributeValue_MasksSensitiveNames(t *testing.T) {
	masked := SafeAttributeValue("user.email", "someone@example.com", DefaultMaxLength)
	assert.NotContains(t, masked, "someone@example")

	plain := SafeAttributeValue("job.id", "mock_3", DefaultMaxLength)
	assert.Equal(t, "mock_3", plain)
}

func TestSafeRedisKey(t *testing.T) {
	assert.Equal(t, "app:user:resume:u1", SafeRedisKey("app:user:resume:u1"))

	long := "app:user:resume:" + strings.Repeat("x", 200)
	out := SafeRedisKey(long)
	assert.LessOrEqual(t, len(out), MaxRedisLength)
	assert.Contains(t, out, "...")
}

func TestSafeResumeContent(t *testing.T) {
	long := strings.Repeat("resume ", 100)
	out := SafeResumeContent(long)
	assert.LessOrEqual(t, len(out), MaxResumeLength)
}
