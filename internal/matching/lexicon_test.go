package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSkills_BasicMatch(t *testing.T) {
	skills := ExtractSkills("Experienced React developer with Node.js and Python background")

	assert.Contains(t, skills, "react")
	assert.Contains(t, skills, "node")
	assert.Contains(t, skills, "python")
	assert.NotContains(t, skills, "figma")
}

func TestExtractSkills_CaseInsensitive(t *testing.T) {
	lower := ExtractSkills("react typescript docker")
	upper := ExtractSkills("REACT TYPESCRIPT DOCKER")

	assert.Equal(t, lower, upper)
}

func TestExtractSkills_OrderFollowsLexicon(t *testing.T) {
	// 输入文本顺序与词表顺序相反，结果仍按词表顺序返回
	skills := ExtractSkills("figma angular python react")

	assert.Equal(t, []string{"react", "python", "angular", "figma"}, skills)
}

func TestExtractSkills_SubstringSemantics(t *testing.T) {
	// 词表匹配是子串语义："javascript" 同时命中 "javascript" 和内嵌的其他token
	skills := ExtractSkills("javascript")

	assert.Contains(t, skills, "javascript")
}

func TestExtractSkills_NoMatch(t *testing.T) {
	skills := ExtractSkills("experienced accountant with excel background")

	assert.Empty(t, skills)
}

func TestExtractSkills_Deterministic(t *testing.T) {
	text := "react node python javascript typescript"
	first := ExtractSkills(text)
	second := ExtractSkills(text)

	assert.Equal(t, first, second)
}
