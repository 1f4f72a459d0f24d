package matching

import "strings"

// skillLexicon 是评分使用的闭合技能词表。
// 词表只会追加扩充，顺序即遍历顺序，保证同样输入的抽取结果稳定。
var skillLexicon = []string{
	"react",
	"node",
	"python",
	"javascript",
	"typescript",
	"aws",
	"docker",
	"kubernetes",
	"html",
	"css",
	"mongodb",
	"postgresql",
	"graphql",
	"redux",
	"vue",
	"angular",
	"figma",
}

// ExtractSkills 把自由文本归一化为词表内命中的技能token集合。
// 纯函数：小写化后做子串匹配，返回顺序与词表顺序一致。
func ExtractSkills(text string) []string {
	lowered := strings.ToLower(text)
	var found []string
	for _, skill := range skillLexicon {
		if strings.Contains(lowered, skill) {
			found = append(found, skill)
		}
	}
	return found
}

// containsSkill 判断技能token是否在集合中
func containsSkill(set []string, skill string) bool {
	for _, s := range set {
		if s == skill {
			return true
		}
	}
	return false
}
