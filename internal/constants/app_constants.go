package constants

import "time"

const (
	// 匹配分数分级阈值
	HighMatchThreshold   = 70 // match_score >= 70 为 high
	MediumMatchThreshold = 40 // match_score >= 40 为 medium，低于为 low

	// BestMatchLimit 最佳匹配列表的最大条数
	BestMatchLimit = 6

	// PromptTruncateLen LLM 评分时简历和岗位文本各自截断的最大字符数
	PromptTruncateLen = 1000

	// ResumeFingerprintLen 简历指纹长度（MD5十六进制前N位）
	ResumeFingerprintLen = 8

	// 缓存TTL默认值（可被配置覆盖）
	MatchScoreCacheTTL = 24 * time.Hour // 匹配分数缓存
	JobFeedCacheTTL    = 1 * time.Hour  // 岗位列表缓存

	// RemoteCallTimeout 所有出站网络调用的默认超时
	RemoteCallTimeout = 10 * time.Second

	// MaxResumeTextLen 简历文本的最大长度（字符数）
	MaxResumeTextLen = 10000

	// MaxChatMessageLen 聊天消息的最大长度
	MaxChatMessageLen = 500
)
