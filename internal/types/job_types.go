package types

// EmploymentType 表示岗位的雇佣类型
type EmploymentType string

const (
	// EmploymentFulltime 全职
	EmploymentFulltime EmploymentType = "FULLTIME"
	// EmploymentParttime 兼职
	EmploymentParttime EmploymentType = "PARTTIME"
	// EmploymentContractor 合同工
	EmploymentContractor EmploymentType = "CONTRACTOR"
	// EmploymentIntern 实习
	EmploymentIntern EmploymentType = "INTERN"
)

// MatchLevel 匹配分数分级
type MatchLevel string

const (
	// MatchLevelHigh 高匹配 (score >= 70)
	MatchLevelHigh MatchLevel = "high"
	// MatchLevelMedium 中匹配 (40 <= score < 70)
	MatchLevelMedium MatchLevel = "medium"
	// MatchLevelLow 低匹配 (score < 40)
	MatchLevelLow MatchLevel = "low"
)

// Job 岗位信息（外部来源或内置样本，创建后不可变）
type Job struct {
	ID             string         `json:"job_id"`
	Title          string         `json:"job_title"`
	EmployerName   string         `json:"employer_name"`
	City           string         `json:"job_city"`
	Country        string         `json:"job_country"`
	Description    string         `json:"job_description"`
	EmploymentType EmploymentType `json:"job_employment_type"`
	IsRemote       bool           `json:"job_is_remote"`
	PostedAt       int64          `json:"job_posted_at_timestamp"` // 秒级时间戳
	RequiredSkills string         `json:"job_required_skills"`     // 逗号分隔的自由文本
	ApplyLink      string         `json:"job_apply_link,omitempty"`
	Salary         string         `json:"job_salary,omitempty"`
}

// Text 返回岗位用于匹配的全文（标题+描述+技能）
func (j *Job) Text() string {
	return j.Title + " " + j.Description + " " + j.RequiredSkills
}

// ScoredJob 带匹配分数的岗位快照
// 每次评分请求创建新实例，创建后不再修改；简历变化时被新快照取代而不是更新。
type ScoredJob struct {
	Job
	MatchScore   int        `json:"match_score"`
	MatchReasons []string   `json:"match_reasons"`
	MatchLevel   MatchLevel `json:"match_level"`
}

// MatchResult 评分器的原始输出
type MatchResult struct {
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}

// LevelForScore 根据固定阈值把分数映射到匹配等级
func LevelForScore(score int) MatchLevel {
	switch {
	case score >= 70:
		return MatchLevelHigh
	case score >= 40:
		return MatchLevelMedium
	default:
		return MatchLevelLow
	}
}

// FilterSet 结构化的岗位过滤条件（闭合模式）
// 约定：零值或"all"表示该维度不过滤；各维度之间是AND关系，
// Skills维度内部是OR关系（命中任意一个技能即保留）。
type FilterSet struct {
	Query          string `json:"query,omitempty"`
	JobType        string `json:"job_type,omitempty"`    // fulltime/parttime/contractor/intern/all
	WorkMode       string `json:"work_mode,omitempty"`   // remote/hybrid/onsite/all
	DatePosted     string `json:"date_posted,omitempty"` // 24h/week/month/all
	MatchScoreBand string `json:"match_score,omitempty"` // high/medium/low/all
	Location       string `json:"location,omitempty"`
	Skills         string `json:"skills,omitempty"` // 逗号分隔的技能token
	Page           int    `json:"page,omitempty"`
}

// IsEmpty 判断是否没有任何生效的过滤条件
func (f *FilterSet) IsEmpty() bool {
	return !isSet(f.Query) && !isSet(f.JobType) && !isSet(f.WorkMode) &&
		!isSet(f.DatePosted) && !isSet(f.MatchScoreBand) && !isSet(f.Location) &&
		!isSet(f.Skills)
}

// isSet 判断某个过滤维度是否给出了有效约束
func isSet(v string) bool {
	return v != "" && v != "all"
}

// IsConstraint 导出版本，供过滤引擎按维度判断
func IsConstraint(v string) bool {
	return isSet(v)
}

// QueryType 聊天助手识别出的意图类别
type QueryType string

const (
	QueryTypeApplications QueryType = "applications"
	QueryTypeResume       QueryType = "resume"
	QueryTypeMatching     QueryType = "matching"
	QueryTypeHelp         QueryType = "help"
	QueryTypeJobs         QueryType = "jobs"
)

// ChatReply 聊天助手的完整回复
type ChatReply struct {
	Response string    `json:"response"` // 自然语言回答
	Filters  FilterSet `json:"filters"`  // 规则抽取出的结构化过滤条件
	Type     QueryType `json:"type"`     // 意图类别，仅作UI路由提示
}
