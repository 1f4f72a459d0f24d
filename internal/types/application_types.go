package types

// ApplicationStatus 投递状态
type ApplicationStatus string

const (
	// StatusApplied 已投递
	StatusApplied ApplicationStatus = "applied"
	// StatusInterview 面试中
	StatusInterview ApplicationStatus = "interview"
	// StatusOffer 已获Offer
	StatusOffer ApplicationStatus = "offer"
	// StatusRejected 已拒绝
	StatusRejected ApplicationStatus = "rejected"
)

// ValidApplicationStatus 校验状态是否属于闭合集合
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case StatusApplied, StatusInterview, StatusOffer, StatusRejected:
		return true
	}
	return false
}

// Application 一条投递记录（以JSON形式存入用户的Redis HASH）
type Application struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	JobID       string            `json:"job_id"`
	JobTitle    string            `json:"job_title"`
	Company     string            `json:"company"`
	Location    string            `json:"location"` // "city, country"
	JobType     EmploymentType    `json:"job_type"`
	WorkMode    string            `json:"work_mode"` // remote / onsite
	ApplyLink   string            `json:"apply_link,omitempty"`
	Status      ApplicationStatus `json:"status"`
	AppliedDate string            `json:"applied_date"` // RFC3339
	MatchScore  int               `json:"match_score"`
	LastUpdated string            `json:"last_updated"` // RFC3339
	Notes       string            `json:"notes"`
}

// ApplicationStats 投递统计
type ApplicationStats struct {
	Total          int                       `json:"total"`
	ByStatus       map[ApplicationStatus]int `json:"byStatus"`
	AvgMatchScore  int                       `json:"avgMatchScore"`
	RecentActivity []ActivityEntry           `json:"recentActivity"`
}

// ActivityEntry 最近动态条目
type ActivityEntry struct {
	Action  string `json:"action"`
	Date    string `json:"date"`
	Company string `json:"company"`
}
