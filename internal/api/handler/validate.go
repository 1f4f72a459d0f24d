package handler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"job-copilot-go/internal/constants"
	"job-copilot-go/internal/types"
)

// 输入校验规则，与前端约定保持一致
var (
	validJobTypes   = map[string]bool{"all": true, "fulltime": true, "parttime": true, "contractor": true, "intern": true}
	validWorkModes  = map[string]bool{"all": true, "remote": true, "hybrid": true, "onsite": true}
	validDatePosted = map[string]bool{"all": true, "24h": true, "week": true, "month": true}
	validScoreBands = map[string]bool{"all": true, "high": true, "medium": true, "low": true}

	skillsPattern = regexp.MustCompile(`^[a-zA-Z0-9,]+$`)
)

// parseJobFilters 从查询参数解析并校验过滤条件
func parseJobFilters(get func(string) string) (*types.FilterSet, error) {
	filters := &types.FilterSet{
		Query:          get("query"),
		JobType:        strings.ToLower(get("job_type")),
		WorkMode:       strings.ToLower(get("work_mode")),
		DatePosted:     strings.ToLower(get("date_posted")),
		MatchScoreBand: strings.ToLower(get("match_score")),
		Location:       get("location"),
		Skills:         get("skills"),
	}

	if len(filters.Query) > 100 {
		return nil, fmt.Errorf("query must not exceed 100 characters")
	}
	if filters.JobType != "" && !validJobTypes[filters.JobType] {
		return nil, fmt.Errorf("invalid job_type: %s", filters.JobType)
	}
	if filters.WorkMode != "" && !validWorkModes[filters.WorkMode] {
		return nil, fmt.Errorf("invalid work_mode: %s", filters.WorkMode)
	}
	if filters.DatePosted != "" && !validDatePosted[filters.DatePosted] {
		return nil, fmt.Errorf("invalid date_posted: %s", filters.DatePosted)
	}
	if filters.MatchScoreBand != "" && !validScoreBands[filters.MatchScoreBand] {
		return nil, fmt.Errorf("invalid match_score: %s", filters.MatchScoreBand)
	}
	if len(filters.Location) > 50 {
		return nil, fmt.Errorf("location must not exceed 50 characters")
	}
	if filters.Skills != "" && !skillsPattern.MatchString(filters.Skills) {
		return nil, fmt.Errorf("skills must contain only letters, digits and commas")
	}

	if pageStr := get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 || page > 100 {
			return nil, fmt.Errorf("page must be an integer between 1 and 100")
		}
		filters.Page = page
	}

	return filters, nil
}

// validateResumeText 校验简历文本
func validateResumeText(text string) error {
	if text == "" {
		return fmt.Errorf("resume text is required")
	}
	if len([]rune(text)) > constants.MaxResumeTextLen {
		return fmt.Errorf("resume text must not exceed %d characters", constants.MaxResumeTextLen)
	}
	return nil
}

// validateChatMessage 校验聊天消息
func validateChatMessage(message string) error {
	if message == "" {
		return fmt.Errorf("message is required")
	}
	if len([]rune(message)) > constants.MaxChatMessageLen {
		return fmt.Errorf("message must not exceed %d characters", constants.MaxChatMessageLen)
	}
	return nil
}
