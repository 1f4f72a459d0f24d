package matching

import (
	"sort"
	"strings"
	"time"

	"job-copilot-go/internal/constants"
	"job-copilot-go/internal/types"
)

// 日期过滤窗口
var datePostedWindows = map[string]time.Duration{
	"24h":   24 * time.Hour,
	"week":  7 * 24 * time.Hour,
	"month": 30 * 24 * time.Hour,
}

// ApplyFilters 把结构化过滤条件应用到已评分的岗位集合。
// 各维度之间是纯粹的AND关系；Skills维度内部是OR关系。
// 空过滤集原样返回输入（元素和顺序都不变）。
func ApplyFilters(jobs []types.ScoredJob, filters types.FilterSet) []types.ScoredJob {
	return applyFiltersAt(jobs, filters, time.Now())
}

// applyFiltersAt 以显式的当前时间执行过滤，按固定顺序逐维度收窄：
// 关键词 → 雇佣类型 → 工作模式 → 技能 → 发布时间 → 分数分级
func applyFiltersAt(jobs []types.ScoredJob, filters types.FilterSet, now time.Time) []types.ScoredJob {
	if filters.IsEmpty() {
		return jobs
	}

	filtered := jobs

	// 关键词：标题/公司/描述上的大小写不敏感子串匹配
	if types.IsConstraint(filters.Query) {
		query := strings.ToLower(filters.Query)
		filtered = keep(filtered, func(job *types.ScoredJob) bool {
			return strings.Contains(strings.ToLower(job.Title), query) ||
				strings.Contains(strings.ToLower(job.EmployerName), query) ||
				strings.Contains(strings.ToLower(job.Description), query)
		})
	}

	// 雇佣类型：精确匹配
	if types.IsConstraint(filters.JobType) {
		jobType := strings.ToLower(filters.JobType)
		filtered = keep(filtered, func(job *types.ScoredJob) bool {
			return strings.ToLower(string(job.EmploymentType)) == jobType
		})
	}

	// 工作模式：remote/onsite 看 IsRemote，hybrid 看描述中是否出现 "hybrid"
	if types.IsConstraint(filters.WorkMode) {
		switch filters.WorkMode {
		case "remote":
			filtered = keep(filtered, func(job *types.ScoredJob) bool { return job.IsRemote })
		case "onsite":
			filtered = keep(filtered, func(job *types.ScoredJob) bool { return !job.IsRemote })
		case "hybrid":
			filtered = keep(filtered, func(job *types.ScoredJob) bool {
				return strings.Contains(strings.ToLower(job.Description), "hybrid")
			})
		}
	}

	// 技能：OR语义——命中任意一个请求技能即保留
	if types.IsConstraint(filters.Skills) {
		requested := splitSkills(filters.Skills)
		filtered = keep(filtered, func(job *types.ScoredJob) bool {
			jobText := strings.ToLower(job.Title + " " + job.Description + " " + job.RequiredSkills)
			for _, skill := range requested {
				if strings.Contains(jobText, skill) {
					return true
				}
			}
			return false
		})
	}

	// 发布时间：严格的时间下界，postedAt 必须晚于 now-window
	if types.IsConstraint(filters.DatePosted) {
		if window, ok := datePostedWindows[filters.DatePosted]; ok {
			cutoff := now.Add(-window).Unix()
			filtered = keep(filtered, func(job *types.ScoredJob) bool {
				return job.PostedAt > cutoff
			})
		}
	}

	// 分数分级：使用评分阶段算好的分数，不重新计算
	if types.IsConstraint(filters.MatchScoreBand) {
		switch filters.MatchScoreBand {
		case "high":
			filtered = keep(filtered, func(job *types.ScoredJob) bool {
				return job.MatchScore >= constants.HighMatchThreshold
			})
		case "medium":
			filtered = keep(filtered, func(job *types.ScoredJob) bool {
				return job.MatchScore >= constants.MediumMatchThreshold &&
					job.MatchScore < constants.HighMatchThreshold
			})
		case "low":
			filtered = keep(filtered, func(job *types.ScoredJob) bool {
				return job.MatchScore < constants.MediumMatchThreshold
			})
		}
	}

	return filtered
}

// BestMatches 返回最佳匹配：按分数降序排序后取 score>=70 的前6条。
// 输入不会被修改。
func BestMatches(jobs []types.ScoredJob) []types.ScoredJob {
	sorted := make([]types.ScoredJob, len(jobs))
	copy(sorted, jobs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MatchScore > sorted[j].MatchScore
	})

	best := make([]types.ScoredJob, 0, constants.BestMatchLimit)
	for _, job := range sorted {
		if job.MatchScore < constants.HighMatchThreshold {
			continue
		}
		best = append(best, job)
		if len(best) == constants.BestMatchLimit {
			break
		}
	}
	return best
}

// keep 保留谓词为真的岗位（不修改输入切片）
func keep(jobs []types.ScoredJob, pred func(*types.ScoredJob) bool) []types.ScoredJob {
	out := make([]types.ScoredJob, 0, len(jobs))
	for i := range jobs {
		if pred(&jobs[i]) {
			out = append(out, jobs[i])
		}
	}
	return out
}

// splitSkills 把逗号分隔的技能串拆成小写token
func splitSkills(skills string) []string {
	parts := strings.Split(skills, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
