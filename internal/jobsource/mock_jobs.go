package jobsource

import (
	"fmt"
	"time"

	"job-copilot-go/internal/types"
)

// 离线模式下的示例数据，标题、公司、技能按下标循环组合
var (
	mockJobTitles = []string{
		"Senior React Developer",
		"Full Stack Engineer",
		"DevOps Engineer",
		"UX Designer",
		"Product Manager",
		"Backend Developer",
		"Frontend Developer",
		"Data Scientist",
	}

	mockCompanies = []string{
		"Tech Corp Inc",
		"Startup XYZ",
		"Big Tech Co",
		"Innovation Labs",
		"Digital Solutions",
	}

	mockSkills = []string{
		"React, JavaScript, TypeScript",
		"Node.js, MongoDB, AWS",
		"Python, Django, PostgreSQL",
		"Figma, Sketch, Adobe XD",
		"Kubernetes, Docker, CI/CD",
	}

	mockCities = []string{"San Francisco", "New York", "Austin", "Remote"}
)

// MockJobs 生成20条示例岗位。
// 发布时间相对now逐日递减，每3条有1条远程岗位。
func MockJobs(now time.Time) []types.Job {
	jobs := make([]types.Job, 0, 20)
	for i := 0; i < 20; i++ {
		title := mockJobTitles[i%len(mockJobTitles)]
		salary := ""
		if i%2 == 0 {
			salary = "$120,000 - $150,000"
		}
		jobs = append(jobs, types.Job{
			ID:             fmt.Sprintf("mock_%d", i),
			Title:          title,
			EmployerName:   mockCompanies[i%len(mockCompanies)],
			Country:        "USA",
			City:           mockCities[i%len(mockCities)],
			Description:    fmt.Sprintf("We are looking for a skilled %s with experience in modern technologies.", title),
			EmploymentType: types.EmploymentType([]string{"FULLTIME", "PARTTIME", "CONTRACTOR", "INTERN"}[i%4]),
			IsRemote:       i%3 == 0,
			PostedAt:       now.Unix() - int64(i)*86400,
			RequiredSkills: mockSkills[i%len(mockSkills)],
			ApplyLink:      fmt.Sprintf("https://example.com/apply/%d", i),
			Salary:         salary,
		})
	}
	return jobs
}
