package jobsource

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-copilot-go/internal/types"
)

func TestMockJobs_Deterministic(t *testing.T) {
	now := time.Unix(1700000000, 0)

	first := MockJobs(now)
	second := MockJobs(now)

	assert.Equal(t, first, second)
}

func TestMockJobs_Shape(t *testing.T) {
	now := time.Now()
	jobs := MockJobs(now)

	require.Len(t, jobs, 20)

	assert.Equal(t, "mock_0", jobs[0].ID)
	assert.Equal(t, "mock_19", jobs[19].ID)
	assert.Equal(t, "Senior React Developer", jobs[0].Title)
	assert.Equal(t, "Tech Corp Inc", jobs[0].EmployerName)
	assert.Equal(t, types.EmploymentFulltime, jobs[0].EmploymentType)

	// 每3条有1条远程
	remoteCount := 0
	for i, job := range jobs {
		if job.IsRemote {
			remoteCount++
			assert.Zero(t, i%3)
		}
	}
	assert.Equal(t, 7, remoteCount)

	// 发布时间逐日递减
	for i := 1; i < len(jobs); i++ {
		assert.Equal(t, int64(86400), jobs[i-1].PostedAt-jobs[i].PostedAt)
	}

	// 偶数下标有薪资
	assert.NotEmpty(t, jobs[0].Salary)
	assert.Empty(t, jobs[1].Salary)
}

func TestCacheDigest_StableAndSorted(t *testing.T) {
	a := &types.FilterSet{Query: "react", WorkMode: "remote", Skills: "react,node"}
	b := &types.FilterSet{Skills: "react,node", Query: "react", WorkMode: "remote"}

	assert.Equal(t, CacheDigest(a), CacheDigest(b))
	assert.Equal(t, "query=react&skills=react,node&work_mode=remote", CacheDigest(a))
}

func TestCacheDigest_EmptyFilters(t *testing.T) {
	assert.Equal(t, "default", CacheDigest(&types.FilterSet{}))
}

func TestCacheDigest_DistinguishesFilters(t *testing.T) {
	a := CacheDigest(&types.FilterSet{WorkMode: "remote"})
	b := CacheDigest(&types.FilterSet{WorkMode: "onsite"})

	assert.NotEqual(t, a, b)
}
