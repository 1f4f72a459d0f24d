package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-copilot-go/internal/storage"
	"job-copilot-go/internal/types"
)

// fakeStore 内存版投递记录存储
type fakeStore struct {
	entries map[string]map[string]types.Application
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]map[string]types.Application)}
}

func (f *fakeStore) SetApplication(ctx context.Context, userID string, app *types.Application) error {
	if f.entries[userID] == nil {
		f.entries[userID] = make(map[string]types.Application)
	}
	f.entries[userID][app.ID] = *app
	return nil
}

func (f *fakeStore) GetApplication(ctx context.Context, userID, applicationID string) (*types.Application, error) {
	app, ok := f.entries[userID][applicationID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &app, nil
}

func (f *fakeStore) ListApplications(ctx context.Context, userID string) ([]types.Application, error) {
	apps := make([]types.Application, 0, len(f.entries[userID]))
	for _, app := range f.entries[userID] {
		apps = append(apps, app)
	}
	return apps, nil
}

func (f *fakeStore) DeleteApplication(ctx context.Context, userID, applicationID string) error {
	delete(f.entries[userID], applicationID)
	return nil
}

// recordingPublisher 记录发布的事件
type recordingPublisher struct {
	events []*storage.ApplicationEvent
}

func (r *recordingPublisher) PublishApplicationEvent(ctx context.Context, event *storage.ApplicationEvent) {
	r.events = append(r.events, event)
}

func sampleJob(id string, score int) *types.ScoredJob {
	return &types.ScoredJob{
		Job: types.Job{
			ID: id, Title: "React Developer", EmployerName: "Tech Corp",
			City: "Austin", Country: "USA",
			EmploymentType: types.EmploymentFulltime, IsRemote: true,
			ApplyLink: "https://example.com/apply/1",
		},
		MatchScore: score,
	}
}

func TestCreate_BuildsApplicationFromJobSnapshot(t *testing.T) {
	store := newFakeStore()
	publisher := &recordingPublisher{}
	svc := NewService(store, publisher)

	app, err := svc.Create(context.Background(), "u1", sampleJob("j1", 85))

	require.NoError(t, err)
	assert.True(t, len(app.ID) > 4 && app.ID[:4] == "app_")
	assert.Equal(t, "u1", app.UserID)
	assert.Equal(t, "j1", app.JobID)
	assert.Equal(t, "React Developer", app.JobTitle)
	assert.Equal(t, "Tech Corp", app.Company)
	assert.Equal(t, "Austin, USA", app.Location)
	assert.Equal(t, "remote", app.WorkMode)
	assert.Equal(t, types.StatusApplied, app.Status)
	assert.Equal(t, 85, app.MatchScore)
	assert.Empty(t, app.Notes)

	// applied_date 是有效的RFC3339时间
	_, parseErr := time.Parse(time.RFC3339, app.AppliedDate)
	assert.NoError(t, parseErr)

	// 发布created事件
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "created", publisher.events[0].Event)
	assert.Equal(t, app.ID, publisher.events[0].ApplicationID)
}

func TestList_FiltersAndSorts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	// 手工写入不同时间和状态的记录
	store.SetApplication(ctx, "u1", &types.Application{
		ID: "a1", JobTitle: "React Developer", Company: "Tech Corp",
		Status: types.StatusApplied, AppliedDate: "2026-08-01T10:00:00Z",
	})
	store.SetApplication(ctx, "u1", &types.Application{
		ID: "a2", JobTitle: "UX Designer", Company: "Design Studio",
		Status: types.StatusInterview, AppliedDate: "2026-08-20T10:00:00Z",
	})
	store.SetApplication(ctx, "u1", &types.Application{
		ID: "a3", JobTitle: "Backend Developer", Company: "Tech Corp",
		Status: types.StatusApplied, AppliedDate: "2026-08-10T10:00:00Z",
	})

	all, err := svc.List(ctx, "u1", ListFilters{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// 按投递时间倒序
	assert.Equal(t, "a2", all[0].ID)
	assert.Equal(t, "a3", all[1].ID)
	assert.Equal(t, "a1", all[2].ID)

	applied, err := svc.List(ctx, "u1", ListFilters{Status: "applied"})
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	// search 匹配标题或公司名，大小写不敏感
	byCompany, err := svc.List(ctx, "u1", ListFilters{Search: "tech corp"})
	require.NoError(t, err)
	assert.Len(t, byCompany, 2)

	byTitle, err := svc.List(ctx, "u1", ListFilters{Search: "ux"})
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "a2", byTitle[0].ID)
}

func TestList_StatusAllIsUnconstrained(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	store.SetApplication(ctx, "u1", &types.Application{ID: "a1", Status: types.StatusApplied})

	apps, err := svc.List(ctx, "u1", ListFilters{Status: "all"})
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestUpdate_StatusAndNotes(t *testing.T) {
	store := newFakeStore()
	publisher := &recordingPublisher{}
	svc := NewService(store, publisher)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", sampleJob("j1", 70))
	require.NoError(t, err)

	newStatus := types.StatusInterview
	notes := "phone screen scheduled"
	updated, err := svc.Update(ctx, "u1", created.ID, UpdateFields{Status: &newStatus, Notes: &notes})

	require.NoError(t, err)
	assert.Equal(t, types.StatusInterview, updated.Status)
	assert.Equal(t, "phone screen scheduled", updated.Notes)
	// created + updated 两个事件
	assert.Len(t, publisher.events, 2)
	assert.Equal(t, "updated", publisher.events[1].Event)
}

func TestUpdate_InvalidStatusRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", sampleJob("j1", 70))
	require.NoError(t, err)

	bad := types.ApplicationStatus("ghosted")
	_, err = svc.Update(ctx, "u1", created.ID, UpdateFields{Status: &bad})

	assert.Error(t, err)
}

func TestUpdate_MissingReturnsNotFound(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	_, err := svc.Update(context.Background(), "u1", "app_missing", UpdateFields{})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesRecord(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", sampleJob("j1", 70))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "u1", created.ID))

	apps, err := svc.List(ctx, "u1", ListFilters{})
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestStats_Aggregation(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	store.SetApplication(ctx, "u1", &types.Application{
		ID: "a1", JobTitle: "React Developer", Company: "Tech Corp",
		Status: types.StatusApplied, MatchScore: 80,
		AppliedDate: "2026-08-01T10:00:00Z", LastUpdated: "2026-08-01T10:00:00Z",
	})
	store.SetApplication(ctx, "u1", &types.Application{
		ID: "a2", JobTitle: "UX Designer", Company: "Design Studio",
		Status: types.StatusInterview, MatchScore: 61,
		AppliedDate: "2026-08-02T10:00:00Z", LastUpdated: "2026-08-05T10:00:00Z",
	})

	stats, err := svc.Stats(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.ByStatus[types.StatusApplied])
	assert.Equal(t, 1, stats.ByStatus[types.StatusInterview])
	assert.Equal(t, 0, stats.ByStatus[types.StatusOffer])
	// (80+61)/2 = 70.5 四舍五入为71
	assert.Equal(t, 71, stats.AvgMatchScore)

	require.Len(t, stats.RecentActivity, 2)
	assert.Equal(t, "Interview: UX Designer", stats.RecentActivity[0].Action)
	assert.Equal(t, "Design Studio", stats.RecentActivity[0].Company)
}

func TestStats_EmptyUser(t *testing.T) {
	svc := NewService(newFakeStore(), nil)

	stats, err := svc.Stats(context.Background(), "nobody")

	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.AvgMatchScore)
	assert.Empty(t, stats.RecentActivity)
}

func TestStats_RecentActivityCappedAtFive(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, nil)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		store.SetApplication(ctx, "u1", &types.Application{
			ID: string(rune('a' + i)), JobTitle: "Job", Company: "Co",
			Status:      types.StatusApplied,
			AppliedDate: time.Date(2026, 8, i+1, 0, 0, 0, 0, time.UTC).Format(time.RFC3339),
		})
	}

	stats, err := svc.Stats(ctx, "u1")

	require.NoError(t, err)
	assert.Equal(t, 8, stats.Total)
	assert.Len(t, stats.RecentActivity, 5)
}
