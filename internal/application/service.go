// Package application 管理用户的投递记录：创建、查询、更新、删除和统计。
// 记录以JSON形式存在每个用户独立的Redis HASH里，变更时会向消息队列
// 发布旁路事件供下游订阅。
package application

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"job-copilot-go/internal/logger"
	"job-copilot-go/internal/storage"
	"job-copilot-go/internal/types"
)

// Store 投递记录需要的存储操作，由Redis适配器实现
type Store interface {
	SetApplication(ctx context.Context, userID string, app *types.Application) error
	GetApplication(ctx context.Context, userID, applicationID string) (*types.Application, error)
	ListApplications(ctx context.Context, userID string) ([]types.Application, error)
	DeleteApplication(ctx context.Context, userID, applicationID string) error
}

// EventPublisher 投递事件发布接口，nil实现表示不发布
type EventPublisher interface {
	PublishApplicationEvent(ctx context.Context, event *storage.ApplicationEvent)
}

// Service 投递记录服务
type Service struct {
	store     Store
	publisher EventPublisher
	logger    zerolog.Logger
}

// NewService 创建投递记录服务。publisher可为nil。
func NewService(store Store, publisher EventPublisher) *Service {
	return &Service{
		store:     store,
		publisher: publisher,
		logger:    logger.Logger.With().Str("component", "application_service").Logger(),
	}
}

// ErrNotFound 指定的投递记录不存在
var ErrNotFound = fmt.Errorf("application not found")

// ListFilters 投递记录的查询条件
type ListFilters struct {
	Status string // applied/interview/offer/rejected, 空或"all"不过滤
	Search string // 匹配岗位标题或公司名（不区分大小写）
}

// UpdateFields 投递记录的可更新字段，nil表示不修改
type UpdateFields struct {
	Status *types.ApplicationStatus
	Notes  *string
}

// Create 基于岗位快照创建投递记录，初始状态为applied
func (s *Service) Create(ctx context.Context, userID string, job *types.ScoredJob) (*types.Application, error) {
	now := time.Now().UTC().Format(time.RFC3339)

	workMode := "onsite"
	if job.IsRemote {
		workMode = "remote"
	}

	app := &types.Application{
		ID:          "app_" + uuid.NewString(),
		UserID:      userID,
		JobID:       job.ID,
		JobTitle:    job.Title,
		Company:     job.EmployerName,
		Location:    fmt.Sprintf("%s, %s", job.City, job.Country),
		JobType:     job.EmploymentType,
		WorkMode:    workMode,
		ApplyLink:   job.ApplyLink,
		Status:      types.StatusApplied,
		AppliedDate: now,
		MatchScore:  job.MatchScore,
		LastUpdated: now,
		Notes:       "",
	}

	if err := s.store.SetApplication(ctx, userID, app); err != nil {
		return nil, fmt.Errorf("保存投递记录失败: %w", err)
	}

	s.publish(ctx, "created", app)

	s.logger.Info().
		Str("user_id", userID).
		Str("application_id", app.ID).
		Str("job_id", app.JobID).
		Msg("投递记录创建成功")

	return app, nil
}

// List 查询用户的投递记录，按投递时间倒序排列
func (s *Service) List(ctx context.Context, userID string, filters ListFilters) ([]types.Application, error) {
	apps, err := s.store.ListApplications(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询投递记录失败: %w", err)
	}

	if filters.Status != "" && filters.Status != "all" {
		kept := apps[:0]
		for _, app := range apps {
			if string(app.Status) == filters.Status {
				kept = append(kept, app)
			}
		}
		apps = kept
	}

	if filters.Search != "" {
		term := strings.ToLower(filters.Search)
		kept := apps[:0]
		for _, app := range apps {
			if strings.Contains(strings.ToLower(app.JobTitle), term) ||
				strings.Contains(strings.ToLower(app.Company), term) {
				kept = append(kept, app)
			}
		}
		apps = kept
	}

	sort.SliceStable(apps, func(i, j int) bool {
		return apps[i].AppliedDate > apps[j].AppliedDate
	})

	return apps, nil
}

// Update 修改投递记录的状态或备注，记录不存在时返回ErrNotFound
func (s *Service) Update(ctx context.Context, userID, applicationID string, updates UpdateFields) (*types.Application, error) {
	app, err := s.store.GetApplication(ctx, userID, applicationID)
	if err != nil {
		if err == storage.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("读取投递记录失败: %w", err)
	}

	if updates.Status != nil {
		if !types.ValidApplicationStatus(*updates.Status) {
			return nil, fmt.Errorf("无效的投递状态: %s", *updates.Status)
		}
		app.Status = *updates.Status
	}
	if updates.Notes != nil {
		app.Notes = *updates.Notes
	}
	app.LastUpdated = time.Now().UTC().Format(time.RFC3339)

	if err := s.store.SetApplication(ctx, userID, app); err != nil {
		return nil, fmt.Errorf("保存投递记录失败: %w", err)
	}

	s.publish(ctx, "updated", app)

	return app, nil
}

// Delete 删除投递记录
func (s *Service) Delete(ctx context.Context, userID, applicationID string) error {
	if err := s.store.DeleteApplication(ctx, userID, applicationID); err != nil {
		return fmt.Errorf("删除投递记录失败: %w", err)
	}

	s.publish(ctx, "deleted", &types.Application{ID: applicationID, UserID: userID})
	return nil
}

// Stats 汇总用户的投递统计：总数、各状态计数、平均匹配分和最近5条动态
func (s *Service) Stats(ctx context.Context, userID string) (*types.ApplicationStats, error) {
	apps, err := s.List(ctx, userID, ListFilters{})
	if err != nil {
		return nil, err
	}

	stats := &types.ApplicationStats{
		Total: len(apps),
		ByStatus: map[types.ApplicationStatus]int{
			types.StatusApplied:   0,
			types.StatusInterview: 0,
			types.StatusOffer:     0,
			types.StatusRejected:  0,
		},
		RecentActivity: []types.ActivityEntry{},
	}

	totalScore := 0
	for _, app := range apps {
		stats.ByStatus[app.Status]++
		totalScore += app.MatchScore

		if len(stats.RecentActivity) < 5 {
			stats.RecentActivity = append(stats.RecentActivity, types.ActivityEntry{
				Action:  fmt.Sprintf("%s: %s", titleStatus(app.Status), app.JobTitle),
				Date:    app.LastUpdated,
				Company: app.Company,
			})
		}
	}

	if len(apps) > 0 {
		// 四舍五入到整数
		stats.AvgMatchScore = (totalScore + len(apps)/2) / len(apps)
	}

	return stats, nil
}

// publish 发布旁路事件，publisher未配置时跳过
func (s *Service) publish(ctx context.Context, event string, app *types.Application) {
	if s.publisher == nil {
		return
	}
	s.publisher.PublishApplicationEvent(ctx, &storage.ApplicationEvent{
		Event:         event,
		UserID:        app.UserID,
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Status:        string(app.Status),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	})
}

// titleStatus 把状态首字母大写，用于动态描述
func titleStatus(s types.ApplicationStatus) string {
	str := string(s)
	if str == "" {
		return str
	}
	return strings.ToUpper(str[:1]) + str[1:]
}
