package jobsource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"job-copilot-go/internal/config"
	"job-copilot-go/internal/constants"
	"job-copilot-go/internal/logger"
	"job-copilot-go/internal/tracing"
	"job-copilot-go/internal/types"
)

// Client 外部岗位搜索服务客户端。
// 未配置API Key时进入离线模式，返回内置样本岗位；
// 远程调用失败同样回退样本，岗位列表接口永远有数据可给。
type Client struct {
	apiKey     string
	apiHost    string
	httpClient *http.Client
	useMock    bool
}

// searchResponse 远程搜索接口的响应包装
type searchResponse struct {
	Data []types.Job `json:"data"`
}

// NewClient 创建岗位来源客户端
func NewClient(cfg *config.JobSourceConfig) *Client {
	timeout := constants.RemoteCallTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		useMock: cfg.APIKey == "",
	}
}

// FetchJobs 按过滤条件获取岗位列表。
// 只把远程接口支持的维度下推（query/page/雇佣类型/发布时间/远程），
// 其余维度由本地过滤引擎处理。失败时回退样本数据并记录日志。
func (c *Client) FetchJobs(ctx context.Context, filters *types.FilterSet) []types.Job {
	if c.useMock {
		return MockJobs(time.Now())
	}

	jobs, err := c.fetchRemote(ctx, filters)
	if err != nil {
		tracing.RecordErrorWithInfo(trace.SpanFromContext(ctx), err, tracing.ErrorTypeJobSource,
			attribute.String("job_source.host", c.apiHost))
		logger.Ctx(ctx).Warn().Err(err).Msg("远程岗位搜索失败, 回退样本数据")
		return MockJobs(time.Now())
	}
	return jobs
}

// fetchRemote 调用远程搜索接口
func (c *Client) fetchRemote(ctx context.Context, filters *types.FilterSet) ([]types.Job, error) {
	query := filters.Query
	if query == "" {
		query = "developer"
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("page", strconv.Itoa(page))
	params.Set("num_pages", "1")
	if types.IsConstraint(filters.JobType) {
		params.Set("employment_types", strings.ToUpper(filters.JobType))
	}
	if types.IsConstraint(filters.DatePosted) {
		params.Set("date_posted", filters.DatePosted)
	}
	if filters.WorkMode == "remote" {
		params.Set("remote_jobs_only", "true")
	}
	if filters.Location != "" {
		params.Set("location", filters.Location)
	}

	endpoint := fmt.Sprintf("https://%s/search?%s", c.apiHost, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("构造岗位搜索请求失败: %w", err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.apiHost)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("岗位搜索请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("岗位搜索接口返回非预期状态码: %d", resp.StatusCode)
		tracing.RecordHTTPError(trace.SpanFromContext(ctx), err, resp.StatusCode)
		return nil, err
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("解析岗位搜索响应失败: %w", err)
	}

	if parsed.Data == nil {
		return []types.Job{}, nil
	}
	return parsed.Data, nil
}

// CacheDigest 把过滤条件规整为稳定的缓存键摘要。
// 维度按名称排序，保证同样的条件集合总是产生同一个键。
func CacheDigest(filters *types.FilterSet) string {
	fields := map[string]string{
		"query":       filters.Query,
		"job_type":    filters.JobType,
		"work_mode":   filters.WorkMode,
		"date_posted": filters.DatePosted,
		"match_score": filters.MatchScoreBand,
		"location":    filters.Location,
		"skills":      filters.Skills,
	}
	if filters.Page > 0 {
		fields["page"] = strconv.Itoa(filters.Page)
	}

	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fields[k])
	}
	if len(parts) == 0 {
		return "default"
	}
	return strings.Join(parts, "&")
}
