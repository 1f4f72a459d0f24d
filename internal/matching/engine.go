package matching

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"job-copilot-go/internal/types"
)

const defaultScoreConcurrency = 8

// Engine 匹配引擎：聚合评分器、分数缓存和查询抽取器，
// 对外提供四个核心操作：ScoreJobs / FilterJobs / BestMatches / ExtractFilters。
// 进程启动时构造一次，显式传入各处理层，不使用包级单例。
type Engine struct {
	scorer      *MatchScorer
	cache       *ScoreCache
	extractor   *QueryFilterExtractor
	concurrency int
	logger      zerolog.Logger
}

// NewEngine 创建匹配引擎。concurrency<=0 时使用默认并发度。
func NewEngine(scorer *MatchScorer, cache *ScoreCache, extractor *QueryFilterExtractor, concurrency int, logger zerolog.Logger) *Engine {
	if concurrency <= 0 {
		concurrency = defaultScoreConcurrency
	}
	return &Engine{
		scorer:      scorer,
		cache:       cache,
		extractor:   extractor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ScoreJobs 为每个岗位标注匹配分数并按分数降序返回。
//
// 简历为空时是文档化的短路：所有岗位得到 {score:0, reasons:[], level:low}，
// 不触碰缓存也不调用评分器，输入顺序保持不变。
//
// 有简历时按岗位做有界扇出（每个岗位一次独立的评分调用，乱序完成、
// 可独立取消），全部完成后统一按分数降序排序——扇出的部分完成顺序
// 不会在结果中暴露。
func (e *Engine) ScoreJobs(ctx context.Context, jobs []types.Job, resumeText string) []types.ScoredJob {
	if resumeText == "" {
		scored := make([]types.ScoredJob, len(jobs))
		for i, job := range jobs {
			scored[i] = types.ScoredJob{
				Job:          job,
				MatchScore:   0,
				MatchReasons: []string{},
				MatchLevel:   types.MatchLevelLow,
			}
		}
		return scored
	}

	fingerprint := Fingerprint(resumeText)
	scored := make([]types.ScoredJob, len(jobs))

	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup
	for i := range jobs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			job := &jobs[idx]
			scored[idx] = *e.cache.GetOrCompute(ctx, fingerprint, job, func() *types.ScoredJob {
				result := e.scorer.Score(ctx, resumeText, job.Text())
				return &types.ScoredJob{
					Job:          *job,
					MatchScore:   result.Score,
					MatchReasons: result.Reasons,
					MatchLevel:   types.LevelForScore(result.Score),
				}
			})
		}(i)
	}
	wg.Wait()

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].MatchScore > scored[j].MatchScore
	})
	return scored
}

// FilterJobs 把结构化过滤条件应用到已评分的岗位集合
func (e *Engine) FilterJobs(jobs []types.ScoredJob, filters types.FilterSet) []types.ScoredJob {
	return ApplyFilters(jobs, filters)
}

// BestMatches 返回分数>=70的前6条最佳匹配
func (e *Engine) BestMatches(jobs []types.ScoredJob) []types.ScoredJob {
	return BestMatches(jobs)
}

// ExtractFilters 把自由文本查询解析为结构化过滤条件和自然语言回答
func (e *Engine) ExtractFilters(ctx context.Context, query string) *types.ChatReply {
	return e.extractor.Extract(ctx, query)
}
