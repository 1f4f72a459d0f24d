package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"

	"job-copilot-go/internal/agent"
	"job-copilot-go/internal/api/handler"
	"job-copilot-go/internal/api/router"
	"job-copilot-go/internal/application"
	"job-copilot-go/internal/config"
	"job-copilot-go/internal/jobsource"
	appLogger "job-copilot-go/internal/logger"
	"job-copilot-go/internal/matching"
	"job-copilot-go/internal/parser"
	"job-copilot-go/internal/storage"
	"job-copilot-go/internal/tracing"
)

func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appLogger.Init(appLogger.Config{Level: "info", Format: "pretty"})
		appLogger.Fatal().Err(err).Msg("加载配置失败")
	}

	appLogger.Init(appLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	// 把Hertz的框架日志接到zerolog
	glog.SetLogger(hertzadapter.From(appLogger.Logger))
	appLogger.Info().Str("config", configPath).Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitTracerProvider(ctx, &cfg.Tracing)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}

	storageManager, err := storage.NewStorage(cfg)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()

	// LLM：未配置API Key时不接入远程模型，评分和聊天走本地回退路径
	var llmModel model.ToolCallingChatModel
	if cfg.OpenAI.APIKey != "" {
		llmModel, err = agent.NewOpenAIChatModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.APIURL,
			agent.WithTemperature(cfg.OpenAI.Temperature),
			agent.WithMaxTokens(cfg.OpenAI.MaxTokens),
			agent.WithHTTPTimeout(time.Duration(cfg.OpenAI.TimeoutSeconds)*time.Second),
		)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("初始化OpenAI聊天模型失败")
		}
		appLogger.Info().Str("model", cfg.OpenAI.Model).Msg("OpenAI聊天模型初始化成功")
	} else {
		appLogger.Warn().Msg("未配置OpenAI API Key, 评分和聊天将使用本地规则")
	}

	pdfExtractor, err := parser.NewResumePDFExtractor(ctx)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("创建简历PDF提取器失败")
	}

	scorer := matching.NewMatchScorer(llmModel, appLogger.Logger)
	scoreCache := matching.NewScoreCache(storageManager.Redis, cfg.Match.ScoreCacheTTL(), appLogger.Logger)
	extractor := matching.NewQueryFilterExtractor(llmModel, appLogger.Logger)
	engine := matching.NewEngine(scorer, scoreCache, extractor, cfg.Match.ScoreConcurrency, appLogger.Logger)

	jobClient := jobsource.NewClient(&cfg.JobSource)

	var publisher application.EventPublisher
	if storageManager.RabbitMQ != nil {
		publisher = storageManager.RabbitMQ
	}
	appService := application.NewService(storageManager.Redis, publisher)

	handlers := &router.Handlers{
		Job:         handler.NewJobHandler(engine, jobClient, storageManager.Redis, cfg.Match.FeedCacheTTL()),
		Resume:      handler.NewResumeHandler(storageManager.Redis, storageManager.MinIO, pdfExtractor),
		Application: handler.NewApplicationHandler(appService, storageManager.Redis),
		Chat:        handler.NewChatHandler(engine),
	}

	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))

	router.RegisterRoutes(h, handlers, cfg.Server.APIKey)
	appLogger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器启动中")

	go func() {
		if err := h.Run(); err != nil {
			appLogger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("接收到终止信号, 正在优雅退出")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("服务器关闭失败")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		appLogger.Warn().Err(err).Msg("链路追踪关闭失败")
	}
	appLogger.Info().Msg("优雅退出完成")
}
