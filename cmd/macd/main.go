// =============================================================================
// MACD 主入口
// =============================================================================
// 多角色协商命令行入口，包含配置加载、Prometheus 指标、Redis 会话记录
//
// 使用方法:
//
//	macd run --topic "How should the assistant answer?"   # 运行协商
//	macd run --config config.yaml --preset roles.yaml     # 指定配置与角色
//	macd version                                          # 显示版本信息
// =============================================================================
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BaSui01/macd"
	"github.com/BaSui01/macd/agent"
	"github.com/BaSui01/macd/agent/persistence"
	"github.com/BaSui01/macd/config"
	"github.com/BaSui01/macd/llm/providers/openaicompat"
	"github.com/BaSui01/macd/negotiation"
	"github.com/BaSui01/macd/preset"
	"github.com/BaSui01/macd/types"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runNegotiation(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🖥️ run 命令
// =============================================================================

func runNegotiation(args []string) {
	// 解析命令行参数
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	topic := fs.String("topic", "", "Topic to negotiate")
	presetFlag := fs.String("preset", "HHH", "Built-in preset name or path to a preset YAML file")
	fs.Parse(args)

	if strings.TrimSpace(*topic) == "" {
		fmt.Fprintln(os.Stderr, "--topic is required")
		fs.Usage()
		os.Exit(1)
	}

	// 加载配置
	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.WithValidator((*config.Config).Validate).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	logger, err := cfg.Log.BuildLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting MACD",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
	)

	// 加载角色预设
	roles, err := loadPreset(*presetFlag)
	if err != nil {
		logger.Fatal("Failed to load preset", zap.Error(err))
	}

	// 初始化 LLM Provider
	provider := openaicompat.New(openaicompat.Config{
		ProviderName:  cfg.LLM.Provider,
		APIKey:        cfg.LLM.APIKey,
		BaseURL:       cfg.LLM.BaseURL,
		DefaultModel:  cfg.LLM.Model,
		FallbackModel: cfg.LLM.FallbackModel,
		Timeout:       cfg.LLM.Timeout,
	}, logger)

	opts := []macd.Option{
		macd.WithProvider(provider),
		macd.WithPreset(roles),
		macd.WithLogger(logger),
		macd.WithGroupConfig(agent.GroupConfig{
			Model:       cfg.LLM.Model,
			Temperature: float32(cfg.Agent.Temperature),
			MaxTokens:   cfg.Agent.MaxTokens,
			Timeout:     cfg.Agent.Timeout,
		}),
		macd.WithMaxTransitions(cfg.Negotiation.MaxTransitions),
	}

	// 可选: Redis 会话记录
	if cfg.Redis.Enabled {
		store, err := persistence.NewRedisTranscriptStore(cfg.Redis.Store())
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer store.Close()
		opts = append(opts, macd.WithTranscriptStore(store))
		logger.Info("Transcript persistence enabled", zap.String("addr", cfg.Redis.Addr))
	}

	// 可选: Prometheus 指标
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		opts = append(opts, macd.WithMetrics(negotiation.NewMetrics(registry)))
		go serveMetrics(cfg.Metrics.Addr, registry, logger)
	}

	// 运行协商，Ctrl-C 优雅退出
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proposals, err := macd.Negotiate(ctx, *topic, opts...)
	if err != nil {
		if types.GetErrorCode(err) == types.ErrTransitionCap {
			logger.Warn("Negotiation hit the transition cap", zap.Error(err))
		} else {
			logger.Fatal("Negotiation failed", zap.Error(err))
		}
	}

	printProposals(proposals)
}

// loadPreset 解析 --preset 参数: 文件路径或内置名称
func loadPreset(name string) (preset.Preset, error) {
	if _, err := os.Stat(name); err == nil {
		return preset.LoadFile(name)
	}
	if p, ok := preset.Builtin(name); ok {
		return p, nil
	}
	return preset.Preset{}, fmt.Errorf("unknown preset %q", name)
}

// serveMetrics 暴露 Prometheus 指标端点
func serveMetrics(addr string, registry *prometheus.Registry, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger.Info("Metrics endpoint listening", zap.String("addr", addr))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Metrics endpoint failed", zap.Error(err))
	}
}

// printProposals 输出最终采纳的提案
func printProposals(proposals []types.Proposal) {
	if len(proposals) == 0 {
		fmt.Println("\nNo proposals were endorsed.")
		return
	}
	fmt.Printf("\nEndorsed proposals (%d):\n", len(proposals))
	for i, p := range proposals {
		fmt.Printf("\n%d. %s\n", i+1, p)
	}
}

// =============================================================================
// ℹ️ version / help
// =============================================================================

func printVersion() {
	fmt.Printf("macd %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
}

func printUsage() {
	fmt.Println(`macd - multi-agent collaborative decision

Usage:
  macd run --topic "..." [--config config.yaml] [--preset HHH|roles.yaml]
  macd version
  macd help`)
}
