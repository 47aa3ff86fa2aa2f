package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/newplayman/indexer-client/internal/config"
	"github.com/newplayman/indexer-client/internal/metrics"
	"github.com/newplayman/indexer-client/internal/watchdog"
)

// logHooks 将健康状态切换写入日志
type logHooks struct{}

func (logHooks) OnUnhealthy(reason string) {
	log.Error().Str("reason", reason).Msg("索引器不健康")
}

func (logHooks) OnRecovered(reason string) {
	log.Info().Str("reason", reason).Msg("索引器已恢复")
}

func watchdogConfig(c config.WatchdogConfig) watchdog.Config {
	return watchdog.Config{
		Interval:          c.Interval(),
		FailureThreshold:  c.FailureThreshold,
		RecoveryThreshold: c.RecoveryThreshold,
		StaleAfter:        c.StaleAfter(),
		MaxClockSkew:      c.MaxClockSkew(),
	}
}

func runWatch(e *env, args []string) (any, error) {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	port := fs.Int("metrics-port", e.cfg.Global.MetricsPort, "Prometheus 端口，0 表示随机端口")
	if _, err := parseArgs(fs, args, 0); err != nil {
		return nil, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if _, err := metrics.StartMetricsServer(*port); err != nil {
		return nil, err
	}

	// 配置文件中的端点变化时切换客户端
	config.OnChange(func(c *config.Config) {
		next := c.Indexer.RESTEndpoint
		if next == e.client.Config().RESTEndpoint {
			return
		}
		if err := e.client.SetRESTEndpoint(next); err != nil {
			log.Error().Err(err).Str("endpoint", next).Msg("切换 REST 端点失败，继续使用旧端点")
		}
	})

	wd := watchdog.NewWatchdog(watchdogConfig(e.cfg.Watchdog), e.client, logHooks{})
	wd.Start(ctx)
	log.Info().
		Str("rest", e.client.Config().RESTEndpoint).
		Dur("interval", e.cfg.Watchdog.Interval()).
		Msg("索引器看门狗已启动，Ctrl+C 退出")

	<-ctx.Done()
	wd.Stop()
	log.Info().Msg("看门狗已停止")
	return wd.Status(), nil
}
