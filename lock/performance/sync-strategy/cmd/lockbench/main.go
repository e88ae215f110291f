package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/gops/agent"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"

	"lock-bench/lock/performance/sync-strategy/report"
	"lock-bench/lock/performance/sync-strategy/runner"
)

/*
独立运行四种同步策略的定时测量，不依赖 go test。

	go run ./lock/performance/sync-strategy/cmd/lockbench -f lock/performance/sync-strategy/etc/lockbench.yaml

每次迭代的结果以 JSON lines 写到 stdout，按配置可同时写入 Kafka、MongoDB，
或通过 /metrics 暴露给 Prometheus。
*/

var configFile = flag.String("f", "etc/lockbench.yaml", "the config file")

func main() {
	flag.Parse()

	var c runner.Config
	conf.MustLoad(*configFile, &c)
	logx.MustSetup(c.Log)
	if c.Log.Mode == "" || c.Log.Mode == "console" {
		// stdout 留给结果
		logx.SetWriter(logx.NewWriter(os.Stderr))
	}

	err := run(c)
	logx.Close()
	if err != nil {
		os.Exit(1)
	}
}

func run(c runner.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if c.Diagnostics.Gops {
		if err := agent.Listen(agent.Options{Addr: c.Diagnostics.GopsAddr}); err != nil {
			logx.Errorw("start gops agent", logx.Field("error", err.Error()))
		} else {
			defer agent.Close()
		}
	}

	sinks, shutdown, err := buildSinks(ctx, c)
	if err != nil {
		logx.Errorw("build sinks", logx.Field("error", err.Error()))
		return err
	}
	defer shutdown()
	defer func() {
		if err := sinks.Close(); err != nil {
			logx.Errorw("close sinks", logx.Field("error", err.Error()))
		}
	}()

	r, err := runner.New(c, sinks)
	if err != nil {
		logx.Errorw("invalid config", logx.Field("error", err.Error()))
		return err
	}
	if err := r.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			logx.Info("interrupted")
			return nil
		}
		logx.Errorw("run aborted", logx.Field("error", err.Error()))
		return err
	}
	return nil
}

func buildSinks(ctx context.Context, c runner.Config) (report.Multi, func(), error) {
	sinks := report.Multi{report.NewJSONSink(os.Stdout)}
	shutdown := func() {}

	if c.Diagnostics.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		sinks = append(sinks, report.NewMetrics(reg))
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: c.Diagnostics.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logx.Errorw("metrics server", logx.Field("error", err.Error()))
			}
		}()
		shutdown = func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(sctx)
		}
	}
	if c.Kafka.Enabled() {
		sinks = append(sinks, report.NewKafkaSink(c.Kafka))
	}
	if c.Mongo.Enabled() {
		ms, err := report.NewMongoSink(ctx, c.Mongo)
		if err != nil {
			shutdown()
			return nil, nil, err
		}
		sinks = append(sinks, ms)
	}
	return sinks, shutdown, nil
}
