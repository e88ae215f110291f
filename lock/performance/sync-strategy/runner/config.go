package runner

import (
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	syncstrategy "lock-bench/lock/performance/sync-strategy"
	"lock-bench/lock/performance/sync-strategy/report"
)

type DiagnosticsConf struct {
	// Gops 启动 gops agent，便于用 gops stack/memstats 观察运行中的进程
	Gops     bool   `json:",default=false"`
	GopsAddr string `json:",optional"`

	// MetricsAddr 非空时在该地址暴露 /metrics
	MetricsAddr string `json:",optional"`
}

type Config struct {
	Log logx.LogConf `json:",optional"`

	// Strategies 为空表示全部策略
	Strategies []string `json:",optional"`

	// Threads 为空表示 1, 2, 8
	Threads     []int            `json:",optional"`
	Iterations  int              `json:",default=5,range=[1:1000]"`
	Duration    time.Duration    `json:",default=1s"`
	Diagnostics DiagnosticsConf  `json:",optional"`
	Kafka       report.KafkaConf `json:",optional"`
	Mongo       report.MongoConf `json:",optional"`
}

// Scenarios 展开配置中的策略和并发数，任一非法值都会返回错误
func (c Config) Scenarios() ([]syncstrategy.Scenario, error) {
	kinds := syncstrategy.Kinds
	if len(c.Strategies) > 0 {
		kinds = make([]syncstrategy.Kind, 0, len(c.Strategies))
		for _, s := range c.Strategies {
			k, err := syncstrategy.ParseKind(s)
			if err != nil {
				return nil, fmt.Errorf("config: %w", err)
			}
			kinds = append(kinds, k)
		}
	}
	threads := syncstrategy.ThreadCounts
	if len(c.Threads) > 0 {
		threads = c.Threads
	}

	out := make([]syncstrategy.Scenario, 0, len(kinds)*len(threads))
	for _, k := range kinds {
		for _, n := range threads {
			sc := syncstrategy.Scenario{Kind: k, Threads: n}
			if err := sc.Validate(); err != nil {
				return nil, fmt.Errorf("config: %w", err)
			}
			out = append(out, sc)
		}
	}
	return out, nil
}
