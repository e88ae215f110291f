package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	syncstrategy "lock-bench/lock/performance/sync-strategy"
	"lock-bench/lock/performance/sync-strategy/report"
)

var ErrNoIterations = errors.New("iterations must be positive")

// Runner 按顺序执行每个场景的若干次定时迭代。
// 每次迭代前调用一次 Setup；Setup 失败直接终止整个运行，不重试，
// 重试会让计时结果失真。
type Runner struct {
	scenarios  []syncstrategy.Scenario
	iterations int
	duration   time.Duration
	sink       report.Sink

	setup func(syncstrategy.Scenario) (*syncstrategy.Iteration, error)
	now   func() time.Time
}

func New(c Config, sink report.Sink) (*Runner, error) {
	scenarios, err := c.Scenarios()
	if err != nil {
		return nil, err
	}
	if c.Iterations < 1 {
		return nil, ErrNoIterations
	}
	return &Runner{
		scenarios:  scenarios,
		iterations: c.Iterations,
		duration:   c.Duration,
		sink:       sink,
		setup:      syncstrategy.Scenario.Setup,
		now:        time.Now,
	}, nil
}

func (r *Runner) Run(ctx context.Context) error {
	logx.Infow("run started",
		logx.Field("scenarios", len(r.scenarios)),
		logx.Field("iterations", r.iterations),
		logx.Field("duration", r.duration.String()))

	for _, sc := range r.scenarios {
		for i := 1; i <= r.iterations; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.iterate(ctx, sc, i); err != nil {
				return err
			}
		}
	}
	logx.Info("run finished")
	return nil
}

func (r *Runner) iterate(ctx context.Context, sc syncstrategy.Scenario, i int) error {
	it, err := r.setup(sc)
	if err != nil {
		logx.Errorw("setup failed, aborting",
			logx.Field("scenario", sc.Name()),
			logx.Field("iteration", i),
			logx.Field("error", err.Error()))
		return fmt.Errorf("runner: %s iteration %d: %w", sc.Name(), i, err)
	}

	calls, elapsed, err := syncstrategy.DriveFor(ctx, it, sc.Threads, r.duration)
	if err != nil {
		// 被中断的迭代不完整，丢弃
		return err
	}

	res := report.NewResult(sc, i, calls, elapsed, it.Value(), r.now())
	logx.Infow("iteration done",
		logx.Field("scenario", res.Scenario),
		logx.Field("iteration", i),
		logx.Field("calls", res.Calls),
		logx.Field("nsPerOp", res.NsPerOp),
		logx.Field("lostUpdates", res.LostUpdates))

	// 结果落地失败不影响测量本身，记录后继续
	if err := r.sink.Write(ctx, res); err != nil {
		logx.Errorw("write result",
			logx.Field("scenario", res.Scenario),
			logx.Field("error", err.Error()))
	}
	return nil
}
