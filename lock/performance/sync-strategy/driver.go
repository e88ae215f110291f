package syncstrategy

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// batch 两次检查停止标志之间连续调用 Measure 的次数
const batch = 256

var ErrInvalidCalls = errors.New("calls must not be negative")

// Drive 将 calls 次调用均分给 threads 个 worker，所有 worker 经同一个起跑闸门同时开始。
// 余数分给编号靠前的 worker，总调用次数恰好为 calls。
func Drive(it *Iteration, threads, calls int) error {
	if threads < 1 {
		return ErrInvalidThreads
	}
	if calls < 0 {
		return ErrInvalidCalls
	}
	per, rem := calls/threads, calls%threads
	start := make(chan struct{})
	var g errgroup.Group
	for w := 0; w < threads; w++ {
		n := per
		if w < rem {
			n++
		}
		g.Go(func() error {
			<-start
			for i := 0; i < n; i++ {
				it.Measure()
			}
			return nil
		})
	}
	close(start)
	return g.Wait()
}

// DriveFor 让 threads 个 worker 持续调用 Measure，直到 d 到期或 ctx 结束。
// 停止标志只在批次之间检查，单次 Measure 一旦开始必然执行完。
func DriveFor(ctx context.Context, it *Iteration, threads int, d time.Duration) (int64, time.Duration, error) {
	if threads < 1 {
		return 0, 0, ErrInvalidThreads
	}
	var (
		stop  atomic.Bool
		total atomic.Int64
	)
	start := make(chan struct{})
	var g errgroup.Group
	for w := 0; w < threads; w++ {
		g.Go(func() error {
			<-start
			var n int64
			for !stop.Load() {
				for i := 0; i < batch; i++ {
					it.Measure()
				}
				n += batch
			}
			total.Add(n)
			return nil
		})
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	begin := time.Now()
	close(start)
	var err error
	select {
	case <-timer.C:
	case <-ctx.Done():
		err = ctx.Err()
	}
	stop.Store(true)
	if werr := g.Wait(); werr != nil {
		err = werr
	}
	return total.Load(), time.Since(begin), err
}
