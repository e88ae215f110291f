package syncstrategy

import (
	"errors"
	"fmt"
	"strconv"
)

// ThreadCounts 每个策略被测量的并发调用方数量
var ThreadCounts = []int{1, 2, 8}

var ErrInvalidThreads = errors.New("thread count must be one of 1, 2, 8")

// Scenario 一个 (策略, 并发数) 组合，两者都是固定配置
type Scenario struct {
	Kind    Kind
	Threads int
}

// Scenarios 返回全部 12 个组合，顺序稳定
func Scenarios() []Scenario {
	out := make([]Scenario, 0, len(Kinds)*len(ThreadCounts))
	for _, k := range Kinds {
		for _, n := range ThreadCounts {
			out = append(out, Scenario{Kind: k, Threads: n})
		}
	}
	return out
}

func (s Scenario) Name() string {
	return string(s.Kind) + "/" + strconv.Itoa(s.Threads)
}

func (s Scenario) Validate() error {
	if !validThreads(s.Threads) {
		return fmt.Errorf("scenario %s: %w", s.Name(), ErrInvalidThreads)
	}
	return nil
}

func validThreads(n int) bool {
	for _, v := range ThreadCounts {
		if v == n {
			return true
		}
	}
	return false
}

// Setup 每次测量迭代开始前单线程调用一次，重新构造计数器和策略，
// 迭代之间不携带任何状态。返回错误时该迭代必须放弃，不做重试。
func (s Scenario) Setup() (*Iteration, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	c := NewCounter()
	st, err := New(s.Kind, c)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", s.Name(), err)
	}
	return &Iteration{scenario: s, counter: c, strategy: st}, nil
}

// Iteration 一次测量迭代独占的状态
type Iteration struct {
	scenario Scenario
	counter  *Counter
	strategy Strategy
}

func (it *Iteration) Scenario() Scenario { return it.scenario }

// Measure 被测入口，由 Threads 个 worker 并发反复调用
func (it *Iteration) Measure() {
	it.strategy.Increment()
}

// Value 迭代结束后计数器的最终值
func (it *Iteration) Value() int64 {
	return it.counter.Value()
}
