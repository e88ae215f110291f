package syncstrategy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zeromicro/go-zero/core/syncx"
)

// Kind 同步策略
type Kind string

const (
	// Unsync 无任何同步，直接调用，作为对照组
	Unsync Kind = "unsync"
	// ExplicitLock 独立分配的互斥锁句柄，Lock 后 defer Unlock
	ExplicitLock Kind = "lock"
	// ExclusiveMethod 锁嵌在包装对象自身，方法级互斥
	ExclusiveMethod Kind = "method"
	// ExclusiveBlock 专用锁令牌保护的代码块
	ExclusiveBlock Kind = "block"
)

// Kinds 按固定顺序列出全部策略
var Kinds = []Kind{Unsync, ExplicitLock, ExclusiveMethod, ExclusiveBlock}

var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrNilTarget       = errors.New("nil increment target")
)

// ParseKind 将策略名解析为 Kind
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Strategy 包裹 Increment 的同步策略，实例在一次迭代内被所有 worker 共享
type Strategy interface {
	Incrementer
	Kind() Kind
}

// New 为 target 构造一个全新的策略实例（连同它独占的锁）
func New(kind Kind, target Incrementer) (Strategy, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	switch kind {
	case Unsync:
		return &unsyncStrategy{target: target}, nil
	case ExplicitLock:
		return &lockStrategy{mu: new(sync.Mutex), target: target}, nil
	case ExclusiveMethod:
		return &methodStrategy{target: target}, nil
	case ExclusiveBlock:
		return &blockStrategy{token: new(syncx.Barrier), inc: target.Increment}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, kind)
	}
}

type unsyncStrategy struct {
	target Incrementer
}

func (s *unsyncStrategy) Kind() Kind { return Unsync }

func (s *unsyncStrategy) Increment() {
	s.target.Increment()
}

// lockStrategy 锁是一个独立的句柄，由策略持有而不是嵌入
type lockStrategy struct {
	mu     *sync.Mutex
	target Incrementer
}

func (s *lockStrategy) Kind() Kind { return ExplicitLock }

func (s *lockStrategy) Increment() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target.Increment()
}

// methodStrategy 互斥粒度绑定在实例上：同一实例的 Increment 同时只有一个在执行
type methodStrategy struct {
	sync.Mutex
	target Incrementer
}

func (s *methodStrategy) Kind() Kind { return ExclusiveMethod }

func (s *methodStrategy) Increment() {
	s.Lock()
	defer s.Unlock()
	s.target.Increment()
}

// blockStrategy 用专用令牌划出临界区，令牌既不是计数器也不是策略本身。
// inc 在构造时绑定，避免每次调用都生成新的方法值。
type blockStrategy struct {
	token *syncx.Barrier
	inc   func()
}

func (s *blockStrategy) Kind() Kind { return ExclusiveBlock }

func (s *blockStrategy) Increment() {
	s.token.Guard(s.inc)
}
