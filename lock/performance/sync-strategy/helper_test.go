package syncstrategy

import "testing"

func assertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func requireNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// setup 构造场景的一次迭代，失败即终止测试
func setup(t testing.TB, kind Kind, threads int) *Iteration {
	t.Helper()
	it, err := Scenario{Kind: kind, Threads: threads}.Setup()
	requireNoError(t, err)
	return it
}

// lockedKinds 提供互斥保证的三种策略
var lockedKinds = []Kind{ExplicitLock, ExclusiveMethod, ExclusiveBlock}
