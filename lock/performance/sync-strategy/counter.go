package syncstrategy

// Incrementer 被各同步策略包裹的单一操作
type Incrementer interface {
	Increment()
}

// Counter 非并发安全的计数器
//
// n 是一个普通的内存单元，Increment 是 读-改-写 三步：
//  1. 读取 c.n
//  2. 加 1
//  3. 写回（可能覆盖其他 goroutine 的写入）
//
// 多个 goroutine 无保护地调用时会丢失更新，这正是基准对比的对象，
// 不要改成 atomic.AddInt64，否则 unsync 基线就失去了意义。
type Counter struct {
	n int64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Increment() {
	c.n++
}

// Value 只应在所有 worker 退出后读取
func (c *Counter) Value() int64 {
	return c.n
}
