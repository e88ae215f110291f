package report

import (
	"context"
	"io"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/zeromicro/go-zero/core/errorx"
)

// Sink 接收每次迭代的结果
type Sink interface {
	Write(ctx context.Context, r Result) error
	Close() error
}

// JSONSink 以 JSON lines 形式写出结果
type JSONSink struct {
	mu  sync.Mutex
	enc sonic.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{enc: sonic.ConfigDefault.NewEncoder(w)}
}

func (s *JSONSink) Write(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enc.Encode(r)
}

func (s *JSONSink) Close() error { return nil }

// Multi 把结果依次交给每个 Sink，单个 Sink 失败不影响其他 Sink
type Multi []Sink

func (m Multi) Write(ctx context.Context, r Result) error {
	var be errorx.BatchError
	for _, s := range m {
		be.Add(s.Write(ctx, r))
	}
	return be.Err()
}

func (m Multi) Close() error {
	var be errorx.BatchError
	for _, s := range m {
		be.Add(s.Close())
	}
	return be.Err()
}
