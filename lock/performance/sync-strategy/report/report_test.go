package report

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	syncstrategy "lock-bench/lock/performance/sync-strategy"
)

var at = time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

func sample() Result {
	sc := syncstrategy.Scenario{Kind: syncstrategy.Unsync, Threads: 8}
	return NewResult(sc, 3, 80000, 4*time.Millisecond, 79000, at)
}

func TestNewResult(t *testing.T) {
	r := sample()
	if r.Scenario != "unsync/8" || r.Strategy != "unsync" || r.Threads != 8 || r.Iteration != 3 {
		t.Fatalf("unexpected identity fields: %+v", r)
	}
	if r.LostUpdates != 1000 {
		t.Errorf("LostUpdates = %d, want 1000", r.LostUpdates)
	}
	if r.NsPerOp != 50 {
		t.Errorf("NsPerOp = %v, want 50", r.NsPerOp)
	}

	zero := NewResult(syncstrategy.Scenario{Kind: syncstrategy.ExplicitLock, Threads: 1}, 0, 0, time.Millisecond, 0, at)
	if zero.NsPerOp != 0 {
		t.Errorf("NsPerOp with no calls = %v, want 0", zero.NsPerOp)
	}
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	s := NewJSONSink(&buf)
	if err := s.Write(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), buf.String())
	}
	var got Result
	if err := sonic.UnmarshalString(lines[0], &got); err != nil {
		t.Fatal(err)
	}
	want := sample()
	if got.Scenario != want.Scenario || got.Calls != want.Calls || got.Elapsed != want.Elapsed || !got.Time.Equal(want.Time) {
		t.Errorf("decoded %+v, want %+v", got, want)
	}
	if !strings.Contains(lines[0], `"lost_updates":1000`) {
		t.Errorf("line missing lost_updates: %s", lines[0])
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSink(t *testing.T) {
	w := &fakeWriter{}
	s := &KafkaSink{w: w}
	if err := s.Write(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "unsync/8" || !msg.Time.Equal(at) {
		t.Errorf("unexpected message key/time: %q %v", msg.Key, msg.Time)
	}
	var got Result
	if err := sonic.Unmarshal(msg.Value, &got); err != nil {
		t.Fatal(err)
	}
	if got.Calls != 80000 {
		t.Errorf("Calls = %d, want 80000", got.Calls)
	}
	if err := s.Close(); err != nil || !w.closed {
		t.Errorf("Close err = %v, closed = %v", err, w.closed)
	}

	boom := errors.New("broker down")
	s = &KafkaSink{w: &fakeWriter{err: boom}}
	if err := s.Write(context.Background(), sample()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestKafkaConf_Enabled(t *testing.T) {
	if (KafkaConf{}).Enabled() {
		t.Error("empty conf enabled")
	}
	if !(KafkaConf{Brokers: []string{"localhost:9092"}}).Enabled() {
		t.Error("conf with brokers disabled")
	}
}

type fakeCollection struct {
	docs []interface{}
}

func (f *fakeCollection) InsertOne(_ context.Context, doc interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	f.docs = append(f.docs, doc)
	return &mongo.InsertOneResult{InsertedID: len(f.docs)}, nil
}

func TestMongoSink(t *testing.T) {
	coll := &fakeCollection{}
	s := &MongoSink{coll: coll, timeout: time.Second}
	if err := s.Write(context.Background(), sample()); err != nil {
		t.Fatal(err)
	}
	if len(coll.docs) != 1 {
		t.Fatalf("got %d docs, want 1", len(coll.docs))
	}
	raw, err := bson.Marshal(coll.docs[0])
	if err != nil {
		t.Fatal(err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"scenario", "strategy", "threads", "calls", "elapsed_ns", "final_value", "lost_updates"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document missing %q: %v", key, doc)
		}
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close err = %v", err)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	r := sample()
	if err := m.Write(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if err := m.Write(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(m.nsPerOp.WithLabelValues("unsync", "8")); got != 50 {
		t.Errorf("ns_per_op = %v, want 50", got)
	}
	if got := testutil.ToFloat64(m.calls.WithLabelValues("unsync", "8")); got != 160000 {
		t.Errorf("calls_total = %v, want 160000", got)
	}
	if got := testutil.ToFloat64(m.lost.WithLabelValues("unsync", "8")); got != 2000 {
		t.Errorf("lost_updates_total = %v, want 2000", got)
	}
}

type errSink struct{ err error }

func (s errSink) Write(context.Context, Result) error { return s.err }
func (s errSink) Close() error                        { return s.err }

func TestMulti(t *testing.T) {
	var buf bytes.Buffer
	ok := NewJSONSink(&buf)
	m := Multi{ok, errSink{errors.New("first")}, errSink{errors.New("second")}}

	err := m.Write(context.Background(), sample())
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"first", "second"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
	if buf.Len() == 0 {
		t.Error("healthy sink skipped after failing sink")
	}
	if err := m.Close(); err == nil {
		t.Error("expected close error")
	}
	if err := (Multi{ok}).Write(context.Background(), sample()); err != nil {
		t.Errorf("err = %v, want nil", err)
	}
}
