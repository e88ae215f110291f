package report

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/segmentio/kafka-go"
)

type KafkaConf struct {
	Brokers []string `json:",optional"`
	Topic   string   `json:",default=lockbench.results"`
}

func (c KafkaConf) Enabled() bool { return len(c.Brokers) > 0 }

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink 每个结果发送一条消息，key 为场景名，同一场景落在同一分区
type KafkaSink struct {
	w messageWriter
}

func NewKafkaSink(c KafkaConf) *KafkaSink {
	return &KafkaSink{w: &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  c.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

func (s *KafkaSink) Write(ctx context.Context, r Result) error {
	msg, err := kafkaMessage(r)
	if err != nil {
		return err
	}
	if err := s.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: write %s: %w", r.Scenario, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.w.Close()
}

func kafkaMessage(r Result) (kafka.Message, error) {
	val, err := sonic.Marshal(r)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("kafka: encode %s: %w", r.Scenario, err)
	}
	return kafka.Message{Key: []byte(r.Scenario), Value: val, Time: r.Time}, nil
}
