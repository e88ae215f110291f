package report

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoConf struct {
	URI        string        `json:",optional"`
	Database   string        `json:",default=lockbench"`
	Collection string        `json:",default=results"`
	Timeout    time.Duration `json:",default=5s"`
}

func (c MongoConf) Enabled() bool { return c.URI != "" }

type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// MongoSink 每个结果存为一条文档
type MongoSink struct {
	coll       inserter
	timeout    time.Duration
	disconnect func(context.Context) error
}

func NewMongoSink(ctx context.Context, c MongoConf) (*MongoSink, error) {
	cctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()
	client, err := mongo.Connect(cctx, options.Client().ApplyURI(c.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return &MongoSink{
		coll:       client.Database(c.Database).Collection(c.Collection),
		timeout:    c.Timeout,
		disconnect: client.Disconnect,
	}, nil
}

func (s *MongoSink) Write(ctx context.Context, r Result) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if _, err := s.coll.InsertOne(ctx, r); err != nil {
		return fmt.Errorf("mongo: insert %s: %w", r.Scenario, err)
	}
	return nil
}

func (s *MongoSink) Close() error {
	if s.disconnect == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.disconnect(ctx)
}
