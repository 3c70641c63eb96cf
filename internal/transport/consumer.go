// Package transport adapts the inbound Redis Streams to the ingestion
// queues. One consumer per stream; each only moves raw payload bytes,
// decoding belongs to the integration engine.
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/renggafirmandika/de-datastreaming/internal/ingest"
)

// Consumer reads raw messages from one Redis Stream via a consumer
// group (XREADGROUP + XACK, at-least-once) and pushes the payloads
// into an ingestion queue without blocking.
type Consumer struct {
	client        *redis.Client
	streamKey     string
	consumerGroup string
	consumerName  string
	queue         *ingest.Queue
	blockTime     time.Duration
	batchSize     int64
	logger        *slog.Logger
}

// Config holds consumer configuration.
type Config struct {
	RedisURL      string
	RedisPassword string
	StreamKey     string        // e.g., "grid:facilities"
	ConsumerGroup string        // e.g., "integrator"
	ConsumerName  string        // e.g., "integrator-1"
	BlockTime     time.Duration // How long to block waiting for messages
	BatchSize     int64         // Messages read per batch
}

// New creates a consumer bound to one stream and one queue.
func New(cfg Config, queue *ingest.Queue, logger *slog.Logger) (*Consumer, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.RedisPassword != "" {
		opt.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if cfg.BlockTime <= 0 {
		cfg.BlockTime = 5 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}

	consumer := &Consumer{
		client:        client,
		streamKey:     cfg.StreamKey,
		consumerGroup: cfg.ConsumerGroup,
		consumerName:  cfg.ConsumerName,
		queue:         queue,
		blockTime:     cfg.BlockTime,
		batchSize:     cfg.BatchSize,
		logger:        logger.With("component", "consumer", "stream_key", cfg.StreamKey),
	}

	// XGroupCreateMkStream creates the stream if it does not exist yet.
	err = client.XGroupCreateMkStream(ctx, cfg.StreamKey, cfg.ConsumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	consumer.logger.Info("consumer_initialized",
		"consumer_group", cfg.ConsumerGroup,
		"consumer_name", cfg.ConsumerName,
	)

	return consumer, nil
}

// Start consumes the stream until the context is cancelled, pushing
// each payload into the ingestion queue. Push never blocks, so a slow
// engine cycle can never stall the transport.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer_starting")

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("consumer_stopping")
			return ctx.Err()
		default:
			// ">" reads only messages not yet delivered to this group.
			streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    c.consumerGroup,
				Consumer: c.consumerName,
				Streams:  []string{c.streamKey, ">"},
				Count:    c.batchSize,
				Block:    c.blockTime,
				NoAck:    false,
			}).Result()

			if err != nil {
				if err == redis.Nil {
					continue
				}
				if ctx.Err() != nil {
					continue
				}
				c.logger.Error("xreadgroup_failed", "error", err)
				time.Sleep(1 * time.Second) // Back off on error
				continue
			}

			for _, stream := range streams {
				for _, message := range stream.Messages {
					// Frames without a usable payload are dropped but still
					// acknowledged; redelivery cannot fix them.
					c.enqueue(message)

					// ACK after the payload is safely in the queue; a crash
					// before this point redelivers the message.
					if err := c.client.XAck(ctx, c.streamKey, c.consumerGroup, message.ID).Err(); err != nil {
						c.logger.Error("xack_failed",
							"stream_id", message.ID,
							"error", err,
						)
					}
				}
			}
		}
	}
}

// enqueue extracts the payload bytes from a stream entry and pushes
// them. Frames without a data field are dropped here; malformed JSON
// inside the payload is the engine's concern, not the transport's.
func (c *Consumer) enqueue(msg redis.XMessage) bool {
	dataField, ok := msg.Values["data"]
	if !ok {
		c.logger.Warn("stream_entry_missing_data", "stream_id", msg.ID)
		return false
	}

	payload, ok := dataField.(string)
	if !ok {
		c.logger.Warn("stream_entry_data_not_string", "stream_id", msg.ID)
		return false
	}

	c.queue.Push([]byte(payload))
	return true
}

// Close closes the Redis connection.
func (c *Consumer) Close() error {
	c.logger.Info("consumer_closing")
	return c.client.Close()
}
