package queue

import (
	"context"
	"fmt"

	"catalog/navigator/internal/config"
	"catalog/navigator/internal/domain/event"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, e event.Event) (string, error) // Returns message ID
	Read(ctx context.Context, eventType, start string, count int64) ([]redis.XMessage, error)
}

// RedisPublisher appends events to one Redis stream per event type
type RedisPublisher struct {
	redisClient  *redis.Client
	streamPrefix string
	maxLen       int64
}

func NewRedisPublisher(redisClient *redis.Client, cfg config.RedisConfig) *RedisPublisher {
	return &RedisPublisher{
		redisClient:  redisClient,
		streamPrefix: cfg.StreamPrefix,
		maxLen:       cfg.StreamMaxLen,
	}
}

// StreamName returns the stream an event type is published to
func (q *RedisPublisher) StreamName(eventType string) string {
	return q.streamPrefix + eventType
}

func (q *RedisPublisher) Publish(ctx context.Context, e event.Event) (string, error) {
	eventType := e.EventType()
	streamName := q.StreamName(eventType)

	eventValue, err := e.EventValue()
	if err != nil {
		return "", fmt.Errorf("failed to serialize event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: streamName,
		Values: map[string]interface{}{
			"event_type": eventType,
			"event_data": string(eventValue),
		},
	}
	if q.maxLen > 0 {
		args.MaxLen = q.maxLen
		args.Approx = true
	}

	messageID, err := q.redisClient.XAdd(ctx, args).Result()
	if err != nil {
		return "", fmt.Errorf("failed to add event to Redis stream %s: %w", streamName, err)
	}

	log.Debugf("Published event %s to stream %s with message ID: %s", eventType, streamName, messageID)
	return messageID, nil
}

// Read returns up to count events of a type starting at message ID start ("-" for the beginning)
func (q *RedisPublisher) Read(ctx context.Context, eventType, start string, count int64) ([]redis.XMessage, error) {
	streamName := q.StreamName(eventType)
	messages, err := q.redisClient.XRangeN(ctx, streamName, start, "+", count).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to read from Redis stream %s: %w", streamName, err)
	}
	return messages, nil
}
