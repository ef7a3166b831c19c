// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/redis/go-redis/v9"
)

// Rdb is the global Redis client. Connect it once at application startup.
var Rdb *redis.Client

// QueueName is the Redis list the historian drains. ConnectRedis sets it from config.
var QueueName = "shithead_actions"

// GameActionRecord holds the minimal info needed by the historian.
type GameActionRecord struct {
	GameID        uuid.UUID              `json:"game_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// NewClient builds a Redis client for cfg without contacting the server.
func NewClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
}

// ConnectRedis initializes the global client and verifies it with a PING.
func ConnectRedis(cfg *config.Config) error {
	client := NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	Rdb = client
	QueueName = cfg.HistorianQueue
	return nil
}

// EncodeRecord is the wire form pushed onto the queue.
func EncodeRecord(record GameActionRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal GameActionRecord: %w", err)
	}
	return data, nil
}

// DecodeRecord parses one queue entry.
func DecodeRecord(payload string) (GameActionRecord, error) {
	var rec GameActionRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return rec, fmt.Errorf("invalid action record: %w", err)
	}
	if rec.GameID == uuid.Nil {
		return rec, fmt.Errorf("invalid action record: missing game_id")
	}
	return rec, nil
}

// PublishGameAction pushes the record onto the historian queue.
func PublishGameAction(ctx context.Context, record GameActionRecord) error {
	if Rdb == nil {
		return fmt.Errorf("redis client is not connected")
	}
	data, err := EncodeRecord(record)
	if err != nil {
		return err
	}
	if err := Rdb.RPush(ctx, QueueName, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", QueueName, err)
	}
	return nil
}
