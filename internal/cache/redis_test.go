package cache

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	rec := GameActionRecord{
		GameID:        uuid.New(),
		ActionIndex:   3,
		ActorUserID:   uuid.New(),
		ActionType:    "player_play",
		ActionPayload: map[string]interface{}{"rank": "9"},
		Timestamp:     1700000000000,
	}
	data, err := EncodeRecord(rec)
	require.NoError(t, err)

	got, err := DecodeRecord(string(data))
	require.NoError(t, err)
	assert.Equal(t, rec.GameID, got.GameID)
	assert.Equal(t, "9", got.ActionPayload["rank"])
}

func TestDecodeRecordRejectsGarbage(t *testing.T) {
	_, err := DecodeRecord("not json")
	assert.Error(t, err)

	_, err = DecodeRecord(`{"action_type":"player_play"}`)
	assert.Error(t, err)
}

func TestPublishWithoutClient(t *testing.T) {
	Rdb = nil
	err := PublishGameAction(context.Background(), GameActionRecord{GameID: uuid.New()})
	assert.Error(t, err)
}

func TestNewClientUsesConfig(t *testing.T) {
	c := NewClient(&config.Config{RedisAddr: "cache:6380", RedisDB: 2})
	defer c.Close()
	assert.Equal(t, "cache:6380", c.Options().Addr)
	assert.Equal(t, 2, c.Options().DB)
}
