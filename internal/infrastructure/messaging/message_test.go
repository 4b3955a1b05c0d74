package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	payload := &BatchJobMessage{JobID: "job-1", Length: "short", TextCount: 3}

	msg, err := NewMessage("1-0", MessageTypeBatchJob, payload)
	require.NoError(t, err)

	assert.Equal(t, "1-0", msg.ID)
	assert.Equal(t, MessageTypeBatchJob, msg.Type)
	assert.False(t, msg.CreatedAt.IsZero())

	var got BatchJobMessage
	require.NoError(t, msg.UnmarshalPayload(&got))
	assert.Equal(t, *payload, got)
}

func TestMessageMetadata(t *testing.T) {
	msg, err := NewMessage("1-0", MessageTypeBatchJob, &BatchJobMessage{JobID: "job-1"})
	require.NoError(t, err)

	assert.Empty(t, msg.GetMetadata("request_id"))

	msg.SetMetadata("request_id", "req-42")
	assert.Equal(t, "req-42", msg.GetMetadata("request_id"))

	// nil map 上的写入不应 panic
	bare := &Message{}
	bare.SetMetadata("k", "v")
	assert.Equal(t, "v", bare.GetMetadata("k"))
}

func TestDLQStream(t *testing.T) {
	assert.Equal(t, "dlq:stream:summary:batch", StreamSummaryBatch.DLQStream())
}

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: time.Minute, Multiplier: 2}

	tests := []struct {
		name       string
		retryCount int
		want       time.Duration
	}{
		{"first attempt", 0, time.Second},
		{"one retry", 1, 2 * time.Second},
		{"three retries", 3, 8 * time.Second},
		{"capped at max", 10, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cfg.CalculateBackoff(tt.retryCount))
		})
	}
}

func TestDefaultBackoffConfig(t *testing.T) {
	cfg := DefaultBackoffConfig()
	assert.Equal(t, time.Second, cfg.Initial)
	assert.Equal(t, time.Minute, cfg.Max)
	assert.Equal(t, float64(2), cfg.Multiplier)
}
