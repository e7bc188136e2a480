package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mswxdesk/weather-briefing-service/internal/domain"
)

func TestSerializeBriefing(t *testing.T) {
	now := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	b := &domain.Briefing{
		ID:                "briefing-1",
		GeneratedAt:       now,
		ValidDate:         "2025-06-15",
		TimeOfDay:         "Morning",
		StatewideOverview: "No active weather alerts for Mississippi",
	}

	msg, err := serializeBriefing(b)
	require.NoError(t, err)

	assert.Equal(t, []byte("briefing-1"), msg.Key)
	assert.Contains(t, string(msg.Value), `"valid_date":"2025-06-15"`)
	assert.Contains(t, string(msg.Value), `"time_of_day":"Morning"`)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "time_of_day", msg.Headers[0].Key)
	assert.Equal(t, []byte("Morning"), msg.Headers[0].Value)
	assert.Equal(t, "generated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}
