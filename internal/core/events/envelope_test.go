package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEnvelope(t *testing.T) {
	env, err := NewEnvelope(EventOrderPaid, 7, map[string]string{"order_id": "o-1"})
	require.NoError(t, err)

	assert.NotEmpty(t, env.EventID)
	assert.Equal(t, EventOrderPaid, env.EventType)
	assert.Equal(t, "pedidos-service", env.Producer)
	assert.Equal(t, int64(7), env.RecipientID)
	assert.False(t, env.OccurredAt.IsZero())

	var payload map[string]string
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, "o-1", payload["order_id"])
}

func TestNewEnvelopeRejectsUnmarshalablePayload(t *testing.T) {
	_, err := NewEnvelope(EventNewOrder, 1, make(chan int))
	assert.Error(t, err)
}
