package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestPublishWrapsPayloadInEnvelope(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &Publisher{writer: writer}

	err := publisher.Publish(context.Background(), "spot.created", "12", map[string]any{"id": 12})

	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, []byte("12"), writer.messages[0].Key)

	var decoded envelope
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, "spot.created", decoded.Type)
	assert.False(t, decoded.OccurredAt.IsZero())
	assert.Equal(t, map[string]any{"id": float64(12)}, decoded.Payload)
}

func TestPublishPropagatesWriteErrors(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker down")}
	publisher := &Publisher{writer: writer}

	err := publisher.Publish(context.Background(), "spot.created", "12", nil)

	assert.ErrorContains(t, err, "broker down")
}

func TestCloseClosesWriter(t *testing.T) {
	writer := &fakeWriter{}
	publisher := &Publisher{writer: writer}

	require.NoError(t, publisher.Close())
	assert.True(t, writer.closed)
}
