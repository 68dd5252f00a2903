package kafka

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	queue     []kafka.Message
	committed []kafka.Message
	closed    bool
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.queue) == 0 {
		return kafka.Message{}, io.EOF
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	return msg, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.committed = append(f.committed, msgs...)
	return nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func envelopeMessage(t *testing.T, session int) kafka.Message {
	t.Helper()
	env, err := NewEventEnvelope(TopicRefreshRequested, "test", RefreshRequestedPayload{Session: session})
	require.NoError(t, err)
	value, err := json.Marshal(env)
	require.NoError(t, err)
	return kafka.Message{Topic: TopicRefreshRequested, Value: value}
}

func TestRunDispatchesAndCommits(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		envelopeMessage(t, 104),
		envelopeMessage(t, 119),
	}}

	var sessions []int
	c := NewConsumerWithReader(reader, func(ctx context.Context, env *EventEnvelope) error {
		var payload RefreshRequestedPayload
		require.NoError(t, env.DecodePayload(&payload))
		sessions = append(sessions, payload.Session)
		return nil
	}, nil)

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, []int{104, 119}, sessions)
	assert.Len(t, reader.committed, 2)
}

func TestRunDropsUndecodableMessages(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{
		{Topic: TopicRefreshRequested, Value: []byte("not json")},
		envelopeMessage(t, 104),
	}}

	handled := 0
	c := NewConsumerWithReader(reader, func(ctx context.Context, env *EventEnvelope) error {
		handled++
		return nil
	}, nil)

	require.NoError(t, c.Run(context.Background()))
	assert.Equal(t, 1, handled)
	// The broken message is committed too, so it is not redelivered forever.
	assert.Len(t, reader.committed, 2)
}

func TestRunLeavesFailedMessagesUncommitted(t *testing.T) {
	reader := &fakeReader{queue: []kafka.Message{envelopeMessage(t, 104)}}

	c := NewConsumerWithReader(reader, func(ctx context.Context, env *EventEnvelope) error {
		return assert.AnError
	}, nil)

	require.NoError(t, c.Run(context.Background()))
	assert.Empty(t, reader.committed)
}

func TestConsumerClose(t *testing.T) {
	reader := &fakeReader{}
	c := NewConsumerWithReader(reader, nil, nil)

	require.NoError(t, c.Close())
	assert.True(t, reader.closed)
}

//Personal.AI order the ending
