package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestShouldEmitDappViewedEvent(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{name: "empty id", id: "", want: false},
		{name: "blank id", id: "  ", want: false},
		{name: "opted in", id: "0x7f3a9c0abc", want: true},
		{name: "any suffix", id: "0xabcdefffff", want: true},
		{name: "short id", id: "0x1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldEmitDappViewedEvent(tt.id))
		})
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) recorded() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Event(nil), p.events...)
}

func TestTracker_Track(t *testing.T) {
	pub := &recordingPublisher{}
	tracker := NewTracker(pub, "0xmetricsid", 2, 10)
	tracker.Start()

	require.NoError(t, tracker.Track(context.Background(), Event{Event: "Dapp Viewed"}, Options{ExcludeMetaMetricsID: true}))
	require.NoError(t, tracker.Track(context.Background(), Event{Event: "Other"}, Options{}))
	tracker.Stop()

	events := pub.recorded()
	require.Len(t, events, 2)
	byName := map[string]Event{}
	for _, e := range events {
		byName[e.Event] = e
		assert.NotEmpty(t, e.MessageID)
		assert.False(t, e.Timestamp.IsZero())
	}
	assert.Empty(t, byName["Dapp Viewed"].MetaMetricsID)
	assert.Equal(t, "0xmetricsid", byName["Other"].MetaMetricsID)

	assert.ErrorIs(t, tracker.Track(context.Background(), Event{}, Options{}), ErrStopped)
	tracker.Stop()
}

func TestTracker_QueueFull(t *testing.T) {
	tracker := NewTracker(&recordingPublisher{}, "", 1, 1)

	require.NoError(t, tracker.Track(context.Background(), Event{Event: "a"}, Options{}))
	assert.ErrorIs(t, tracker.Track(context.Background(), Event{Event: "b"}, Options{}), ErrQueueFull)
}

func TestTracker_PublishErrorIsSwallowed(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("unavailable")}
	tracker := NewTracker(pub, "", 1, 1)
	tracker.Start()
	require.NoError(t, tracker.Track(context.Background(), Event{Event: "a"}, Options{}))
	tracker.Stop()
	assert.Len(t, pub.recorded(), 1)
}

type mockSQS struct {
	mock.Mock
}

func (m *mockSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sqs.SendMessageOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSQSPublisher_Publish(t *testing.T) {
	client := &mockSQS{}
	pub := NewSQSPublisher(client, "https://sqs.local/queue")
	event := Event{Event: "Dapp Viewed", Category: "inpage_provider", MessageID: "m-1", Timestamp: time.Unix(0, 0)}

	client.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		var decoded Event
		if err := json.Unmarshal([]byte(*in.MessageBody), &decoded); err != nil {
			return false
		}
		return *in.QueueUrl == "https://sqs.local/queue" &&
			decoded.Event == "Dapp Viewed" &&
			*in.MessageAttributes["Category"].StringValue == "inpage_provider"
	})).Return(&sqs.SendMessageOutput{}, nil).Once()

	require.NoError(t, pub.Publish(context.Background(), event))
	client.AssertExpectations(t)

	client.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()
	assert.ErrorContains(t, pub.Publish(context.Background(), event), "failed to send metrics event to SQS")
}

type fakeNATS struct {
	msgs []*nats.Msg
}

func (f *fakeNATS) PublishMsg(m *nats.Msg) error {
	f.msgs = append(f.msgs, m)
	return nil
}

func TestNATSPublisher_Publish(t *testing.T) {
	conn := &fakeNATS{}
	pub := NewNATSPublisher(conn, "wallet.metrics")
	require.NoError(t, pub.Publish(context.Background(), Event{Event: "Dapp Viewed", MessageID: "m-1"}))

	require.Len(t, conn.msgs, 1)
	assert.Equal(t, "wallet.metrics", conn.msgs[0].Subject)
	assert.Equal(t, "m-1", conn.msgs[0].Header.Get(nats.MsgIdHdr))
	assert.Contains(t, string(conn.msgs[0].Data), `"event":"Dapp Viewed"`)
}

func TestLogPublisher_Publish(t *testing.T) {
	assert.NoError(t, NewLogPublisher(zap.NewNop()).Publish(context.Background(), Event{Event: "x"}))
}
