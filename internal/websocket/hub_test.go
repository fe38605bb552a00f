package websocket

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexusprep/assessd/internal/engine"
	"github.com/nexusprep/assessd/internal/model"
)

// testClient builds a client without a live connection; tests read from the
// send channel directly instead of running the write pump.
func testClient(sessionID string) *Client {
	return &Client{
		sessionID: sessionID,
		send:      make(chan Frame, sendBufferSize),
		done:      make(chan struct{}),
		log:       zerolog.Nop(),
	}
}

func receive(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case f := <-c.send:
		return f
	default:
		t.Fatal("expected a frame")
		return Frame{}
	}
}

func TestHubRoutesEventsBySession(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	a := testClient("session-a")
	b := testClient("session-b")
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.HandleEvent(engine.Event{
		Kind:             engine.EventTimeWarning,
		SessionID:        "session-a",
		At:               time.Now(),
		RemainingSeconds: 290,
		ThresholdSeconds: 300,
	})

	frame := receive(t, a)
	assert.Equal(t, "time_warning", frame.Type)
	assert.Equal(t, "session-a", frame.SessionID)

	payload, ok := frame.Payload.(WarningPayload)
	require.True(t, ok)
	assert.Equal(t, 290, payload.RemainingSeconds)
	assert.Equal(t, 300, payload.ThresholdSeconds)

	assert.Empty(t, b.send, "other sessions receive nothing")
}

func TestHubFanOutToMultipleSubscribers(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	first := testClient("s-1")
	second := testClient("s-1")
	hub.Subscribe(first)
	hub.Subscribe(second)
	assert.Equal(t, 2, hub.SubscriberCount("s-1"))

	hub.HandleEvent(engine.Event{Kind: engine.EventPaused, SessionID: "s-1", ElapsedSeconds: 42})

	for _, c := range []*Client{first, second} {
		frame := receive(t, c)
		assert.Equal(t, "paused", frame.Type)
		payload, ok := frame.Payload.(PausePayload)
		require.True(t, ok)
		assert.Equal(t, 42, payload.ElapsedSeconds)
	}
}

func TestHubCompletionFrameCarriesResult(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := testClient("s-1")
	hub.Subscribe(c)

	result := &model.Result{SessionID: "s-1", OverallPercentage: 87.5, Passed: true}
	hub.HandleEvent(engine.Event{Kind: engine.EventCompleted, SessionID: "s-1", Result: result})

	frame := receive(t, c)
	assert.Equal(t, "completed", frame.Type)
	require.NotNil(t, frame.Result)
	assert.Equal(t, 87.5, frame.Result.OverallPercentage)
	assert.True(t, frame.Result.Passed)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := testClient("s-1")
	hub.Subscribe(c)
	hub.Unsubscribe(c)
	hub.Unsubscribe(c) // idempotent

	hub.HandleEvent(engine.Event{Kind: engine.EventResumed, SessionID: "s-1"})
	assert.Empty(t, c.send)
	assert.Equal(t, 0, hub.SubscriberCount("s-1"))
}

func TestHubDropsSlowSubscriber(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	c := testClient("s-1")
	hub.Subscribe(c)

	// Fill the buffer and one more: the overflowing event evicts the client.
	for i := 0; i <= sendBufferSize; i++ {
		hub.HandleEvent(engine.Event{Kind: engine.EventTimeWarning, SessionID: "s-1"})
	}

	assert.Equal(t, 0, hub.SubscriberCount("s-1"))
	select {
	case <-c.done:
	default:
		t.Fatal("expected slow client to be closed")
	}
}
