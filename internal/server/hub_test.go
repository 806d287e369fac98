package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestHub_SendToClientDeliversWhileRegistered(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t), nil)
	c := &Client{hub: h, send: make(chan []byte, 1), matchID: "m1", playerID: "p1"}
	h.register(c)

	c.reply("event", eventPayload{Text: "hello"})

	select {
	case frame := <-c.send:
		assert.Contains(t, string(frame), "hello")
	default:
		t.Fatal("expected a queued frame")
	}
}

func TestHub_ReplyAfterUnregisterIsDiscarded(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t), nil)
	c := &Client{hub: h, send: make(chan []byte, 1), matchID: "m1", playerID: "p1"}
	h.register(c)
	h.unregister(c)

	// The send channel is closed; the reply must be dropped, not sent.
	assert.NotPanics(t, func() {
		c.reply("event", eventPayload{Text: "late"})
	})
}

func TestHub_SendToMatchDropsSlowClient(t *testing.T) {
	h := NewHub(zaptest.NewLogger(t), nil)
	// Unbuffered channel with no pump running: the first frame blocks.
	c := &Client{hub: h, send: make(chan []byte), matchID: "m1", playerID: "p1"}
	h.register(c)

	h.sendToMatch("m1", "", []byte(`{"type":"event"}`))

	h.mu.RLock()
	_, still := h.clients[c]
	h.mu.RUnlock()
	assert.False(t, still)

	// A reply racing the drop is discarded rather than hitting the closed
	// channel.
	assert.NotPanics(t, func() {
		c.reply("event", eventPayload{Text: "racing"})
	})
}
