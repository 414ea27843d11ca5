package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishSubscribe(t *testing.T) {
	ps := NewPubSub[string]()
	a := ps.Subscribe("dataset")
	b := ps.Subscribe("dataset")
	other := ps.Subscribe("other")

	assert.Equal(t, 2, ps.Publish("dataset", "reloaded"))
	assert.Equal(t, "reloaded", <-a)
	assert.Equal(t, "reloaded", <-b)
	select {
	case msg := <-other:
		t.Fatalf("unexpected message %q", msg)
	default:
	}
}

func TestPublishDoesNotBlock(t *testing.T) {
	ps := NewPubSub[int]()
	slow := ps.Subscribe("t")
	for i := range subscriberBuffer + 5 {
		ps.Publish("t", i)
	}
	assert.Len(t, slow, subscriberBuffer)
	assert.Equal(t, 0, <-slow)
}

func TestUnsubscribe(t *testing.T) {
	ps := NewPubSub[string]()
	a := ps.Subscribe("t")
	b := ps.Subscribe("t")

	ps.Unsubscribe("t", a)
	_, open := <-a
	assert.False(t, open)
	assert.Equal(t, 1, ps.Subscribers("t"))
	assert.Equal(t, 1, ps.Publish("t", "x"))
	require.Equal(t, "x", <-b)

	ps.Unsubscribe("t", b)
	assert.Equal(t, 0, ps.Subscribers("t"))
	assert.Equal(t, 0, ps.Publish("t", "y"))
}
