package broadcast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type dropCounter struct {
	nopObserver
	drops int
}

func (d *dropCounter) EventDropped(string) { d.drops++ }

func TestHub_Broadcast_DropsForFullClient(t *testing.T) {
	counter := &dropCounter{}
	hub := NewHub(HubConfig{SendBuffer: 1}, counter, nil)
	slow := &client{send: make(chan []byte, 1)}
	fast := &client{send: make(chan []byte, 4)}
	hub.register(slow)
	hub.register(fast)

	hub.Broadcast([]byte("a"))
	hub.Broadcast([]byte("b"))

	assert.Equal(t, 1, counter.drops)
	assert.Len(t, slow.send, 1)
	assert.Equal(t, []byte("a"), <-slow.send)
	assert.Len(t, fast.send, 2)
}
