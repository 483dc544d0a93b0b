package broadcast_test

import (
	"context"
	"errors"
	"sync"
)

type countingObserver struct {
	mu        sync.Mutex
	published map[string]int
	dropped   map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{published: map[string]int{}, dropped: map[string]int{}}
}

func (o *countingObserver) EventPublished(eventType string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published[eventType]++
}

func (o *countingObserver) EventDropped(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dropped[reason]++
}

func (o *countingObserver) Published(eventType string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.published[eventType]
}

func (o *countingObserver) Dropped(reason string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.dropped[reason]
}

// channelSink forwards delivered payloads to a channel, or fails when fail
// is set.
type channelSink struct {
	out  chan []byte
	fail bool
}

func newChannelSink() *channelSink {
	return &channelSink{out: make(chan []byte, 16)}
}

func (s *channelSink) Deliver(_ context.Context, data []byte) error {
	if s.fail {
		return errors.New("sink is down")
	}
	s.out <- data
	return nil
}
