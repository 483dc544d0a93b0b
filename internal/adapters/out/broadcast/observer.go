package broadcast

import "context"

// Observer is told about delivery outcomes. metrics.Collector implements it.
type Observer interface {
	EventPublished(eventType string)
	EventDropped(reason string)
}

// Sink accepts encoded events.
type Sink interface {
	Deliver(ctx context.Context, data []byte) error
}

const (
	DropPublisherFull = "publisher_buffer_full"
	DropClientFull    = "client_buffer_full"
	DropSinkFailed    = "sink_failed"
)

type nopObserver struct{}

func (nopObserver) EventPublished(string) {}
func (nopObserver) EventDropped(string)   {}
