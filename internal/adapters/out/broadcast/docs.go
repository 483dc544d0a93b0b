// Package broadcast fans order lifecycle events out to connected replicas.
//
// The path of an event is:
//
//	unit of work commit -> Publisher (buffered, never blocks) -> Sink
//
// where the Sink is either the local websocket Hub or, when several server
// instances run, a RabbitRelay that publishes to a fanout exchange and feeds
// every instance's Hub from its own exclusive queue.
//
// Delivery is best-effort and at-most-once. Full buffers drop messages and
// the drop is counted; replicas catch up by polling.
package broadcast
