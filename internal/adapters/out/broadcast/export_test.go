package broadcast

// DropConnection closes the broker connection underneath the relay, as a
// broker restart would.
func (r *RabbitRelay) DropConnection() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.Close()
}
