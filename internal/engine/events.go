package engine

// Events emitted by the app.
const (
	EventNavigated       = "navigated"
	EventSessionRecorded = "session-recorded"
)

// Handler receives the payload of an emitted event.
type Handler func(data any)

// On subscribes handler to event.
func (c *Controller) On(event string, handler Handler) {
	if handler == nil {
		return
	}
	c.busMu.Lock()
	defer c.busMu.Unlock()
	c.handlers[event] = append(c.handlers[event], handler)
}

// Emit calls every handler of event in subscription order.
func (c *Controller) Emit(event string, data any) {
	c.busMu.RLock()
	handlers := append([]Handler(nil), c.handlers[event]...)
	c.busMu.RUnlock()
	for _, h := range handlers {
		h(data)
	}
}
