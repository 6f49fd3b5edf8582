package peer

import (
	"context"
	"ctchen222/Rock-Paper-Scissors/pkg/proto"
)

// Delivery is a decoded message together with the connection it came from.
type Delivery struct {
	ConnID  string
	Message *proto.Message
}

// Handler processes one delivery. Handlers run on the connection's receive
// goroutine, so anything touching shared state should hand off through Forward.
type Handler func(ctx context.Context, d Delivery)

// Handlers maps message types to their handler.
type Handlers map[proto.MessageType]Handler

// Forward returns a handler that passes deliveries to ch, blocking until the
// main loop takes them or the session shuts down.
func Forward(ch chan<- Delivery) Handler {
	return func(ctx context.Context, d Delivery) {
		select {
		case ch <- d:
		case <-ctx.Done():
		}
	}
}
