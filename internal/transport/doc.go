// Package transport adapts network connections to hub subscribers.
//
// WSSubscriber pushes each message as one JSON text frame on a websocket.
// NATSSubscriber republishes each message on a NATS subject derived from
// the message type, so other services can consume the feed without holding
// a websocket open.
package transport
