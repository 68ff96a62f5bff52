package queue

import "context"

// Sender defines the publishing side of the message channel. Publishing
// is fire-and-forget from the caller's perspective, but implementations
// enable broker confirmation so a failed publish surfaces as an error
// for the caller to log rather than vanishing silently.
type Sender interface {
	SendMessage(ctx context.Context, routingKey string, body any) error
}
