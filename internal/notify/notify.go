// Package notify defines the message-delivery capability the screening
// pipeline pushes progress and results through. Delivery semantics belong to
// the transport; the pipeline treats sends as fire-and-forget.
package notify

import "context"

// Notifier delivers one formatted text message to the requester that started
// a screening run.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, text string) error

// Notify implements Notifier.
func (f Func) Notify(ctx context.Context, text string) error {
	return f(ctx, text)
}
