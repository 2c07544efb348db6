// Package transport provides the conversational front-ends the bot listens
// on: the Telegram Bot API for real use and a local WebSocket server for
// development. A transport delivers inbound messages and sends replies; it
// knows nothing about commands or screening.
package transport

import "context"

// Message is one inbound text message from a requester.
type Message struct {
	ChatID string // conversation replies go back to
	UserID string // stable identity the criteria are keyed by
	Text   string
}

// Transport is a conversational message channel.
type Transport interface {
	// Updates starts receiving and returns the inbound message stream. The
	// channel is closed when ctx is cancelled.
	Updates(ctx context.Context) (<-chan Message, error)

	// Send delivers text to a conversation.
	Send(ctx context.Context, chatID, text string) error
}
