// Package notify delivers order notifications. The default sender just
// logs; a real transport can replace it behind the same interface.
package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// Notification is one message to a user.
type Notification struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers notifications.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// LogSender writes notifications to the log. The development default.
type LogSender struct {
	Log zerolog.Logger
}

var _ Sender = LogSender{}

func (s LogSender) Send(_ context.Context, n Notification) error {
	s.Log.Info().
		Str("to", n.To).
		Str("subject", n.Subject).
		Msg(n.Body)
	return nil
}
