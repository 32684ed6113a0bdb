// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail defines the outbound email collaborator.

Delivery is fire-and-forget from the caller's point of view: services log a
failed send and still complete the request.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Message is a single HTML email.
type Message struct {
	To      []string
	Subject string
	HTML    string
}

// Sender delivers a [Message].
type Sender interface {
	Send(ctx context.Context, message Message) error
}

// LogSender writes messages to the structured log instead of an SMTP relay.
type LogSender struct {
	from   string
	logger *slog.Logger
}

// NewLogSender creates a [LogSender] that signs messages as from.
func NewLogSender(from string, logger *slog.Logger) *LogSender {
	return &LogSender{from: from, logger: logger}
}

// Send logs the message. It fails only when there is no recipient.
func (sender *LogSender) Send(ctx context.Context, message Message) error {
	if len(message.To) == 0 {
		return fmt.Errorf("mail_send_failed: no recipients")
	}

	sender.logger.InfoContext(ctx, "email_sent",
		slog.String("from", sender.from),
		slog.String("to", strings.Join(message.To, ",")),
		slog.String("subject", message.Subject),
		slog.Int("body_bytes", len(message.HTML)),
	)
	return nil
}
