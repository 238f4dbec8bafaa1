// Copyright (c) 2026 Kritika. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail provides outbound notification delivery for the platform.

Its only production consumer is the signup flow, which mails the one-time
confirmation code. Delivery failures are reported to the caller — the auth
service decides whether a failed send aborts the operation.

Implementations:

  - SMTPSender: plain SMTP with optional AUTH, for production.
  - LogSender: writes the message to the structured log, for development.
*/
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Sender is the outbound notification contract consumed by the auth service.
type Sender interface {
	// Send delivers a plain-text message to a single recipient.
	Send(ctx context.Context, recipient, subject, body string) error
}

// # SMTP Delivery

// SMTPSender delivers mail through a single SMTP relay.
type SMTPSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPSender constructs an [SMTPSender]. Credentials may be empty for
// relays that accept unauthenticated submission (e.g. a local postfix).
func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send delivers the message synchronously. The context is honored only up
// to connection establishment; net/smtp does not support mid-session
// cancellation.
func (sender *SMTPSender) Send(ctx context.Context, recipient, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mail: send aborted: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", sender.host, sender.port)

	var auth smtp.Auth
	if sender.username != "" {
		auth = smtp.PlainAuth("", sender.username, sender.password, sender.host)
	}

	message := strings.Join([]string{
		"From: " + sender.from,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(addr, auth, sender.from, []string{recipient}, []byte(message)); err != nil {
		return fmt.Errorf("mail: smtp delivery failed: %w", err)
	}

	return nil
}

// # Development Delivery

// LogSender writes outbound messages to the structured log instead of
// delivering them. It is the default driver in development so the
// confirmation code is visible without a mailbox.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender constructs a [LogSender].
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and always succeeds.
func (sender *LogSender) Send(ctx context.Context, recipient, subject, body string) error {
	sender.logger.InfoContext(ctx, "mail_logged",
		slog.String("recipient", recipient),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
