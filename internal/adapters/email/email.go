// Package email delivers staff notifications such as the registration welcome.
package email

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"
)

// SendRequest is one outgoing message.
type SendRequest struct {
	To      []string
	From    string // empty uses the sender's configured address
	Subject string
	HTML    string
	ReplyTo string
}

// SendResult identifies an accepted message.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers messages through a provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}

// outboxSize bounds how many messages an Outbox remembers.
const outboxSize = 50

// Outbox keeps messages in memory instead of delivering them.
// It stands in for a provider when BALANCE_RESEND_KEY is unset.
type Outbox struct {
	mu   sync.Mutex
	sent []SendRequest
	seq  int
	now  func() time.Time
}

// NewOutbox returns an empty Outbox.
func NewOutbox() *Outbox {
	return &Outbox{now: time.Now}
}

// Send records req and logs its recipients.
// PRE: req has at least one recipient
// POST: The oldest message is dropped once outboxSize are held
func (o *Outbox) Send(_ context.Context, req SendRequest) (SendResult, error) {
	if len(req.To) == 0 {
		return SendResult{}, ErrNoRecipients
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seq++
	o.sent = append(o.sent, req)
	if len(o.sent) > outboxSize {
		o.sent = o.sent[len(o.sent)-outboxSize:]
	}
	id := "outbox-" + strconv.Itoa(o.seq)
	slog.Info("email_event", "event", "held", "message_id", id, "to", req.To, "subject", req.Subject)
	return SendResult{MessageID: id, SentAt: o.now()}, nil
}

// Sent returns a copy of the held messages, oldest first.
func (o *Outbox) Sent() []SendRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]SendRequest(nil), o.sent...)
}
