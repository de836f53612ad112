package mailer

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/cloudygo/internal/logging"
)

// Message is a rendered email ready for delivery.
type Message struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`

	// Link is the action link embedded in HTML. It is kept out of the queue
	// payload.
	Link string `json:"-"`
}

// Sender delivers a message. Implementations do not retry.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender writes a line per message instead of sending it. The body is
// never logged. With showLinks set the action link is written at debug level,
// which is how a local setup gets at verification and reset links.
type LogSender struct {
	log       logging.Logger
	showLinks bool
}

func NewLogSender(l logging.Logger, showLinks bool) *LogSender {
	return &LogSender{log: l.With("module", "mailer"), showLinks: showLinks}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.log.Info(ctx, "email not sent, log transport", "id", msg.ID, "to", msg.To, "subject", msg.Subject)
	if s.showLinks && msg.Link != "" {
		s.log.Debug(ctx, "email link", "id", msg.ID, "link", msg.Link)
	}
	return nil
}

// MemorySender keeps messages in memory. Set Err to make Send fail.
type MemorySender struct {
	mu       sync.Mutex
	messages []Message
	Err      error
}

func (s *MemorySender) Send(ctx context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Err != nil {
		return s.Err
	}
	s.messages = append(s.messages, msg)
	return nil
}

// Messages returns a copy of everything sent so far.
func (s *MemorySender) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
