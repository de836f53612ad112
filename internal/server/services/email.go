package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/cloudygo/internal/cryptox"
	"github.com/dmitrijs2005/cloudygo/internal/logging"
	"github.com/dmitrijs2005/cloudygo/internal/server/mailer"
	"github.com/google/uuid"
)

// DeliveryResult reports the outcome of a best-effort email.
type DeliveryResult struct {
	Kind mailer.Kind
	To   string
	Err  error
}

func (r DeliveryResult) OK() bool { return r.Err == nil }

// EmailService renders transactional emails and hands them to a sender.
// Failures are reported in the DeliveryResult, never as request errors.
type EmailService struct {
	tokens *TokenService
	cipher *cryptox.TokenCipher
	sender mailer.Sender
	domain string
	log    logging.Logger
}

func NewEmailService(tokens *TokenService, c *cryptox.TokenCipher, sender mailer.Sender, domain string, l logging.Logger) *EmailService {
	return &EmailService{
		tokens: tokens,
		cipher: c,
		sender: sender,
		domain: domain,
		log:    l.With("module", "email"),
	}
}

// Deliver sends an email of the given kind to to. For kinds that carry a
// token, token is the plaintext; only its envelope leaves the process.
func (s *EmailService) Deliver(ctx context.Context, to string, kind mailer.Kind, token string) DeliveryResult {
	res := DeliveryResult{Kind: kind, To: to}
	res.Err = s.deliver(ctx, to, kind, token)

	if res.Err != nil {
		s.log.Warn(ctx, "email not delivered", "kind", kind.String(), "to", to, logging.Err(res.Err))
	} else {
		s.log.Info(ctx, "email delivered", "kind", kind.String(), "to", to)
	}
	return res
}

func (s *EmailService) deliver(ctx context.Context, to string, kind mailer.Kind, token string) error {
	var envelope string
	if _, carries := kind.TokenKind(); carries {
		var err error
		if envelope, err = s.cipher.Encrypt(token); err != nil {
			return fmt.Errorf("seal %v token: %w", kind, err)
		}
	}

	link := kind.Link(s.domain, envelope)
	html, err := mailer.Render(kind, link)
	if err != nil {
		return err
	}

	return s.sender.Send(ctx, mailer.Message{
		ID:      uuid.NewString(),
		To:      to,
		Subject: kind.Subject(),
		HTML:    html,
		Link:    link,
	})
}

// Dispatch issues a fresh token when kind needs one, then delivers.
func (s *EmailService) Dispatch(ctx context.Context, userID, to string, kind mailer.Kind) DeliveryResult {
	tk, carries := kind.TokenKind()
	if !carries {
		return s.Deliver(ctx, to, kind, "")
	}

	token, err := s.tokens.Issue(ctx, userID, tk)
	if err != nil {
		s.log.Warn(ctx, "email not delivered", "kind", kind.String(), "to", to, logging.Err(err))
		return DeliveryResult{Kind: kind, To: to, Err: err}
	}

	return s.Deliver(ctx, to, kind, token)
}
