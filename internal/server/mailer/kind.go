// Package mailer renders transactional emails and hands them to a transport:
// SMTP, a RabbitMQ queue drained by the mail relay, or the log.
package mailer

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/cloudygo/internal/server/models"
)

// Kind is the closed set of emails the server sends.
type Kind int

const (
	KindVerify Kind = iota + 1
	KindForget
	KindWelcome
)

// AllKinds lists every Kind.
var AllKinds = []Kind{KindVerify, KindForget, KindWelcome}

// ParseKind maps the wire names VERIFY, FORGET and WELCOME to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range AllKinds {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown email type %q", s)
}

func (k Kind) String() string {
	switch k {
	case KindVerify:
		return "VERIFY"
	case KindForget:
		return "FORGET"
	case KindWelcome:
		return "WELCOME"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Subject is the email subject line.
func (k Kind) Subject() string {
	switch k {
	case KindVerify:
		return "Verify Your Email"
	case KindForget:
		return "Reset your password"
	case KindWelcome:
		return "Congratulations"
	default:
		return ""
	}
}

// TokenKind reports which pending token the email carries, if any.
func (k Kind) TokenKind() (models.TokenKind, bool) {
	switch k {
	case KindVerify:
		return models.TokenKindVerify, true
	case KindForget:
		return models.TokenKindForgot, true
	default:
		return 0, false
	}
}

// Link builds the call-to-action URL. envelope is ignored for kinds that
// carry no token.
func (k Kind) Link(domain, envelope string) string {
	domain = strings.TrimRight(domain, "/")

	switch k {
	case KindVerify:
		return domain + "/verifyEmail?token=" + url.QueryEscape(envelope)
	case KindForget:
		return domain + "/resetPassword?token=" + url.QueryEscape(envelope)
	default:
		return domain
	}
}
