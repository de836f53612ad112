package models

import "fmt"

// TokenKind selects which pending-token slot of a user is addressed.
type TokenKind int

const (
	TokenKindVerify TokenKind = iota + 1
	TokenKindForgot
)

// AllTokenKinds lists every TokenKind.
var AllTokenKinds = []TokenKind{TokenKindVerify, TokenKindForgot}

func (k TokenKind) String() string {
	switch k {
	case TokenKindVerify:
		return "VERIFY"
	case TokenKindForgot:
		return "FORGOT"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k TokenKind) Valid() bool {
	switch k {
	case TokenKindVerify, TokenKindForgot:
		return true
	default:
		return false
	}
}
