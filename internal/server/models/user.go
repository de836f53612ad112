// Package models declares the records persisted by the server.
package models

import "time"

// User is an account. Pending tokens are stored in plaintext together with
// their absolute expiry; a nil token means none is pending.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash []byte
	IsVerified   bool
	IsAdmin      bool

	VerifyToken       *string
	VerifyTokenExpiry *time.Time
	ForgotToken       *string
	ForgotTokenExpiry *time.Time

	CreatedAt time.Time
}

// Profile is the user as shown to the user: no password hash, no tokens.
type Profile struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	IsAdmin    bool      `json:"isAdmin"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		IsAdmin:    u.IsAdmin,
		CreatedAt:  u.CreatedAt,
	}
}
