package models

import "time"

// User is a registered participant. RecipientID is nil until an assignment
// has run and is only ever written by the pairing assignment.
type User struct {
	ID           string
	UserName     string
	PasswordHash []byte
	IsAdmin      bool
	RecipientID  *string
	CreatedAt    time.Time
}

// HasRecipient reports whether the user has been paired.
func (u *User) HasRecipient() bool {
	return u != nil && u.RecipientID != nil && *u.RecipientID != ""
}
