package models

import "time"

// Session is the server-side half of a login; the cookie carries its ID
// inside a signed token.
type Session struct {
	ID        string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
