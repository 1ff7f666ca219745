package models

import "time"

// Task is the anonymous message a giver leaves for their Chrima.
type Task struct {
	ID          string
	Text        string
	SenderID    string
	RecipientID string
	CreatedAt   time.Time
}
