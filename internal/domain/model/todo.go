package model

import (
	"time"
)

type Todo struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user"`     // owner, assigned server-side at creation
	Username    string    `json:"username"` // joined from the owner, read-only
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
