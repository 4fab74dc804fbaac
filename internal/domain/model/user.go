package model

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"` // Not exposed
	IsAdmin        bool      `json:"is_admin"`
	DateJoined     time.Time `json:"date_joined"`
}

// Role maps the stored admin flag onto the role claim carried by tokens.
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// UserProfile is the projection of a User exposed to API clients. TodoCount
// is computed from the todo store at read time.
type UserProfile struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsAdmin    bool      `json:"is_admin"`
	DateJoined time.Time `json:"date_joined"`
	TodoCount  int       `json:"todo_count"`
}
