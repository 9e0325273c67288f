// Package models defines the wire/domain types of the blog platform API and
// the client-side validation rules checked before anything touches the network.
package models

import "time"

// User is the resolved profile of an account. Email is immutable from the
// client's perspective; timestamps are server-assigned. Contacts is always
// non-nil once a User has passed through the API boundary.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Contacts  []string  `json:"contacts"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginPayload is the body of POST /api/auth/login.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload is the body of POST /api/auth/register.
type RegisterPayload struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Username string   `json:"username"`
	Contacts []string `json:"contacts"`
}

// ProfileUpdatePayload is the body of PUT /api/auth/me.
type ProfileUpdatePayload struct {
	Username string   `json:"username"`
	Contacts []string `json:"contacts"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
