package domain

import (
	"strings"
	"time"
)

// User is the authenticated account as returned by GET /api/me.
//
// Tags use camelCase; encoding/json matches keys case-insensitively, so the
// backend's "ID"/"CreatedAt" keys decode into the same fields.
type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserPatch carries the fields of a partial local user update.
// Nil fields are left untouched.
type UserPatch struct {
	Name  *string
	Email *string
}

// Apply returns u with the non-nil patch fields merged in.
func (p UserPatch) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	return u
}

// Credentials is the body of POST /login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
// Deeper validation is left to the backend.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Email) == "" {
		return ErrEmailRequired
	}
	if c.Password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// Registration is the body of POST /register.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that all fields are present.
func (r Registration) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	return Credentials{Email: r.Email, Password: r.Password}.Validate()
}

// PasswordChange is the body of PUT /api/me/password.
type PasswordChange struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Validate checks that both passwords are present.
func (p PasswordChange) Validate() error {
	if p.OldPassword == "" || p.NewPassword == "" {
		return ErrPasswordRequired
	}
	return nil
}
