package model

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidEmail = errors.New("invalid email address")
)

// keyReplacer maps characters that are illegal in a document key to "_".
// The mapping is lossy: "a.b@x.io" and "a_b@x.io" share a key.
var keyReplacer = strings.NewReplacer(".", "_", "$", "_", "#", "_", "[", "_", "]", "_")

// NormalizeEmail returns the storage key for an email
func NormalizeEmail(email string) string {
	return keyReplacer.Replace(email)
}

// Identity is the human-entered pair used to bind a session
type Identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate trims both fields in place and checks them
func (id *Identity) Validate() error {
	id.Name = strings.TrimSpace(id.Name)
	id.Email = strings.TrimSpace(id.Email)
	if id.Name == "" {
		return ErrNameRequired
	}
	addr, err := mail.ParseAddress(id.Email)
	if err != nil || addr.Address != id.Email {
		return ErrInvalidEmail
	}
	return nil
}

// Key returns the normalized storage key
func (id Identity) Key() string {
	return NormalizeEmail(id.Email)
}
