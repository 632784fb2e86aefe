// Package writings serves the blog's writings list: a single JSON array kept
// under one key of a kv.Store, read publicly and written with a bearer secret.
package writings

import (
	"errors"
	"time"
)

var (
	ErrMissingField = errors.New("writings: missing required field")
	ErrUnauthorized = errors.New("writings: unauthorized")
)

// Writing is one stored record. CreatedAt and UpdatedAt are equal on create.
type Writing struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
