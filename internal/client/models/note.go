// Package models defines the payloads exchanged with the NoteKeeper API.
package models

import "time"

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  string    `json:"category"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NoteInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// NotePatch is a partial update; nil fields are not sent.
type NotePatch struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.Category == nil && p.Tags == nil
}

type NotePage struct {
	Notes      []Note `json:"notes"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	Total      int64  `json:"total"`
	TotalPages int64  `json:"totalPages"`
}

// ListParams are the query parameters of a note listing. Zero values are
// left to the server defaults.
type ListParams struct {
	Search string
	Page   int
	Limit  int
	SortBy string
	Order  string
}
