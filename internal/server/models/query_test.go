package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoteQuery_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   NoteQuery
		want NoteQuery
	}{
		{
			name: "zero value gets defaults",
			in:   NoteQuery{},
			want: NoteQuery{Page: 1, Limit: 10, SortBy: "createdAt", Order: "desc"},
		},
		{
			name: "limit capped at 100",
			in:   NoteQuery{Page: 3, Limit: 500, SortBy: "title", Order: "ASC"},
			want: NoteQuery{Page: 3, Limit: 100, SortBy: "title", Order: "asc"},
		},
		{
			name: "negative page and limit",
			in:   NoteQuery{Page: -2, Limit: -1},
			want: NoteQuery{Page: 1, Limit: 10, SortBy: "createdAt", Order: "desc"},
		},
		{
			name: "page capped so the offset cannot overflow",
			in:   NoteQuery{Page: math.MaxInt / 5, Limit: 10},
			want: NoteQuery{Page: MaxPage, Limit: 10, SortBy: "createdAt", Order: "desc"},
		},
		{
			name: "unknown sort key and order",
			in:   NoteQuery{Search: "  groceries ", Page: 1, Limit: 5, SortBy: "password", Order: "sideways"},
			want: NoteQuery{Search: "groceries", Page: 1, Limit: 5, SortBy: "createdAt", Order: "desc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}

func TestNoteQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, NoteQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, NoteQuery{Page: 3, Limit: 10}.Offset())
	assert.Equal(t, 0, NoteQuery{Page: 0, Limit: 10}.Offset())

	for _, limit := range []int{1, 10, MaxLimit} {
		off := NoteQuery{Page: math.MaxInt / 5, Limit: limit}.Normalize().Offset()
		assert.Positive(t, off, "limit %d", limit)
	}
	assert.Equal(t, math.MaxInt, NoteQuery{Page: math.MaxInt, Limit: 10}.Offset())
}

func TestNewNotePage(t *testing.T) {
	q := NoteQuery{Page: 2, Limit: 10}

	p := NewNotePage(q, nil, 21)
	assert.NotNil(t, p.Notes)
	assert.Equal(t, int64(3), p.TotalPages)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)

	assert.Equal(t, int64(0), NewNotePage(q, nil, 0).TotalPages)
	assert.Equal(t, int64(1), NewNotePage(q, nil, 10).TotalPages)
}

func TestUser_PublicAndClearReset(t *testing.T) {
	hash := "h"
	u := &User{ID: "u1", Name: "Ann", Email: "a@x.com", PasswordHash: "secret", ResetPasswordTokenHash: &hash}

	assert.Equal(t, PublicUser{ID: "u1", Name: "Ann", Email: "a@x.com"}, u.Public())

	u.ClearResetToken()
	assert.Nil(t, u.ResetPasswordTokenHash)
	assert.Nil(t, u.ResetPasswordExpiresAt)
}
