package models

import (
	"math"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*limit within int for every allowed limit.
	MaxPage = math.MaxInt / MaxLimit

	SortCreatedAt = "createdAt"
	SortUpdatedAt = "updatedAt"
	SortTitle     = "title"
	SortCategory  = "category"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var sortable = map[string]struct{}{
	SortCreatedAt: {},
	SortUpdatedAt: {},
	SortTitle:     {},
	SortCategory:  {},
}

// NoteQuery selects one page of an owner's notes.
type NoteQuery struct {
	Search string
	Page   int
	Limit  int
	SortBy string
	Order  string
}

// Normalize clamps paging into range and replaces unknown sort keys and
// orders with the defaults (newest first).
func (q NoteQuery) Normalize() NoteQuery {
	q.Search = strings.TrimSpace(q.Search)
	switch {
	case q.Page < 1:
		q.Page = DefaultPage
	case q.Page > MaxPage:
		q.Page = MaxPage
	}
	switch {
	case q.Limit < 1:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	if _, ok := sortable[q.SortBy]; !ok {
		q.SortBy = SortCreatedAt
	}
	q.Order = strings.ToLower(q.Order)
	if q.Order != OrderAsc {
		q.Order = OrderDesc
	}
	return q
}

// Offset is the number of notes preceding the page. It saturates at
// math.MaxInt instead of wrapping.
func (q NoteQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// NotePage is one page of notes plus the paging totals.
type NotePage struct {
	Notes      []*Note `json:"notes"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int64   `json:"total"`
	TotalPages int64   `json:"totalPages"`
}

// NewNotePage builds a page for q (already normalized) out of notes and the
// total number of matches.
func NewNotePage(q NoteQuery, notes []*Note, total int64) *NotePage {
	if notes == nil {
		notes = []*Note{}
	}
	limit := int64(q.Limit)
	return &NotePage{
		Notes:      notes,
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: (total + limit - 1) / limit,
	}
}
