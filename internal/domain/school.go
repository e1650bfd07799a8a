package domain

import "time"

// School is the tenant root.
type School struct {
	ID        string
	Name      string
	Address   string
	Phone     string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Page is a window over a list result.
type Page[T any] struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Items  []T `json:"items"`
}

// ListOptions bounds a list query.
type ListOptions struct {
	Limit  int
	Offset int
	Query  string
}

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 200
)

// Normalize clamps limit and offset to the accepted range.
func (o ListOptions) Normalize() ListOptions {
	if o.Limit <= 0 {
		o.Limit = DefaultPageLimit
	}
	if o.Limit > MaxPageLimit {
		o.Limit = MaxPageLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	return o
}
