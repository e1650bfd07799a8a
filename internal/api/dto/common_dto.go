package dto

import "github.com/spec-kit/school-service/internal/domain"

// ListQuery carries pagination and search parameters.
type ListQuery struct {
	Limit  int    `query:"limit" validate:"omitempty,min=0"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
	Q      string `query:"q" validate:"omitempty,max=200"`
}

// Options converts the query into clamped list options.
func (q ListQuery) Options() domain.ListOptions {
	return domain.ListOptions{Limit: q.Limit, Offset: q.Offset, Query: q.Q}.Normalize()
}

// DeletedResponse acknowledges a delete.
type DeletedResponse struct {
	Deleted bool `json:"deleted"`
}

// PageOf maps every item of p through fn, keeping the paging fields.
func PageOf[T, R any](p domain.Page[T], fn func(*T) R) domain.Page[R] {
	out := domain.Page[R]{Total: p.Total, Limit: p.Limit, Offset: p.Offset, Items: make([]R, 0, len(p.Items))}
	for i := range p.Items {
		out.Items = append(out.Items, fn(&p.Items[i]))
	}
	return out
}
