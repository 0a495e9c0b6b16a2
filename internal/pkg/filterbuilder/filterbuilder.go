// Package filterbuilder accumulates validated predicate clauses for list
// queries. Unlike the ad-hoc filter maps of the original portal, every field
// name is checked against an allow-list so malformed admin input is rejected
// before it reaches the store.
package filterbuilder

import (
	"strings"

	"github.com/vietlabour/portal/internal/pkg/apperr"
	"gorm.io/gorm"
)

type condition struct {
	expr string
	args []interface{}
}

// Builder collects predicate clauses for a single query.
type Builder struct {
	allowed map[string]struct{}
	conds   []condition
	err     error
}

// New creates a Builder that accepts only the given column names.
func New(allowedFields ...string) *Builder {
	allowed := make(map[string]struct{}, len(allowedFields))
	for _, f := range allowedFields {
		allowed[f] = struct{}{}
	}
	return &Builder{allowed: allowed}
}

func (b *Builder) check(field string) bool {
	if b.err != nil {
		return false
	}
	if _, ok := b.allowed[field]; !ok {
		b.err = apperr.Validationf("unknown filter field %q", field)
		return false
	}
	return true
}

// Eq adds an equality predicate on field.
func (b *Builder) Eq(field string, value interface{}) *Builder {
	if b.check(field) {
		b.conds = append(b.conds, condition{expr: field + " = ?", args: []interface{}{value}})
	}
	return b
}

// In adds a membership predicate on field.
func (b *Builder) In(field string, values []string) *Builder {
	if b.check(field) {
		b.conds = append(b.conds, condition{expr: field + " IN ?", args: []interface{}{values}})
	}
	return b
}

// ContainsID adds a predicate matching a JSON id-array column containing id.
// Ids are UUIDs, so the quoted substring match is unambiguous.
func (b *Builder) ContainsID(field, id string) *Builder {
	if b.check(field) {
		b.conds = append(b.conds, condition{
			expr: field + " LIKE ?",
			args: []interface{}{`%"` + id + `"%`},
		})
	}
	return b
}

// ContainsAnyID adds a predicate matching a JSON id-array column containing
// at least one of the given ids.
func (b *Builder) ContainsAnyID(field string, ids []string) *Builder {
	if !b.check(field) {
		return b
	}
	if len(ids) == 0 {
		b.err = apperr.Validationf("empty id set for filter field %q", field)
		return b
	}
	exprs := make([]string, 0, len(ids))
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		exprs = append(exprs, field+" LIKE ?")
		args = append(args, `%"`+id+`"%`)
	}
	b.conds = append(b.conds, condition{expr: "(" + strings.Join(exprs, " OR ") + ")", args: args})
	return b
}

// Text adds a case-insensitive substring predicate across the given fields.
// An empty query adds no clause (free-text filters treat "" as "no filter").
func (b *Builder) Text(query string, fields ...string) *Builder {
	query = strings.TrimSpace(query)
	if query == "" || b.err != nil {
		return b
	}
	pattern := "%" + EscapeLike(strings.ToLower(query)) + "%"
	exprs := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields))
	for _, f := range fields {
		if !b.check(f) {
			return b
		}
		exprs = append(exprs, "LOWER("+f+") LIKE ? ESCAPE '\\'")
		args = append(args, pattern)
	}
	b.conds = append(b.conds, condition{expr: "(" + strings.Join(exprs, " OR ") + ")", args: args})
	return b
}

// Apply attaches the accumulated predicates to tx, or returns the first
// validation error encountered while building.
func (b *Builder) Apply(tx *gorm.DB) (*gorm.DB, error) {
	if b.err != nil {
		return nil, b.err
	}
	for _, c := range b.conds {
		tx = tx.Where(c.expr, c.args...)
	}
	return tx, nil
}

// EscapeLike escapes LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}
