package repository

import (
	"fmt"
	"strings"
)

// whereBuilder accumulates positional SQL conditions.
type whereBuilder struct {
	clauses []string
	args    []any
}

// add appends a condition; every %s in cond is replaced with the next placeholder.
func (w *whereBuilder) add(cond string, arg any) {
	w.args = append(w.args, arg)
	placeholder := fmt.Sprintf("$%d", len(w.args))
	w.clauses = append(w.clauses, strings.ReplaceAll(cond, "%s", placeholder))
}

func (w *whereBuilder) addIn(column string, values []string) {
	if len(values) == 0 {
		return
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		w.args = append(w.args, v)
		placeholders[i] = fmt.Sprintf("$%d", len(w.args))
	}
	w.clauses = append(w.clauses, fmt.Sprintf("%s IN (%s)", column, strings.Join(placeholders, ",")))
}

func (w *whereBuilder) addSearch(term *string, columns ...string) {
	if term == nil || strings.TrimSpace(*term) == "" {
		return
	}
	w.args = append(w.args, "%"+strings.ToLower(strings.TrimSpace(*term))+"%")
	placeholder := fmt.Sprintf("$%d", len(w.args))
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE %s", col, placeholder)
	}
	w.clauses = append(w.clauses, "("+strings.Join(parts, " OR ")+")")
}

func (w *whereBuilder) sql() string {
	if len(w.clauses) == 0 {
		return "1=1"
	}
	return strings.Join(w.clauses, " AND ")
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
