package repositories

import (
	"fmt"
	"strings"
)

// where collects AND-ed conditions with numbered placeholders for list queries.
type where struct {
	clauses []string
	args    []any
}

// add appends a condition whose single "%d" verb becomes the next placeholder index.
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(cond, len(w.args)))
}

// raw appends a condition without arguments.
func (w *where) raw(cond string) {
	w.clauses = append(w.clauses, cond)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// page appends LIMIT/OFFSET placeholders. Limit <= 0 means no limit.
func (w *where) page(limit, offset int) string {
	if limit <= 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	w.args = append(w.args, limit, offset)
	n := len(w.args)
	return fmt.Sprintf(" LIMIT $%d OFFSET $%d", n-1, n)
}
