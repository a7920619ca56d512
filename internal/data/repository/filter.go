package repository

import (
	"fmt"
	"slices"
	"strings"

	"support-directory/internal/data/entity"
	"support-directory/pkg/utils"

	"github.com/google/uuid"
)

// ListParams carries the exact filters, free-text search and page window of a
// list call. Zero values mean "no filter".
type ListParams struct {
	Search     string
	Status     string
	CategoryID *uuid.UUID
	Roles      []entity.Role
	Window     utils.Window
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchPattern turns a free-text term into an ILIKE "contains" pattern with
// the wildcard characters of the term matched literally. A blank term yields "".
func SearchPattern(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(term) + "%"
}

// SearchFilter ORs a case-insensitive match of placeholder across fields.
func SearchFilter(placeholder string, fields ...string) string {
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("%s ILIKE %s", field, placeholder)
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// ListQuery accumulates AND-ed predicates with positional arguments and
// renders the count and page queries of a list call.
type ListQuery struct {
	conds []string
	args  []any
}

func NewListQuery() *ListQuery {
	return &ListQuery{}
}

func (q *ListQuery) arg(v any) string {
	q.args = append(q.args, v)
	return fmt.Sprintf("$%d", len(q.args))
}

func (q *ListQuery) Equal(column string, value any) *ListQuery {
	q.conds = append(q.conds, fmt.Sprintf("%s = %s", column, q.arg(value)))
	return q
}

func (q *ListQuery) In(column string, values []string) *ListQuery {
	q.conds = append(q.conds, fmt.Sprintf("%s = ANY(%s)", column, q.arg(values)))
	return q
}

func (q *ListQuery) Search(term string, fields ...string) *ListQuery {
	pattern := SearchPattern(term)
	if pattern == "" || len(fields) == 0 {
		return q
	}
	q.conds = append(q.conds, SearchFilter(q.arg(pattern), fields...))
	return q
}

func (q *ListQuery) where() string {
	if len(q.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.conds, " AND ")
}

func (q *ListQuery) CountSQL(from string) (string, []any) {
	return "SELECT COUNT(*) FROM " + from + q.where(), slices.Clone(q.args)
}

func (q *ListQuery) SelectSQL(columns, from, orderBy string, w utils.Window) (string, []any) {
	args := slices.Clone(q.args)
	args = append(args, w.Limit(), w.Offset())

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(columns)
	sb.WriteString(" FROM ")
	sb.WriteString(from)
	sb.WriteString(q.where())
	sb.WriteString(" ORDER BY ")
	sb.WriteString(orderBy)
	fmt.Fprintf(&sb, " LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	return sb.String(), args
}

func rolesToStrings(roles []entity.Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}
