package book

import (
	"fmt"
	"strconv"
	"strings"
)

// Search column sets. They are constants of the package and never come from
// request input.
var (
	StorefrontSearchColumns = []string{"title", "author_name", "category", "genre", "publisher", "series", "isbn"}
	AdminSearchColumns      = []string{"title", "author_name", "category", "publisher", "isbn", "series"}
	TableSearchColumns      = []string{
		"title", "author_name", "category", "paper_type",
		"language", "publisher", "genre", "illustrator_name",
		"printing_method", "translator_name", "isbn", "awards",
	}
)

// Order is a fixed ORDER BY clause.
type Order string

const (
	OrderNewest Order = "id DESC"
	OrderTitle  Order = "title ASC NULLS LAST, id ASC"
)

func (o Order) clause() (string, error) {
	switch o {
	case OrderNewest, OrderTitle:
		return "ORDER BY " + string(o), nil
	}
	return "", fmt.Errorf("unsupported order %q", string(o))
}

// Filter is the optional free-text search plus facet filters of a listing.
type Filter struct {
	Search   string
	Category string
	Genre    string
}

// Normalize trims every value so whitespace-only input means "not set".
func (f Filter) Normalize() Filter {
	return Filter{
		Search:   strings.TrimSpace(f.Search),
		Category: strings.TrimSpace(f.Category),
		Genre:    strings.TrimSpace(f.Genre),
	}
}

// Predicate is a parameterized WHERE clause. User values only ever appear in
// Args; the clause text holds column names and $n placeholders.
type Predicate struct {
	clauses []string
	args    []any
}

// NewPredicate builds the predicate for f. The search term is matched as a
// case-insensitive substring against searchColumns (OR-ed); each facet is a
// substring match on its own column, AND-ed with the rest.
func NewPredicate(f Filter, searchColumns []string) Predicate {
	f = f.Normalize()
	var p Predicate

	if f.Search != "" && len(searchColumns) > 0 {
		n := p.bind(containsPattern(f.Search))
		ors := make([]string, len(searchColumns))
		for i, col := range searchColumns {
			ors[i] = col + " ILIKE " + n
		}
		p.clauses = append(p.clauses, "("+strings.Join(ors, " OR ")+")")
	}
	if f.Category != "" {
		p.clauses = append(p.clauses, "category ILIKE "+p.bind(containsPattern(f.Category)))
	}
	if f.Genre != "" {
		p.clauses = append(p.clauses, "genre ILIKE "+p.bind(containsPattern(f.Genre)))
	}
	return p
}

func (p *Predicate) bind(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// Where returns "WHERE ..." or "" when the predicate matches every row.
func (p Predicate) Where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(p.clauses, " AND ")
}

// Args returns the bound values in placeholder order.
func (p Predicate) Args() []any {
	return append([]any(nil), p.args...)
}

// Next is the number of the next free placeholder.
func (p Predicate) Next() int {
	return len(p.args) + 1
}

// Empty reports whether the predicate matches every row.
func (p Predicate) Empty() bool {
	return len(p.clauses) == 0
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a literal term into an ILIKE "contains" pattern.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
