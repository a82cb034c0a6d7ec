package editor

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"bookstore/internal/book"
	"bookstore/internal/platform/validate"
)

// Form maps an editable column name to the submitted text.
type Form map[string]string

// ValidationError maps each rejected field to a message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// range and format rules applied after a value parses; upper bounds match
// the column types in db/migrations
var rules = map[string]string{
	"price":            "gte=0,lte=99999999.99",
	"rating":           "gte=0,lte=5",
	"page_count":       "gte=0,lte=2147483647",
	"weight_grams":     "gte=0,lte=999999.99",
	"stock_quantity":   "gte=0,lte=2147483647",
	"publication_year": "gte=0,lte=9999",
	"isbn":             "isbn",
}

// Assignments converts the form to one assignment per editable column,
// excluding the image. Blank values become NULL. Keys that are not
// columns are ignored.
func (f Form) Assignments() ([]book.Assignment, error) {
	values := make([]book.Assignment, 0, len(book.Columns))
	bad := make(map[string]string)

	for _, c := range book.Columns {
		if c.Name == book.ImageColumn {
			continue
		}
		raw := strings.TrimSpace(f[c.Name])
		if raw == "" {
			values = append(values, book.Assignment{Column: c.Name, Value: nil})
			continue
		}

		v, err := parseValue(c, raw)
		if err != nil {
			bad[c.Name] = err.Error()
			continue
		}
		if tag, ok := rules[c.Name]; ok {
			if fe := validate.Var(c.Label, v, tag); fe != nil {
				bad[c.Name] = fe.Message
				continue
			}
		}
		values = append(values, book.Assignment{Column: c.Name, Value: v})
	}

	if len(bad) > 0 {
		return nil, &ValidationError{Fields: bad}
	}
	return values, nil
}

func parseValue(c book.Column, raw string) (any, error) {
	switch c.Kind {
	case book.KindInt:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s must be a whole number", c.Label)
		}
		return n, nil
	case book.KindDecimal:
		x, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, fmt.Errorf("%s must be a number", c.Label)
		}
		return x, nil
	default:
		return raw, nil
	}
}

// FormFromBook pre-fills the edit form with b's current values.
func FormFromBook(b book.Book) Form {
	f := make(Form, len(book.Columns))
	for _, c := range book.Columns {
		f[c.Name] = b.Value(c.Name)
	}
	return f
}
