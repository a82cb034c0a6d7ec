package book

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotFound is returned when no book matches the requested id.
var ErrNotFound = errors.New("book not found")

// Book is one row of the books table. Every descriptive attribute is nullable.
type Book struct {
	ID              int64
	Title           *string
	AuthorName      *string
	OriginalTitle   *string
	Category        *string
	Genre           *string
	Series          *string
	Edition         *string
	Publisher       *string
	PublishDate     *string
	PublicationYear *int
	Language        *string
	ISBN            *string
	Price           *float64
	Rating          *float64
	PageCount       *int
	PaperType       *string
	PrintingMethod  *string
	CoverType       *string
	Dimensions      *string
	WeightGrams     *float64
	IllustratorName *string
	TranslatorName  *string
	Awards          *string
	AgeRange        *string
	StockQuantity   *int
	Synopsis        *string
	ImageFilename   *string
}

// Categories returns the book's category tags.
func (b Book) Categories() []string { return SplitTags(deref(b.Category)) }

// Genres returns the book's genre tags.
func (b Book) Genres() []string { return SplitTags(deref(b.Genre)) }

// Value formats the named column for display or form pre-fill. NULL and
// unknown columns yield "".
func (b Book) Value(column string) string {
	i, ok := columnPosition[column]
	if !ok {
		return ""
	}
	switch v := b.scanTargets()[i+1].(type) {
	case **string:
		return deref(*v)
	case **int:
		if *v != nil {
			return strconv.Itoa(**v)
		}
	case **float64:
		if *v != nil {
			return strconv.FormatFloat(**v, 'f', -1, 64)
		}
	}
	return ""
}

// scanTargets lists the destinations for a "SELECT id, <Columns>" row in order.
func (b *Book) scanTargets() []any {
	return []any{
		&b.ID,
		&b.Title, &b.AuthorName, &b.OriginalTitle, &b.Category, &b.Genre,
		&b.Series, &b.Edition, &b.Publisher, &b.PublishDate, &b.PublicationYear,
		&b.Language, &b.ISBN, &b.Price, &b.Rating, &b.PageCount,
		&b.PaperType, &b.PrintingMethod, &b.CoverType, &b.Dimensions, &b.WeightGrams,
		&b.IllustratorName, &b.TranslatorName, &b.Awards, &b.AgeRange, &b.StockQuantity,
		&b.Synopsis, &b.ImageFilename,
	}
}

// Summary is the projection used by the storefront listing.
type Summary struct {
	ID            int64
	Title         *string
	AuthorName    *string
	Price         *float64
	ImageFilename *string
	Rating        *float64
	Category      *string
}

func (s Summary) Categories() []string { return SplitTags(deref(s.Category)) }

const summaryColumns = "id, title, author_name, price, image_filename, rating, category"

func (s *Summary) scanTargets() []any {
	return []any{&s.ID, &s.Title, &s.AuthorName, &s.Price, &s.ImageFilename, &s.Rating, &s.Category}
}

// SplitTags splits a comma-separated tag field into trimmed, non-empty,
// de-duplicated tags in order of first appearance.
func SplitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
