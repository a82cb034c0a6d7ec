package book

import "strings"

// Kind tells the editor how to convert a submitted value for a column.
type Kind int

const (
	KindText Kind = iota
	KindInt
	KindDecimal
)

// Column describes one descriptive column of the books table.
type Column struct {
	Name  string
	Label string
	Kind  Kind
	Long  bool
	Hint  string
}

// Columns is every descriptive column, in the order scanTargets expects.
var Columns = []Column{
	{Name: "title", Label: "Title"},
	{Name: "author_name", Label: "Author"},
	{Name: "original_title", Label: "Original title"},
	{Name: "category", Label: "Categories", Hint: "Comma separated"},
	{Name: "genre", Label: "Genres", Hint: "Comma separated"},
	{Name: "series", Label: "Series"},
	{Name: "edition", Label: "Edition"},
	{Name: "publisher", Label: "Publisher"},
	{Name: "publish_date", Label: "Publish date"},
	{Name: "publication_year", Label: "Publication year", Kind: KindInt},
	{Name: "language", Label: "Language"},
	{Name: "isbn", Label: "ISBN"},
	{Name: "price", Label: "Price", Kind: KindDecimal},
	{Name: "rating", Label: "Rating", Kind: KindDecimal, Hint: "0 to 5"},
	{Name: "page_count", Label: "Pages", Kind: KindInt},
	{Name: "paper_type", Label: "Paper type"},
	{Name: "printing_method", Label: "Printing method"},
	{Name: "cover_type", Label: "Cover type"},
	{Name: "dimensions", Label: "Dimensions"},
	{Name: "weight_grams", Label: "Weight (g)", Kind: KindDecimal},
	{Name: "illustrator_name", Label: "Illustrator"},
	{Name: "translator_name", Label: "Translator"},
	{Name: "awards", Label: "Awards"},
	{Name: "age_range", Label: "Age range"},
	{Name: "stock_quantity", Label: "Stock", Kind: KindInt},
	{Name: "synopsis", Label: "Synopsis", Long: true, Hint: "Markdown"},
	{Name: "image_filename", Label: "Image"},
}

// ImageColumn is managed by uploads rather than by form text.
const ImageColumn = "image_filename"

var (
	columnIndex = func() map[string]Column {
		m := make(map[string]Column, len(Columns))
		for _, c := range Columns {
			m[c.Name] = c
		}
		return m
	}()

	columnPosition = func() map[string]int {
		m := make(map[string]int, len(Columns))
		for i, c := range Columns {
			m[c.Name] = i
		}
		return m
	}()

	allColumns = "id, " + func() string {
		names := make([]string, len(Columns))
		for i, c := range Columns {
			names[i] = c.Name
		}
		return strings.Join(names, ", ")
	}()
)

// LookupColumn reports whether name is a books column.
func LookupColumn(name string) (Column, bool) {
	c, ok := columnIndex[name]
	return c, ok
}

// Assignment is a column/value pair for INSERT and UPDATE statements. A nil
// Value stores SQL NULL.
type Assignment struct {
	Column string
	Value  any
}
