// Package pager turns 1-based page numbers into LIMIT/OFFSET values.
package pager

import "math"

// DefaultSize is used when a caller passes a size below 1.
const DefaultSize = 12

// Page is a 1-based page of a fixed size.
type Page struct {
	Number int
	Size   int
}

// New returns page number of the given size. Numbers below 1 are clamped to
// the first page, and numbers whose offset would overflow an int are clamped
// to the last representable page.
func New(number, size int) Page {
	if size < 1 {
		size = DefaultSize
	}
	if number < 1 {
		number = 1
	}
	if last := math.MaxInt / size; number > last {
		number = last
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int { return (p.Number - 1) * p.Size }

func (p Page) Limit() int { return p.Size }

// TotalPages is ceil(total / Size).
func (p Page) TotalPages(total int) int {
	if total <= 0 {
		return 0
	}
	return (total + p.Size - 1) / p.Size
}

// Window is what a template needs to draw pagination links.
type Window struct {
	Number     int
	Size       int
	Total      int
	TotalPages int
}

// Window describes p against total matching records.
func (p Page) Window(total int) Window {
	return Window{
		Number:     p.Number,
		Size:       p.Size,
		Total:      total,
		TotalPages: p.TotalPages(total),
	}
}

func (w Window) HasPrev() bool { return w.Number > 1 }

func (w Window) HasNext() bool { return w.Number < w.TotalPages }

func (w Window) Prev() int { return w.Number - 1 }

func (w Window) Next() int { return w.Number + 1 }
