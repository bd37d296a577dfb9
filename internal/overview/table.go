package overview

import "html/template"

// Table is the revision overview of one page, ready to be rendered.
type Table struct {
	PageID    int
	BasePath  string
	Header    []Cell
	Triggers  []TriggerGroup
	Rows      []Row
	Pager     Pager
	Libraries []string
}

// Cell is a header cell.
type Cell struct {
	Data    string
	Colspan int
	Style   string
}

// TriggerGroup is the top row block of one language: a blank view column,
// the diff-link cell over the left and right columns, and the pick label.
type TriggerGroup struct {
	Langcode      string
	Text          string
	Class         string
	Colspan       int
	Style         string
	DialogOptions string
	PickLabel     string
}

// Row is one revision of the overview.
type Row struct {
	RevisionID  int
	Date        string
	DateTitle   string
	Author      string
	Description template.HTML
	Published   bool
	Languages   []Controls
}

// Controls are the per-language cells of a row.
type Controls struct {
	Langcode string
	ViewURL  string
	Left     Radio
	Right    Radio
	Pick     Radio
}

// Radio is a single radio input.
type Radio struct {
	Name    string
	Value   string
	Checked bool
}

// Pager links the pages of a long revision history.
type Pager struct {
	Page    int
	Pages   int
	HasPrev bool
	HasNext bool
}

// Prev is the previous page number.
func (p Pager) Prev() int { return p.Page - 1 }

// Next is the next page number.
func (p Pager) Next() int { return p.Page + 1 }

// Number is the one-based page number shown to users.
func (p Pager) Number() int { return p.Page + 1 }
