// Package overview builds the per-language revision comparison table of a
// page.
package overview

import (
	"context"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"reveal/internal/dialog"
	"reveal/internal/models"
	"reveal/internal/selection"
)

// RevisionsPerPage is the size of one page of revision history.
const RevisionsPerPage = 50

// DateFormat is the short date style of the revision column.
const DateFormat = "01/02/2006 - 15:04"

// Client behaviour the rendered table depends on.
const (
	LibraryOverview = "reveal/overview"
	LibraryDialog   = "reveal/dialog"
)

const centered = "text-align: center;"

// RevisionStore is the storage the overview reads from.
type RevisionStore interface {
	Languages(ctx context.Context, pageID int) ([]string, error)
	ListRevisions(ctx context.Context, pageID, limit, offset int) ([]models.Revision, error)
	CountRevisions(ctx context.Context, pageID int) (int, error)
}

// Describer summarises a revision against the one before it.
type Describer interface {
	Describe(rev models.Revision, previous *models.Revision) (string, error)
}

// Sanitizer filters description markup.
type Sanitizer interface {
	Sanitize(markup string) string
}

// Builder assembles overview tables.
type Builder struct {
	Store     RevisionStore
	Describer Describer
	Sanitizer Sanitizer
	Now       func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(store RevisionStore, describer Describer, sanitizer Sanitizer) *Builder {
	return &Builder{Store: store, Describer: describer, Sanitizer: sanitizer, Now: time.Now}
}

// Query selects what Build renders.
type Query struct {
	PageID int
	// Page is the zero-based history page.
	Page int
	// BasePath is the overview path; view links hang below it.
	BasePath string
}

// Build loads the languages and one page of revisions and lays them out.
// Store and describer failures are returned as they come.
func (b *Builder) Build(ctx context.Context, q Query) (*Table, error) {
	langcodes, err := b.Store.Languages(ctx, q.PageID)
	if err != nil {
		return nil, fmt.Errorf("load languages: %w", err)
	}

	total, err := b.Store.CountRevisions(ctx, q.PageID)
	if err != nil {
		return nil, fmt.Errorf("count revisions: %w", err)
	}
	pageNum := max(q.Page, 0)

	revisions, err := b.Store.ListRevisions(ctx, q.PageID, RevisionsPerPage, pageNum*RevisionsPerPage)
	if err != nil {
		return nil, fmt.Errorf("load revisions: %w", err)
	}

	table := &Table{
		PageID:    q.PageID,
		BasePath:  strings.TrimSuffix(q.BasePath, "/"),
		Header:    header(langcodes),
		Triggers:  triggers(langcodes),
		Rows:      make([]Row, 0, len(revisions)),
		Pager:     pager(pageNum, total),
		Libraries: []string{LibraryOverview, LibraryDialog},
	}

	// The predecessor of the last row may live on the next page.
	olderExist := pageNum*RevisionsPerPage+len(revisions) < total

	now := b.Now()
	for i, rev := range revisions {
		var previous *models.Revision
		if i+1 < len(revisions) {
			previous = &revisions[i+1]
		}
		describe := previous != nil || !olderExist || strings.TrimSpace(rev.LogMessage()) != ""
		row, err := b.row(rev, previous, describe, langcodes, table.BasePath, now)
		if err != nil {
			return nil, err
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func header(langcodes []string) []Cell {
	cells := make([]Cell, 0, len(langcodes)+1)
	cells = append(cells, Cell{})
	for _, langcode := range langcodes {
		cells = append(cells, Cell{Data: langcode, Colspan: 4, Style: centered})
	}
	return cells
}

func triggers(langcodes []string) []TriggerGroup {
	opts := dialog.Options{Width: dialog.Width}.JSON()
	groups := make([]TriggerGroup, 0, len(langcodes))
	for _, langcode := range langcodes {
		groups = append(groups, TriggerGroup{
			Langcode:      langcode,
			Text:          "Diff",
			Class:         "diff-link",
			Colspan:       2,
			Style:         centered,
			DialogOptions: opts,
			PickLabel:     "Pick",
		})
	}
	return groups
}

func pager(page, total int) Pager {
	pages := (total + RevisionsPerPage - 1) / RevisionsPerPage
	return Pager{
		Page:    page,
		Pages:   pages,
		HasPrev: page > 0,
		HasNext: page+1 < pages,
	}
}

// row lays out one revision. Without describe the description stays empty.
func (b *Builder) row(rev models.Revision, previous *models.Revision, describe bool, langcodes []string, base string, now time.Time) (Row, error) {
	var desc string
	if describe {
		var err error
		if desc, err = b.Describer.Describe(rev, previous); err != nil {
			return Row{}, fmt.Errorf("describe revision %d: %w", rev.ID, err)
		}
	}

	row := Row{
		RevisionID: rev.ID,
		Date:       rev.CreatedAt.Format(DateFormat),
		DateTitle:  humanize.RelTime(rev.CreatedAt, now, "ago", "from now"),
		Author:     rev.Author,
		Published:  rev.Published,
		Languages:  make([]Controls, 0, len(langcodes)),
	}
	if desc = strings.TrimSpace(desc); desc != "" {
		row.Description = template.HTML(b.Sanitizer.Sanitize(desc))
	}

	id := strconv.Itoa(rev.ID)
	for _, langcode := range langcodes {
		row.Languages = append(row.Languages, Controls{
			Langcode: langcode,
			ViewURL:  fmt.Sprintf("%s/%d/view/%s", base, rev.ID, langcode),
			Left:     Radio{Name: selection.LeftName(langcode), Value: id},
			Right:    Radio{Name: selection.RightName(langcode), Value: id},
			Pick:     Radio{Name: selection.PickName(langcode), Value: langcode},
		})
	}
	return row, nil
}
