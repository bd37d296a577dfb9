package page

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"reveal/internal/models"
)

// ErrNotFound is returned when a page or revision does not exist.
var ErrNotFound = errors.New("page: not found")

// Repository provides access to the page storage.
type Repository struct {
	DB *sql.DB
}

// NewRepository creates a new page repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{DB: db}
}

// FindByID loads a page together with its translation languages.
func (r *Repository) FindByID(ctx context.Context, pageID int) (models.Page, error) {
	var page models.Page
	err := r.DB.QueryRowContext(ctx, "SELECT id, title, current_revision_id, created_at FROM pages WHERE id = ?", pageID).
		Scan(&page.ID, &page.Title, &page.CurrentRevisionID, &page.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Page{}, ErrNotFound
	}
	if err != nil {
		return models.Page{}, fmt.Errorf("error loading page %d: %w", pageID, err)
	}

	page.Languages, err = r.Languages(ctx, pageID)
	if err != nil {
		return models.Page{}, err
	}
	return page, nil
}

// List lists all pages, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Page, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, title, current_revision_id, created_at FROM pages ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []models.Page
	for rows.Next() {
		var page models.Page
		if err := rows.Scan(&page.ID, &page.Title, &page.CurrentRevisionID, &page.CreatedAt); err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, rows.Err()
}

// Languages returns the language codes a page is translated into, in the
// order the translations were added.
func (r *Repository) Languages(ctx context.Context, pageID int) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT langcode FROM page_translations WHERE page_id = ? ORDER BY position ASC", pageID)
	if err != nil {
		return nil, fmt.Errorf("error listing languages of page %d: %w", pageID, err)
	}
	defer rows.Close()

	var langcodes []string
	for rows.Next() {
		var langcode string
		if err := rows.Scan(&langcode); err != nil {
			return nil, err
		}
		langcodes = append(langcodes, langcode)
	}
	return langcodes, rows.Err()
}

// ListRevisions lists every revision of a page, published or not, newest
// first. Each revision carries its translations.
func (r *Repository) ListRevisions(ctx context.Context, pageID, limit, offset int) ([]models.Revision, error) {
	rows, err := r.DB.QueryContext(ctx, `
SELECT r.id, r.page_id, r.author_id, u.display_name, r.log, r.published, r.created_at
FROM revisions r JOIN users u ON u.id = r.author_id
WHERE r.page_id = ?
ORDER BY r.id DESC
LIMIT ? OFFSET ?`, pageID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("error listing revisions of page %d: %w", pageID, err)
	}
	defer rows.Close()

	var revisions []models.Revision
	for rows.Next() {
		var rev models.Revision
		if err := rows.Scan(&rev.ID, &rev.PageID, &rev.AuthorID, &rev.Author, &rev.Log, &rev.Published, &rev.CreatedAt); err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadTranslations(ctx, revisions); err != nil {
		return nil, err
	}
	return revisions, nil
}

// CountRevisions counts every revision of a page.
func (r *Repository) CountRevisions(ctx context.Context, pageID int) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM revisions WHERE page_id = ?", pageID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("error counting revisions of page %d: %w", pageID, err)
	}
	return n, nil
}

// LoadRevision loads one revision of a page with its translations.
func (r *Repository) LoadRevision(ctx context.Context, pageID, revisionID int) (models.Revision, error) {
	var rev models.Revision
	err := r.DB.QueryRowContext(ctx, `
SELECT r.id, r.page_id, r.author_id, u.display_name, r.log, r.published, r.created_at
FROM revisions r JOIN users u ON u.id = r.author_id
WHERE r.page_id = ? AND r.id = ?`, pageID, revisionID).
		Scan(&rev.ID, &rev.PageID, &rev.AuthorID, &rev.Author, &rev.Log, &rev.Published, &rev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Revision{}, ErrNotFound
	}
	if err != nil {
		return models.Revision{}, fmt.Errorf("error loading revision %d: %w", revisionID, err)
	}

	revisions := []models.Revision{rev}
	if err := r.loadTranslations(ctx, revisions); err != nil {
		return models.Revision{}, err
	}
	return revisions[0], nil
}

func (r *Repository) loadTranslations(ctx context.Context, revisions []models.Revision) error {
	if len(revisions) == 0 {
		return nil
	}

	index := make(map[int]int, len(revisions))
	args := make([]any, len(revisions))
	for i := range revisions {
		revisions[i].Translations = make(map[string]models.Translation)
		index[revisions[i].ID] = i
		args[i] = revisions[i].ID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(revisions)), ",")
	rows, err := r.DB.QueryContext(ctx,
		"SELECT revision_id, langcode, title, content FROM revision_translations WHERE revision_id IN ("+placeholders+")", args...)
	if err != nil {
		return fmt.Errorf("error loading revision translations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var revisionID int
		var langcode string
		var tr models.Translation
		if err := rows.Scan(&revisionID, &langcode, &tr.Title, &tr.Content); err != nil {
			return err
		}
		revisions[index[revisionID]].Translations[langcode] = tr
	}
	return rows.Err()
}

// Create creates a new page, its languages and its initial revision in a
// transaction. The page languages follow the order of langcodes.
func (r *Repository) Create(ctx context.Context, page *models.Page, revision *models.Revision, langcodes []string) (int64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "INSERT INTO pages (title, current_revision_id) VALUES (?, -1)", page.Title)
	if err != nil {
		return 0, fmt.Errorf("error creating page: %w", err)
	}
	pageID, _ := res.LastInsertId()
	page.ID = int(pageID)

	for _, langcode := range langcodes {
		if err := addLanguage(ctx, tx, page.ID, langcode); err != nil {
			return 0, err
		}
	}
	page.Languages = langcodes

	if err := insertRevision(ctx, tx, revision, page.ID); err != nil {
		return 0, err
	}
	page.CurrentRevisionID = revision.ID

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("error committing transaction: %w", err)
	}
	return pageID, nil
}

// CreateRevision creates a new revision for a page and updates the page's
// current_revision_id. Languages of the revision the page does not have yet
// are appended to the page.
func (r *Repository) CreateRevision(ctx context.Context, revision *models.Revision, pageID int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, langcode := range slices.Sorted(maps.Keys(revision.Translations)) {
		if err := addLanguage(ctx, tx, pageID, langcode); err != nil {
			return err
		}
	}

	if err := insertRevision(ctx, tx, revision, pageID); err != nil {
		return err
	}

	return tx.Commit()
}

func addLanguage(ctx context.Context, tx *sql.Tx, pageID int, langcode string) error {
	_, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO page_translations (page_id, langcode, position)
VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM page_translations WHERE page_id = ?))`,
		pageID, langcode, pageID)
	if err != nil {
		return fmt.Errorf("error adding language %q: %w", langcode, err)
	}
	return nil
}

func insertRevision(ctx context.Context, tx *sql.Tx, revision *models.Revision, pageID int) error {
	createdAt := revision.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	res, err := tx.ExecContext(ctx, "INSERT INTO revisions (page_id, author_id, log, published, created_at) VALUES (?, ?, ?, ?, ?)",
		pageID, revision.AuthorID, revision.Log, revision.Published, createdAt)
	if err != nil {
		return fmt.Errorf("error creating revision: %w", err)
	}
	revisionID, _ := res.LastInsertId()
	revision.ID = int(revisionID)
	revision.PageID = pageID
	revision.CreatedAt = createdAt

	for langcode, tr := range revision.Translations {
		_, err := tx.ExecContext(ctx, "INSERT INTO revision_translations (revision_id, langcode, title, content) VALUES (?, ?, ?, ?)",
			revision.ID, langcode, tr.Title, tr.Content)
		if err != nil {
			return fmt.Errorf("error creating %s translation of revision %d: %w", langcode, revision.ID, err)
		}
	}

	_, err = tx.ExecContext(ctx, "UPDATE pages SET current_revision_id = ? WHERE id = ?", revision.ID, pageID)
	if err != nil {
		return fmt.Errorf("error updating page with revision ID: %w", err)
	}
	return nil
}
