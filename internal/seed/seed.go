// Package seed loads users and pages with their revision history from a
// YAML fixture file.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"reveal/internal/langcode"
	"reveal/internal/models"
	"reveal/internal/page"
	"reveal/internal/user"
)

// Fixture is the top-level document.
type Fixture struct {
	Users []User `yaml:"users"`
	Pages []Page `yaml:"pages"`
}

type User struct {
	Username    string `yaml:"username"`
	DisplayName string `yaml:"display_name"`
}

// Page lists its revisions oldest first.
type Page struct {
	Title     string     `yaml:"title"`
	Languages []string   `yaml:"languages"`
	Revisions []Revision `yaml:"revisions"`
}

type Revision struct {
	Author       string                 `yaml:"author"`
	Log          string                 `yaml:"log"`
	Published    *bool                  `yaml:"published"`
	CreatedAt    time.Time              `yaml:"created_at"`
	Translations map[string]Translation `yaml:"translations"`
}

type Translation struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// Parse decodes a fixture, rejecting unknown keys.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// Result counts what Load inserted.
type Result struct {
	Users     int
	Pages     int
	Revisions int
}

// Load inserts the fixture. Users that already exist are reused.
func Load(ctx context.Context, db *sql.DB, f *Fixture) (Result, error) {
	var res Result
	users := user.NewRepository(db)
	pages := page.NewRepository(db)

	ids := make(map[string]int, len(f.Users))
	for _, u := range f.Users {
		existing, err := users.FindByUsername(ctx, u.Username)
		if err == nil {
			ids[u.Username] = existing.ID
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return res, err
		}
		m := &models.User{Username: u.Username, DisplayName: u.DisplayName}
		if m.DisplayName == "" {
			m.DisplayName = u.Username
		}
		if err := users.Create(ctx, m); err != nil {
			return res, err
		}
		ids[u.Username] = m.ID
		res.Users++
	}

	for _, p := range f.Pages {
		if len(p.Revisions) == 0 {
			return res, fmt.Errorf("page %q has no revisions", p.Title)
		}

		revisions := make([]*models.Revision, 0, len(p.Revisions))
		for i, r := range p.Revisions {
			rev, err := revision(r, ids)
			if err != nil {
				return res, fmt.Errorf("page %q revision %d: %w", p.Title, i+1, err)
			}
			revisions = append(revisions, rev)
		}

		langcodes, err := canonicalAll(p.Languages)
		if err != nil {
			return res, fmt.Errorf("page %q: %w", p.Title, err)
		}
		if len(langcodes) == 0 {
			langcodes = slices.Sorted(maps.Keys(revisions[0].Translations))
		}

		m := &models.Page{Title: p.Title}
		if _, err := pages.Create(ctx, m, revisions[0], langcodes); err != nil {
			return res, err
		}
		for _, rev := range revisions[1:] {
			if err := pages.CreateRevision(ctx, rev, m.ID); err != nil {
				return res, err
			}
		}
		res.Pages++
		res.Revisions += len(revisions)
	}
	return res, nil
}

func revision(r Revision, ids map[string]int) (*models.Revision, error) {
	authorID, ok := ids[r.Author]
	if !ok {
		return nil, fmt.Errorf("unknown author %q", r.Author)
	}

	rev := &models.Revision{
		AuthorID:     authorID,
		Published:    r.Published == nil || *r.Published,
		CreatedAt:    r.CreatedAt,
		Translations: make(map[string]models.Translation, len(r.Translations)),
	}
	if r.Log != "" {
		msg := r.Log
		rev.Log = &msg
	}
	for code, tr := range r.Translations {
		lang, err := langcode.Canonical(code)
		if err != nil {
			return nil, err
		}
		rev.Translations[lang] = models.Translation{Title: tr.Title, Content: tr.Content}
	}
	return rev, nil
}

func canonicalAll(codes []string) ([]string, error) {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		lang, err := langcode.Canonical(code)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(out, lang) {
			out = append(out, lang)
		}
	}
	return out, nil
}
