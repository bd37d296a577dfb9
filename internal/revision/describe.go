// Package revision describes what changed between two revisions of a page.
package revision

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"reveal/internal/models"
)

// Describer produces the human-readable change description shown in the
// revision overview.
type Describer struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDescriber creates a Describer.
func NewDescriber() *Describer {
	return &Describer{dmp: diffmatchpatch.New()}
}

// Describe returns the revision's log message when it has one. Otherwise it
// summarises the fields that changed since previous, which is nil for the
// oldest revision loaded.
func (d *Describer) Describe(rev models.Revision, previous *models.Revision) (string, error) {
	if msg := strings.TrimSpace(rev.LogMessage()); msg != "" {
		return msg, nil
	}
	if previous == nil {
		return "Initial revision.", nil
	}

	langcodes := make(map[string]struct{})
	for langcode := range rev.Translations {
		langcodes[langcode] = struct{}{}
	}
	for langcode := range previous.Translations {
		langcodes[langcode] = struct{}{}
	}

	var changes []string
	for _, langcode := range slices.Sorted(maps.Keys(langcodes)) {
		cur, inCur := rev.Translations[langcode]
		old, inOld := previous.Translations[langcode]
		switch {
		case inCur && !inOld:
			changes = append(changes, fmt.Sprintf("Translation (%s added)", langcode))
			continue
		case !inCur && inOld:
			changes = append(changes, fmt.Sprintf("Translation (%s removed)", langcode))
			continue
		}
		if ins, del := d.count(old.Title, cur.Title); ins+del > 0 {
			changes = append(changes, fmt.Sprintf("Title (%s)", langcode))
		}
		if ins, del := d.count(old.Content, cur.Content); ins+del > 0 {
			changes = append(changes, fmt.Sprintf("Content (%s, +%d -%d)", langcode, ins, del))
		}
	}

	if len(changes) == 0 {
		return "No changes.", nil
	}
	return "Changes on: " + strings.Join(changes, ", "), nil
}

// count returns the number of inserted and deleted characters between a and b.
func (d *Describer) count(a, b string) (inserted, deleted int) {
	if a == b {
		return 0, 0
	}
	diffs := d.dmp.DiffCleanupSemantic(d.dmp.DiffMain(a, b, false))
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffInsert:
			inserted += utf8.RuneCountInString(diff.Text)
		case diffmatchpatch.DiffDelete:
			deleted += utf8.RuneCountInString(diff.Text)
		}
	}
	return inserted, deleted
}
