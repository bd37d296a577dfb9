// Package langcode normalises translation language codes.
package langcode

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

var errEmpty = errors.New("empty language code")

// Canonical parses a BCP 47 language code and returns its canonical form,
// so "EN" and "en" name the same translation.
func Canonical(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", errEmpty
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", code, err)
	}
	return tag.String(), nil
}
