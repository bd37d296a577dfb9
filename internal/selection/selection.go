// Package selection holds the per-language revision picks of the overview
// form. The radio names radios_left_<lang>, radios_right_<lang> and
// pick_<lang> only exist at the HTML form boundary.
package selection

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Radio group roles.
const (
	RoleLeft  = "radios_left"
	RoleRight = "radios_right"
	RolePick  = "pick"
)

// LeftName returns the radio group name of the left revision of langcode.
func LeftName(langcode string) string { return RoleLeft + "_" + langcode }

// RightName returns the radio group name of the right revision of langcode.
func RightName(langcode string) string { return RoleRight + "_" + langcode }

// PickName returns the radio group name of the pick control of langcode.
func PickName(langcode string) string { return RolePick + "_" + langcode }

// Selection is what the user picked for one language. Nil means nothing is
// checked in that group.
type Selection struct {
	Left  *int
	Right *int
	// Pick is rendered for every language but nothing reads it yet.
	Pick *string
}

// Complete reports whether both a left and a right revision are chosen.
func (s Selection) Complete() bool {
	return s.Left != nil && s.Right != nil
}

// State maps a language code to its selection.
type State map[string]Selection

// Get returns the selection of langcode, empty if none.
func (s State) Get(langcode string) Selection {
	return s[langcode]
}

// Select records a left and right revision for langcode.
func (s State) Select(langcode string, left, right int) {
	sel := s[langcode]
	sel.Left, sel.Right = &left, &right
	s[langcode] = sel
}

// FromForm decodes the radio groups of langcodes from submitted form values.
// Empty groups stay nil; a value that is not a revision id is an error.
func FromForm(form url.Values, langcodes []string) (State, error) {
	state := make(State, len(langcodes))
	for _, langcode := range langcodes {
		var sel Selection
		var err error
		if sel.Left, err = revisionID(form, LeftName(langcode)); err != nil {
			return nil, err
		}
		if sel.Right, err = revisionID(form, RightName(langcode)); err != nil {
			return nil, err
		}
		if v := strings.TrimSpace(form.Get(PickName(langcode))); v != "" {
			sel.Pick = &v
		}
		state[langcode] = sel
	}
	return state, nil
}

func revisionID(form url.Values, name string) (*int, error) {
	v := strings.TrimSpace(form.Get(name))
	if v == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(v)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid revision id %q in %s", v, name)
	}
	return &id, nil
}

// DiffPath builds the comparison route below base:
// <base>/diff/<langcode>/<left>/<right>.
func DiffPath(base, langcode string, left, right int) string {
	return fmt.Sprintf("%s/diff/%s/%d/%d", strings.TrimSuffix(base, "/"), langcode, left, right)
}
