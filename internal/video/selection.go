package video

import (
	"fmt"
	"strings"
)

// SelectionID identifies one announceable event: the same video id in a
// different category is a different event.
type SelectionID struct {
	ID       string
	Category Category
}

// String renders the id as "<id>:<category>", the persisted form.
func (s SelectionID) String() string {
	if s.ID == "" {
		return ""
	}
	return s.ID + ":" + string(s.Category)
}

// IsZero reports whether nothing was ever announced.
func (s SelectionID) IsZero() bool { return s.ID == "" }

// ParseSelectionID parses the persisted form. The category is split off the
// last colon so ids containing colons survive. A bare id (the format the
// first releases wrote to last-posted.txt) parses with an empty category and
// therefore never equals a fresh selection.
func ParseSelectionID(s string) (SelectionID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SelectionID{}, nil
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return SelectionID{ID: s}, nil
	}
	cat := Category(s[i+1:])
	if !cat.Valid() {
		return SelectionID{ID: s}, nil
	}
	if i == 0 {
		return SelectionID{}, fmt.Errorf("selection id %q has no video id", s)
	}
	return SelectionID{ID: s[:i], Category: cat}, nil
}
