package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// HighlightSet holds the cell ids a user has highlighted.
type HighlightSet map[string]struct{}

func NewHighlightSet(ids ...string) HighlightSet {
	set := make(HighlightSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s HighlightSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Toggle flips the membership of id and returns the new membership.
func (s HighlightSet) Toggle(id string) bool {
	if s.Has(id) {
		delete(s, id)
		return false
	}

	s[id] = struct{}{}
	return true
}

func (s HighlightSet) Len() int {
	return len(s)
}

// IDs returns the members in sorted order.
func (s HighlightSet) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s HighlightSet) Clone() HighlightSet {
	return NewHighlightSet(s.IDs()...)
}

func (s HighlightSet) Equal(other HighlightSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Has(id) {
			return false
		}
	}
	return true
}

// HighlightDocument is the stored form of a user's highlights.
type HighlightDocument struct {
	SessionIDs []string
	UpdatedAt  time.Time
}

func (doc HighlightDocument) Set() HighlightSet {
	return NewHighlightSet(doc.SessionIDs...)
}

// DocumentPath addresses the highlight document of a user.
func DocumentPath(namespace, userID string) string {
	return fmt.Sprintf("/artifacts/%s/users/%s/highlights/sessions", namespace, userID)
}

// ParseDocumentPath is the inverse of DocumentPath.
func ParseDocumentPath(path string) (string, string, bool) {
	parts := strings.Split(strings.TrimPrefix(path, "/"), "/")
	//nolint:mnd //artifacts/{ns}/users/{uid}/highlights/sessions
	if len(parts) != 6 ||
		parts[0] != "artifacts" ||
		parts[2] != "users" ||
		parts[4] != "highlights" ||
		parts[5] != "sessions" {
		return "", "", false
	}

	if parts[1] == "" || parts[3] == "" {
		return "", "", false
	}

	return parts[1], parts[3], true
}
