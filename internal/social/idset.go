package social

import "sort"

// IDSet is an unordered set of user identifiers.
type IDSet map[string]struct{}

// NewIDSet builds a set from ids, dropping duplicates.
func NewIDSet(ids ...string) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Has reports whether id is a member.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id and reports whether it was absent.
func (s IDSet) Add(id string) bool {
	if s.Has(id) {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Remove deletes id and reports whether it was present.
func (s IDSet) Remove(id string) bool {
	if !s.Has(id) {
		return false
	}
	delete(s, id)
	return true
}

// Slice returns the members in sorted order.
func (s IDSet) Slice() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s IDSet) Clone() IDSet {
	cp := make(IDSet, len(s))
	for id := range s {
		cp[id] = struct{}{}
	}
	return cp
}

// Diff returns the members of s missing from old (added) and the members of
// old missing from s (removed).
func (s IDSet) Diff(old IDSet) (added, removed []string) {
	for id := range s {
		if !old.Has(id) {
			added = append(added, id)
		}
	}
	for id := range old {
		if !s.Has(id) {
			removed = append(removed, id)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
