package domain

import "slices"

// KeySet is an insertion-ordered set of websafe keys. It backs the profile's
// conference attendance list and session wishlist.
type KeySet []string

// Contains reports whether key is in the set.
func (s KeySet) Contains(key string) bool {
	return slices.Contains(s, key)
}

// Add appends key if it is not already present. It reports whether the set changed.
func (s *KeySet) Add(key string) bool {
	if s.Contains(key) {
		return false
	}
	*s = append(*s, key)
	return true
}

// Remove deletes key, keeping the order of the remaining entries.
// It reports whether the set changed.
func (s *KeySet) Remove(key string) bool {
	i := slices.Index(*s, key)
	if i < 0 {
		return false
	}
	*s = slices.Delete(*s, i, i+1)
	return true
}

// Clone returns an independent copy of the set.
func (s KeySet) Clone() KeySet {
	if s == nil {
		return KeySet{}
	}
	return slices.Clone(s)
}
