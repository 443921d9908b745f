package quiz

import "encoding/json"

// MistakeEntry records one incorrectly answered question. Equality is
// structural: two entries are the same mistake when both the word index and
// the direction match.
type MistakeEntry struct {
	Word int       `json:"idx"`
	Dir  Direction `json:"dir"`
}

// MistakeSet is an ordered set of MistakeEntry: insertion order is preserved
// and no (word, direction) pair appears twice. The zero value is ready to use.
type MistakeSet struct {
	entries []MistakeEntry
	index   map[MistakeEntry]struct{}
}

// NewMistakeSet builds a set from entries, dropping duplicates.
func NewMistakeSet(entries ...MistakeEntry) *MistakeSet {
	s := &MistakeSet{}
	s.AddAll(entries)
	return s
}

// Len returns the number of entries in the set.
func (s *MistakeSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// Contains reports whether e is in the set.
func (s *MistakeSet) Contains(e MistakeEntry) bool {
	if s == nil || s.index == nil {
		return false
	}
	_, ok := s.index[e]
	return ok
}

// Add appends e unless an equal entry is already present. It reports whether
// the set changed.
func (s *MistakeSet) Add(e MistakeEntry) bool {
	if s.Contains(e) {
		return false
	}
	if s.index == nil {
		s.index = make(map[MistakeEntry]struct{})
	}
	s.index[e] = struct{}{}
	s.entries = append(s.entries, e)
	return true
}

// AddAll merges entries into the set, skipping duplicates.
func (s *MistakeSet) AddAll(entries []MistakeEntry) {
	for _, e := range entries {
		s.Add(e)
	}
}

// Remove deletes e from the set. It reports whether the set changed.
func (s *MistakeSet) Remove(e MistakeEntry) bool {
	if !s.Contains(e) {
		return false
	}
	delete(s.index, e)
	for i, have := range s.entries {
		if have == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			break
		}
	}
	return true
}

// RemoveWord deletes every entry whose word index is word, regardless of
// direction. Removing an absent word is a no-op.
func (s *MistakeSet) RemoveWord(word int) {
	if s == nil || len(s.entries) == 0 {
		return
	}
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.Word == word {
			delete(s.index, e)
			continue
		}
		kept = append(kept, e)
	}
	s.entries = kept
}

// Entries returns the set contents in insertion order. The slice is a copy.
func (s *MistakeSet) Entries() []MistakeEntry {
	if s == nil {
		return nil
	}
	out := make([]MistakeEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Words returns the distinct word indices in the set, in first-seen order.
func (s *MistakeSet) Words() []int {
	if s == nil {
		return nil
	}
	seen := make(map[int]struct{}, len(s.entries))
	var words []int
	for _, e := range s.entries {
		if _, ok := seen[e.Word]; ok {
			continue
		}
		seen[e.Word] = struct{}{}
		words = append(words, e.Word)
	}
	return words
}

// Clear empties the set.
func (s *MistakeSet) Clear() {
	s.entries = nil
	s.index = nil
}

// Clone returns an independent copy of the set.
func (s *MistakeSet) Clone() *MistakeSet {
	if s == nil {
		return NewMistakeSet()
	}
	return NewMistakeSet(s.entries...)
}

// MarshalJSON encodes the set as a plain JSON array of entries.
func (s *MistakeSet) MarshalJSON() ([]byte, error) {
	if s == nil || s.entries == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.entries)
}

// UnmarshalJSON decodes a JSON array of entries, dropping duplicates.
func (s *MistakeSet) UnmarshalJSON(data []byte) error {
	var entries []MistakeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	s.Clear()
	s.AddAll(entries)
	return nil
}
