package quiz

import "math/rand"

// Feedback is the transient result of the last submitted answer, shown until
// the user advances to the next question.
type Feedback struct {
	UserAnswer      string `json:"user_answer"`
	CorrectEnglish  string `json:"correct_english"`
	CorrectJapanese string `json:"correct_japanese"`
	WasCorrect      bool   `json:"was_correct"`
}

// SessionState is the single active quiz for a user: question sequence,
// position, running score, the mistakes made so far in this session, and any
// pending feedback. Exactly one of Seed, Rows or Entries describes the
// question sequence, depending on the category kind.
type SessionState struct {
	Category Category  `json:"category"`
	Dir      Direction `json:"dir"`

	// Seed regenerates the deterministic shuffle for random sessions. The
	// full order is never stored; the same seed over the same table always
	// reproduces it, so resume only needs the seed.
	Seed *int64 `json:"seed,omitempty"`

	// Rows is the fixed ordered word-index list for detailed and
	// rough-directional/ranged sessions.
	Rows []int `json:"rows,omitempty"`

	// Entries is the fixed ordered (word, direction) list for retry and
	// rough-review sessions, which carry a direction per item.
	Entries []MistakeEntry `json:"entries,omitempty"`

	Position int         `json:"index"`
	Score    int         `json:"score"`
	Mistakes *MistakeSet `json:"session_mistakes"`
	Feedback *Feedback   `json:"feedback,omitempty"`
}

// normalize guards against a state deserialised without its mistake set.
func (s *SessionState) normalize() {
	if s.Mistakes == nil {
		s.Mistakes = NewMistakeSet()
	}
}

// Len returns the length of the question sequence. Random sessions cover the
// whole table, so the table length is taken as-is.
func (s *SessionState) Len(tableLen int) int {
	switch {
	case s.Seed != nil:
		return tableLen
	case s.Category.PerItemDirection():
		return len(s.Entries)
	default:
		return len(s.Rows)
	}
}

// Exhausted reports whether the position has reached the end of the sequence.
func (s *SessionState) Exhausted(tableLen int) bool {
	return s.Position >= s.Len(tableLen)
}

// Item resolves sequence position i to a word index and question direction.
// The caller must have checked bounds.
func (s *SessionState) Item(i, tableLen int) (word int, dir Direction) {
	switch {
	case s.Seed != nil:
		order := shuffledIndices(*s.Seed, tableLen)
		return order[i], s.Dir
	case s.Category.PerItemDirection():
		e := s.Entries[i]
		return e.Word, e.Dir
	default:
		return s.Rows[i], s.Dir
	}
}

// shuffledIndices recomputes the deterministic order for a random session.
// Same seed, same table length, same order. This is the space/determinism trade the
// resume path relies on.
func shuffledIndices(seed int64, tableLen int) []int {
	return rand.New(rand.NewSource(seed)).Perm(tableLen)
}

// Snapshot is a suspended session as held by the saved-state registry:
// everything needed to reconstruct the session except the transient feedback.
type Snapshot struct {
	Category Category       `json:"category"`
	Seed     *int64         `json:"seed,omitempty"`
	Rows     []int          `json:"rows,omitempty"`
	Entries  []MistakeEntry `json:"entries,omitempty"`
	Position int            `json:"index"`
	Score    int            `json:"score"`
	Mistakes *MistakeSet    `json:"session_mistakes"`
}

// snapshot captures the suspendable part of the session.
func (s *SessionState) snapshot() *Snapshot {
	s.normalize()
	return &Snapshot{
		Category: s.Category,
		Seed:     s.Seed,
		Rows:     s.Rows,
		Entries:  s.Entries,
		Position: s.Position,
		Score:    s.Score,
		Mistakes: s.Mistakes.Clone(),
	}
}

// restore rebuilds an active session from a snapshot. Random sessions
// re-derive their order from the stored seed on demand.
func (snap *Snapshot) restore(dir Direction) *SessionState {
	state := &SessionState{
		Category: snap.Category,
		Dir:      dir,
		Seed:     snap.Seed,
		Rows:     snap.Rows,
		Entries:  snap.Entries,
		Position: snap.Position,
		Score:    snap.Score,
		Mistakes: snap.Mistakes.Clone(),
	}
	state.normalize()
	return state
}

// scrubWord removes word from the snapshot's session mistakes and, for
// per-item-direction sequences, from the remaining question entries. The
// position shifts down by the number of removed entries that preceded it so
// already-answered questions stay answered.
func (snap *Snapshot) scrubWord(word int) {
	if snap.Mistakes != nil {
		snap.Mistakes.RemoveWord(word)
	}
	if !snap.Category.PerItemDirection() || len(snap.Entries) == 0 {
		return
	}
	kept := snap.Entries[:0]
	removedBefore := 0
	for i, e := range snap.Entries {
		if e.Word == word {
			if i < snap.Position {
				removedBefore++
			}
			continue
		}
		kept = append(kept, e)
	}
	snap.Entries = kept
	snap.Position -= removedBefore
	if snap.Position > len(snap.Entries) {
		snap.Position = len(snap.Entries)
	}
}
