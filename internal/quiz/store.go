package quiz

import "sort"

// MistakeStore holds a user's durable mistake collections, partitioned by
// quiz family. Random and Detailed collect free-text mistakes; GlobalRough is
// the durable multiple-choice partition and RoughTemp the transient
// per-direction one, cleared when the user leaves rough play.
type MistakeStore struct {
	Random      *MistakeSet               `json:"random"`
	Detailed    map[string]*MistakeSet    `json:"detailed"`
	RoughTemp   map[Direction]*MistakeSet `json:"rough_temp"`
	GlobalRough *MistakeSet               `json:"rough_global"`
}

// NewMistakeStore returns an empty store with all partitions initialised.
func NewMistakeStore() *MistakeStore {
	return &MistakeStore{
		Random:      NewMistakeSet(),
		Detailed:    make(map[string]*MistakeSet),
		RoughTemp:   make(map[Direction]*MistakeSet),
		GlobalRough: NewMistakeSet(),
	}
}

// normalize re-creates any partition lost in deserialisation so callers never
// see a nil map or set.
func (m *MistakeStore) normalize() {
	if m.Random == nil {
		m.Random = NewMistakeSet()
	}
	if m.Detailed == nil {
		m.Detailed = make(map[string]*MistakeSet)
	}
	if m.RoughTemp == nil {
		m.RoughTemp = make(map[Direction]*MistakeSet)
	}
	if m.GlobalRough == nil {
		m.GlobalRough = NewMistakeSet()
	}
}

// detailedSet returns the partition for rangeKey, creating it on first use.
func (m *MistakeStore) detailedSet(rangeKey string) *MistakeSet {
	m.normalize()
	set, ok := m.Detailed[rangeKey]
	if !ok || set == nil {
		set = NewMistakeSet()
		m.Detailed[rangeKey] = set
	}
	return set
}

// roughTempSet returns the transient rough partition for dir, creating it on
// first use.
func (m *MistakeStore) roughTempSet(dir Direction) *MistakeSet {
	m.normalize()
	set, ok := m.RoughTemp[dir]
	if !ok || set == nil {
		set = NewMistakeSet()
		m.RoughTemp[dir] = set
	}
	return set
}

// Add merges entries into the partition selected by cat, skipping entries
// already present. Adding nothing is a no-op. The session direction dir picks
// the rough temp partition for rough categories.
func (m *MistakeStore) Add(cat Category, dir Direction, entries []MistakeEntry) {
	if len(entries) == 0 {
		return
	}
	m.normalize()
	switch cat.Kind {
	case KindRandom, KindRetry:
		// Retry mistakes fold back into the random partition so they stay
		// visible to the next review set.
		m.Random.AddAll(entries)
	case KindDetailed:
		m.detailedSet(cat.RangeKey()).AddAll(entries)
	case KindRoughDirectional, KindRoughRanged, KindRoughReview:
		m.roughTempSet(dir).AddAll(entries)
		m.GlobalRough.AddAll(entries)
	}
}

// RemoveWord deletes every entry for word from all four partitions. Snapshots
// are scrubbed separately by the saved-state registry.
func (m *MistakeStore) RemoveWord(word int) {
	m.normalize()
	m.Random.RemoveWord(word)
	for _, set := range m.Detailed {
		set.RemoveWord(word)
	}
	for _, set := range m.RoughTemp {
		set.RemoveWord(word)
	}
	m.GlobalRough.RemoveWord(word)
}

// ClearRoughTemp drops the transient rough partitions.
func (m *MistakeStore) ClearRoughTemp() {
	m.RoughTemp = make(map[Direction]*MistakeSet)
}

// ReviewEntries returns the deduplicated union of the random partition and
// every detailed partition, in a stable order. This feeds retry sessions.
func (m *MistakeStore) ReviewEntries() []MistakeEntry {
	m.normalize()
	union := NewMistakeSet(m.Random.Entries()...)
	for _, key := range sortedKeys(m.Detailed) {
		union.AddAll(m.Detailed[key].Entries())
	}
	return union.Entries()
}

// RoughReviewEntries returns the deduplicated union of the durable and
// transient rough partitions. This feeds rough review sessions.
func (m *MistakeStore) RoughReviewEntries() []MistakeEntry {
	m.normalize()
	union := NewMistakeSet(m.GlobalRough.Entries()...)
	for _, dir := range []Direction{EnglishToJapanese, JapaneseToEnglish} {
		if set, ok := m.RoughTemp[dir]; ok {
			union.AddAll(set.Entries())
		}
	}
	return union.Entries()
}

// UnifiedWords returns the distinct word indices present anywhere in the
// store, sorted ascending. Direction is deliberately collapsed: the
// consolidated review list shows each word once.
func (m *MistakeStore) UnifiedWords() []int {
	m.normalize()
	seen := make(map[int]struct{})
	collect := func(set *MistakeSet) {
		for _, e := range set.Entries() {
			seen[e.Word] = struct{}{}
		}
	}
	collect(m.Random)
	for _, set := range m.Detailed {
		collect(set)
	}
	for _, set := range m.RoughTemp {
		collect(set)
	}
	collect(m.GlobalRough)

	words := make([]int, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Ints(words)
	return words
}

// FreeTextWords returns the distinct word indices in the random and detailed
// partitions, sorted ascending. This backs the manage-mistakes screen, which
// predates rough mode.
func (m *MistakeStore) FreeTextWords() []int {
	m.normalize()
	seen := make(map[int]struct{})
	for _, e := range m.Random.Entries() {
		seen[e.Word] = struct{}{}
	}
	for _, set := range m.Detailed {
		for _, e := range set.Entries() {
			seen[e.Word] = struct{}{}
		}
	}
	words := make([]int, 0, len(seen))
	for w := range seen {
		words = append(words, w)
	}
	sort.Ints(words)
	return words
}

func sortedKeys(m map[string]*MistakeSet) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
