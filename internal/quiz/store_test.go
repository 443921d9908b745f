package quiz

import (
	"reflect"
	"testing"
)

func TestMistakeStoreAddDedup(t *testing.T) {
	entries := []MistakeEntry{
		{Word: 5, Dir: EnglishToJapanese},
		{Word: 6, Dir: EnglishToJapanese},
	}

	tests := []struct {
		name string
		cat  Category
		get  func(m *MistakeStore) *MistakeSet
	}{
		{"random", Random(), func(m *MistakeStore) *MistakeSet { return m.Random }},
		{"retry folds into random", Retry(), func(m *MistakeStore) *MistakeSet { return m.Random }},
		{"detailed", Detailed(1, 50), func(m *MistakeStore) *MistakeSet { return m.Detailed["1-50"] }},
		{"rough global", RoughDirectional(), func(m *MistakeStore) *MistakeSet { return m.GlobalRough }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMistakeStore()
			// Repeated overlapping adds must leave each pair at most once.
			store.Add(tt.cat, EnglishToJapanese, entries)
			store.Add(tt.cat, EnglishToJapanese, entries)
			store.Add(tt.cat, EnglishToJapanese, entries[:1])

			if got := tt.get(store).Len(); got != 2 {
				t.Errorf("partition has %d entries, want 2", got)
			}
		})
	}
}

func TestMistakeStoreAddEmptyIsNoop(t *testing.T) {
	store := NewMistakeStore()
	store.Add(Detailed(1, 50), EnglishToJapanese, nil)
	if len(store.Detailed) != 0 {
		t.Errorf("empty add created a partition: %v", store.Detailed)
	}
}

func TestMistakeStoreRoughAddHitsBothPartitions(t *testing.T) {
	store := NewMistakeStore()
	entry := MistakeEntry{Word: 9, Dir: JapaneseToEnglish}
	store.Add(RoughDirectional(), JapaneseToEnglish, []MistakeEntry{entry})

	if !store.GlobalRough.Contains(entry) {
		t.Error("global rough partition missing entry")
	}
	if !store.RoughTemp[JapaneseToEnglish].Contains(entry) {
		t.Error("temp rough partition missing entry")
	}

	store.ClearRoughTemp()
	if len(store.RoughTemp) != 0 {
		t.Error("ClearRoughTemp left temp partitions")
	}
	if !store.GlobalRough.Contains(entry) {
		t.Error("ClearRoughTemp must not touch the global partition")
	}
}

func TestMistakeStoreRemoveWordEverywhere(t *testing.T) {
	store := NewMistakeStore()
	store.Add(Random(), EnglishToJapanese, []MistakeEntry{{Word: 1, Dir: EnglishToJapanese}})
	store.Add(Detailed(1, 50), EnglishToJapanese, []MistakeEntry{{Word: 1, Dir: JapaneseToEnglish}, {Word: 2, Dir: EnglishToJapanese}})
	store.Add(RoughDirectional(), EnglishToJapanese, []MistakeEntry{{Word: 1, Dir: EnglishToJapanese}})

	store.RemoveWord(1)

	if got := store.UnifiedWords(); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("UnifiedWords after removal = %v, want [2]", got)
	}

	// Idempotent.
	store.RemoveWord(1)
	if got := store.UnifiedWords(); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("second removal changed state: %v", got)
	}
}

func TestReviewEntriesUnionDedup(t *testing.T) {
	store := NewMistakeStore()
	shared := MistakeEntry{Word: 3, Dir: EnglishToJapanese}
	store.Add(Random(), EnglishToJapanese, []MistakeEntry{shared, {Word: 4, Dir: EnglishToJapanese}})
	store.Add(Detailed(1, 50), EnglishToJapanese, []MistakeEntry{shared})
	store.Add(Detailed(51, 100), EnglishToJapanese, []MistakeEntry{{Word: 3, Dir: JapaneseToEnglish}})

	entries := store.ReviewEntries()
	if len(entries) != 3 {
		t.Fatalf("ReviewEntries len = %d, want 3 (dedup by word AND direction)", len(entries))
	}
	seen := make(map[MistakeEntry]int)
	for _, e := range entries {
		seen[e]++
	}
	for e, n := range seen {
		if n != 1 {
			t.Errorf("entry %v appears %d times", e, n)
		}
	}
}

func TestUnifiedWordsCollapsesDirections(t *testing.T) {
	store := NewMistakeStore()
	store.Add(Random(), EnglishToJapanese, []MistakeEntry{{Word: 8, Dir: EnglishToJapanese}})
	store.Add(RoughDirectional(), JapaneseToEnglish, []MistakeEntry{{Word: 8, Dir: JapaneseToEnglish}})

	if got := store.UnifiedWords(); !reflect.DeepEqual(got, []int{8}) {
		t.Errorf("UnifiedWords = %v, want [8]", got)
	}
}
