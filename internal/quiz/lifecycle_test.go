package quiz

import (
	"errors"
	"math/rand"
	"reflect"
	"sync"
	"testing"
)

// fakeTable is an in-memory word source for tests.
type fakeTable []WordEntry

func (f fakeTable) Word(i int) (WordEntry, bool) {
	if i < 0 || i >= len(f) {
		return WordEntry{}, false
	}
	return f[i], true
}

func (f fakeTable) Count() int { return len(f) }

func testTable(n int) fakeTable {
	words := []WordEntry{
		{English: "apple", Japanese: "りんご"},
		{English: "dog", Japanese: "犬"},
		{English: "book", Japanese: "本"},
		{English: "water", Japanese: "水"},
		{English: "mountain", Japanese: "山"},
		{English: "river", Japanese: "川"},
	}
	return fakeTable(words[:n])
}

func testLifecycle(table fakeTable) *Lifecycle {
	return NewLifecycle(table, ContainmentMatcher{}, rand.New(rand.NewSource(1)))
}

func TestRandomQuizSeededScenario(t *testing.T) {
	table := testTable(3)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.StartRandomSeeded(doc, 42); err != nil {
		t.Fatalf("start: %v", err)
	}

	// The sequence is the deterministic shuffle of [0..N) under seed 42.
	wantOrder := shuffledIndices(42, 3)

	// Question 1: wrong answer.
	q, err := l.CurrentQuestion(doc)
	if err != nil {
		t.Fatalf("question 1: %v", err)
	}
	if q.Word != wantOrder[0] {
		t.Errorf("question 1 word = %d, want %d", q.Word, wantOrder[0])
	}
	fb, err := l.SubmitAnswer(doc, "zzzzz")
	if err != nil {
		t.Fatalf("submit 1: %v", err)
	}
	if fb.WasCorrect {
		t.Fatal("garbage answer scored correct")
	}
	if doc.Active.Score != 0 {
		t.Errorf("score = %d, want 0", doc.Active.Score)
	}
	if !doc.Active.Mistakes.Contains(MistakeEntry{Word: wantOrder[0], Dir: EnglishToJapanese}) {
		t.Error("session mistakes missing the missed word")
	}

	// Questions 2 and 3: correct answers.
	for i := 1; i < 3; i++ {
		if _, err := l.Advance(doc); err != nil {
			t.Fatalf("advance: %v", err)
		}
		q, err := l.CurrentQuestion(doc)
		if err != nil {
			t.Fatalf("question %d: %v", i+1, err)
		}
		if q.Word != wantOrder[i] {
			t.Errorf("question %d word = %d, want %d", i+1, q.Word, wantOrder[i])
		}
		fb, err := l.SubmitAnswer(doc, q.Answer)
		if err != nil {
			t.Fatalf("submit %d: %v", i+1, err)
		}
		if !fb.WasCorrect {
			t.Errorf("exact answer %q scored wrong", q.Answer)
		}
	}

	exhausted, err := l.Advance(doc)
	if err != nil {
		t.Fatalf("final advance: %v", err)
	}
	if !exhausted {
		t.Fatal("session not exhausted after last question")
	}

	result, err := l.Finish(doc)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if result.Score != 2 || result.Total != 3 {
		t.Errorf("result = %d/%d, want 2/3", result.Score, result.Total)
	}
	if doc.Active != nil {
		t.Error("active session survived Finish")
	}
	if !doc.Mistakes.Random.Contains(MistakeEntry{Word: wantOrder[0], Dir: EnglishToJapanese}) {
		t.Error("random partition missing the committed mistake")
	}
}

func TestDetailedRangeDedupAcrossSessions(t *testing.T) {
	table := testTable(6)
	l := testLifecycle(table)
	doc := NewUserDoc()

	missWordFive := func() {
		if err := l.Start(doc, Detailed(1, 6)); err != nil {
			t.Fatalf("start: %v", err)
		}
		// Walk to table position 5 (word index 4) and miss it.
		for i := 0; i < 4; i++ {
			q, err := l.CurrentQuestion(doc)
			if err != nil {
				t.Fatalf("question: %v", err)
			}
			if _, err := l.SubmitAnswer(doc, q.Answer); err != nil {
				t.Fatalf("submit: %v", err)
			}
			if _, err := l.Advance(doc); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
		if _, err := l.SubmitAnswer(doc, "wrong"); err != nil {
			t.Fatalf("submit wrong: %v", err)
		}
		if _, err := l.Advance(doc); err != nil {
			t.Fatalf("advance: %v", err)
		}
		q, err := l.CurrentQuestion(doc)
		if err != nil {
			t.Fatalf("question: %v", err)
		}
		if _, err := l.SubmitAnswer(doc, q.Answer); err != nil {
			t.Fatalf("submit: %v", err)
		}
		if _, err := l.Advance(doc); err != nil {
			t.Fatalf("advance: %v", err)
		}
		if _, err := l.Finish(doc); err != nil {
			t.Fatalf("finish: %v", err)
		}
	}

	missWordFive()
	missWordFive()

	partition := doc.Mistakes.Detailed["1-6"]
	if partition == nil {
		t.Fatal("detailed partition missing")
	}
	count := 0
	for _, e := range partition.Entries() {
		if e.Word == 4 {
			count++
		}
	}
	if count != 1 {
		t.Errorf("word 4 appears %d times in detailed partition, want exactly 1", count)
	}
}

func TestSelfHealingRetry(t *testing.T) {
	table := testTable(3)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.Start(doc, Detailed(1, 3)); err != nil {
		t.Fatalf("start: %v", err)
	}

	q, err := l.CurrentQuestion(doc)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if _, err := l.SubmitAnswer(doc, "wrong"); err != nil {
		t.Fatalf("submit wrong: %v", err)
	}
	if doc.Active.Mistakes.Len() != 1 {
		t.Fatal("mistake not recorded")
	}

	// The same question answered correctly before moving on heals the
	// mistake in free-text categories.
	if _, err := l.SubmitAnswer(doc, q.Answer); err != nil {
		t.Fatalf("submit correct: %v", err)
	}
	if doc.Active.Mistakes.Len() != 0 {
		t.Error("corrected mistake still in session mistakes")
	}

	for i := 0; i < 3; i++ {
		if _, err := l.Advance(doc); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}
	if _, err := l.Finish(doc); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if doc.Mistakes.Random.Len() != 0 || len(doc.Mistakes.Detailed) != 0 {
		t.Error("healed mistake was persisted")
	}
}

func TestRetrySeesActiveSessionMistakes(t *testing.T) {
	table := testTable(3)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.Start(doc, Detailed(1, 3)); err != nil {
		t.Fatalf("start: %v", err)
	}
	q, err := l.CurrentQuestion(doc)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if _, err := l.SubmitAnswer(doc, "wrong"); err != nil {
		t.Fatalf("submit wrong: %v", err)
	}

	// Jumping straight to a retry session commits the active session's
	// mistakes first, so the fresh mistake is in the review set.
	if err := l.Start(doc, Retry()); err != nil {
		t.Fatalf("start retry: %v", err)
	}
	if got := len(doc.Active.Entries); got != 1 {
		t.Fatalf("retry entries = %d, want 1", got)
	}
	if doc.Active.Entries[0].Word != q.Word {
		t.Errorf("retry entry word = %d, want %d", doc.Active.Entries[0].Word, q.Word)
	}
	if doc.Mistakes.Detailed["1-3"].Len() != 1 {
		t.Error("mistake was not committed to the detailed partition")
	}
}

func TestConcurrentStartsOnSharedLifecycle(t *testing.T) {
	table := testTable(6)
	l := testLifecycle(table)

	// One lifecycle serves every request goroutine; starting sessions
	// for different users concurrently must be safe.
	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc := NewUserDoc()
			for i := 0; i < 50; i++ {
				if err := l.Start(doc, RoughDirectional()); err != nil {
					t.Errorf("start: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestRoughMistakesNeverRetract(t *testing.T) {
	table := testTable(6)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.Start(doc, RoughDirectional()); err != nil {
		t.Fatalf("start: %v", err)
	}
	q, err := l.CurrentQuestion(doc)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if len(q.Choices) != 4 {
		t.Errorf("choices = %d, want 4", len(q.Choices))
	}
	if _, err := l.SubmitAnswer(doc, "wrong choice"); err != nil {
		t.Fatalf("submit wrong: %v", err)
	}
	if _, err := l.SubmitAnswer(doc, q.Answer); err != nil {
		t.Fatalf("submit correct: %v", err)
	}
	if doc.Active.Mistakes.Len() != 1 {
		t.Error("multiple-choice mistake was retracted mid-session")
	}
}

func TestCompletionBoundary(t *testing.T) {
	table := testTable(3)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.Start(doc, Detailed(1, 2)); err != nil {
		t.Fatalf("start: %v", err)
	}

	// position < len: a question resolves.
	doc.Active.Position = 1
	if _, err := l.CurrentQuestion(doc); err != nil {
		t.Errorf("position 1 of 2: unexpected error %v", err)
	}

	// position == len: exhausted, exactly here.
	doc.Active.Position = 2
	if _, err := l.CurrentQuestion(doc); !errors.Is(err, ErrSessionExhausted) {
		t.Errorf("position 2 of 2: err = %v, want ErrSessionExhausted", err)
	}
}

func TestCurrentQuestionWithoutSession(t *testing.T) {
	l := testLifecycle(testTable(3))
	doc := NewUserDoc()
	if _, err := l.CurrentQuestion(doc); !errors.Is(err, ErrSessionNotStarted) {
		t.Errorf("err = %v, want ErrSessionNotStarted", err)
	}
}

func TestRetryWithNoMistakes(t *testing.T) {
	l := testLifecycle(testTable(3))
	doc := NewUserDoc()

	if err := l.Start(doc, Retry()); !errors.Is(err, ErrNoMistakesAvailable) {
		t.Errorf("retry err = %v, want ErrNoMistakesAvailable", err)
	}
	if err := l.Start(doc, RoughReview()); !errors.Is(err, ErrNoMistakesAvailable) {
		t.Errorf("rough review err = %v, want ErrNoMistakesAvailable", err)
	}
	if doc.Active != nil {
		t.Error("failed start left an active session")
	}
}

func TestStartValidatesRange(t *testing.T) {
	l := testLifecycle(testTable(3))

	tests := []struct {
		name string
		cat  Category
	}{
		{"reversed", Detailed(3, 1)},
		{"zero start", Detailed(0, 2)},
		{"past end", Detailed(1, 4)},
		{"rough past end", RoughRanged(2, 9)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewUserDoc()
			err := l.Start(doc, tt.cat)
			if !errors.Is(err, ErrInvalidCategoryParams) {
				t.Errorf("err = %v, want ErrInvalidCategoryParams", err)
			}
			if doc.Active != nil {
				t.Error("invalid start mutated session state")
			}
		})
	}
}

func TestSuspendResumeFidelity(t *testing.T) {
	table := testTable(6)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.StartRandomSeeded(doc, 99); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Answer two questions, one wrong.
	if _, err := l.SubmitAnswer(doc, "wrong"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := l.Advance(doc); err != nil {
		t.Fatalf("advance: %v", err)
	}
	q, err := l.CurrentQuestion(doc)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if _, err := l.SubmitAnswer(doc, q.Answer); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := l.Advance(doc); err != nil {
		t.Fatalf("advance: %v", err)
	}

	before := *doc.Active
	beforeMistakes := doc.Active.Mistakes.Entries()

	if err := l.Suspend(doc); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if doc.Active != nil {
		t.Fatal("active state survived Suspend")
	}

	if err := l.Resume(doc, false, SlotRandom); err != nil {
		t.Fatalf("resume: %v", err)
	}
	after := doc.Active

	if after.Category != before.Category || after.Position != before.Position || after.Score != before.Score {
		t.Errorf("resumed {cat,pos,score} = {%v,%d,%d}, want {%v,%d,%d}",
			after.Category, after.Position, after.Score, before.Category, before.Position, before.Score)
	}
	if !reflect.DeepEqual(after.Mistakes.Entries(), beforeMistakes) {
		t.Errorf("resumed mistakes %v != %v", after.Mistakes.Entries(), beforeMistakes)
	}
	if after.Seed == nil || *after.Seed != 99 {
		t.Fatal("resumed session lost its seed")
	}
	// Identical question order from the stored seed.
	q, err = l.CurrentQuestion(doc)
	if err != nil {
		t.Fatalf("post-resume question: %v", err)
	}
	if want := shuffledIndices(99, 6)[after.Position]; q.Word != want {
		t.Errorf("post-resume word = %d, want %d", q.Word, want)
	}

	// The slot was consumed.
	if err := l.Resume(doc, false, SlotRandom); !errors.Is(err, ErrNoSavedSession) {
		t.Errorf("second resume err = %v, want ErrNoSavedSession", err)
	}
}

func TestSuspendFlushesMistakes(t *testing.T) {
	table := testTable(3)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.Start(doc, Detailed(1, 3)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := l.SubmitAnswer(doc, "wrong"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := l.Suspend(doc); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	// A paused session's known mistakes are already retrievable.
	if doc.Mistakes.Detailed["1-3"] == nil || doc.Mistakes.Detailed["1-3"].Len() != 1 {
		t.Error("suspend did not flush session mistakes to the store")
	}
}

func TestStartDiscardsSavedSlot(t *testing.T) {
	table := testTable(3)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.StartRandomSeeded(doc, 7); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.Suspend(doc); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if doc.Saved.Get(false, EnglishToJapanese, SlotRandom) == nil {
		t.Fatal("snapshot not saved")
	}

	// A fresh start in the same slot wins over the old save.
	if err := l.Start(doc, Random()); err != nil {
		t.Fatalf("fresh start: %v", err)
	}
	if doc.Saved.Get(false, EnglishToJapanese, SlotRandom) != nil {
		t.Error("fresh start left the stale snapshot in place")
	}
}

func TestRemoveWordEverywhereProperty(t *testing.T) {
	table := testTable(6)
	l := testLifecycle(table)
	doc := NewUserDoc()

	// Seed mistakes in every partition.
	doc.Mistakes.Add(Random(), EnglishToJapanese, []MistakeEntry{{Word: 2, Dir: EnglishToJapanese}, {Word: 3, Dir: EnglishToJapanese}})
	doc.Mistakes.Add(Detailed(1, 6), EnglishToJapanese, []MistakeEntry{{Word: 2, Dir: JapaneseToEnglish}})
	doc.Mistakes.Add(RoughDirectional(), JapaneseToEnglish, []MistakeEntry{{Word: 2, Dir: JapaneseToEnglish}})

	// And a suspended retry session whose sequence includes the word.
	if err := l.Start(doc, Retry()); err != nil {
		t.Fatalf("start retry: %v", err)
	}
	if _, err := l.SubmitAnswer(doc, "wrong"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := l.Suspend(doc); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	l.RemoveWordEverywhere(doc, 2)

	for _, w := range doc.Mistakes.UnifiedWords() {
		if w == 2 {
			t.Error("word 2 still present in a mistake partition")
		}
	}
	for _, fam := range []bool{false, true} {
		for _, dir := range []Direction{EnglishToJapanese, JapaneseToEnglish} {
			for slot, snap := range doc.Saved.Slots(fam, dir) {
				for _, e := range snap.Mistakes.Entries() {
					if e.Word == 2 {
						t.Errorf("slot %s: snapshot mistakes still hold word 2", slot)
					}
				}
				for _, e := range snap.Entries {
					if e.Word == 2 {
						t.Errorf("slot %s: snapshot sequence still holds word 2", slot)
					}
				}
			}
		}
	}
}

func TestResetAll(t *testing.T) {
	table := testTable(3)
	l := testLifecycle(table)
	doc := NewUserDoc()

	doc.Mistakes.Add(Random(), EnglishToJapanese, []MistakeEntry{{Word: 1, Dir: EnglishToJapanese}})
	if err := l.StartRandomSeeded(doc, 5); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := l.Suspend(doc); err != nil {
		t.Fatalf("suspend: %v", err)
	}

	l.ResetAll(doc)

	if doc.Active != nil {
		t.Error("active session survived reset")
	}
	if doc.Saved.Get(false, EnglishToJapanese, SlotRandom) != nil {
		t.Error("saved snapshot survived reset")
	}
	if len(doc.Mistakes.UnifiedWords()) != 0 {
		t.Error("mistakes survived reset")
	}
}

func TestRetryCarriesPerItemDirection(t *testing.T) {
	table := testTable(4)
	l := testLifecycle(table)
	doc := NewUserDoc()

	doc.Mistakes.Add(Random(), EnglishToJapanese, []MistakeEntry{{Word: 0, Dir: JapaneseToEnglish}})
	if err := l.Start(doc, Retry()); err != nil {
		t.Fatalf("start retry: %v", err)
	}

	q, err := l.CurrentQuestion(doc)
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if q.Dir != JapaneseToEnglish {
		t.Errorf("question direction = %v, want the entry's own direction", q.Dir)
	}
	if q.Hints == nil || q.Hints.FirstLetter != "a" {
		t.Errorf("je question missing hints: %+v", q.Hints)
	}
	// Japanese-to-English requires the exact word, case-insensitively.
	fb, err := l.SubmitAnswer(doc, " APPLE ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !fb.WasCorrect {
		t.Error("case-insensitive exact match rejected")
	}
}

func TestExitRoughModeClearsTempOnly(t *testing.T) {
	table := testTable(6)
	l := testLifecycle(table)
	doc := NewUserDoc()

	if err := l.Start(doc, RoughDirectional()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := l.SubmitAnswer(doc, "wrong"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := l.Finish(doc); err != nil {
		t.Fatalf("finish: %v", err)
	}
	if len(doc.Mistakes.RoughReviewEntries()) == 0 {
		t.Fatal("rough mistake not committed")
	}

	l.ExitRoughMode(doc)

	if len(doc.Mistakes.RoughTemp) != 0 {
		t.Error("temp partitions survived rough exit")
	}
	if doc.Mistakes.GlobalRough.Len() == 0 {
		t.Error("global rough partition must survive rough exit")
	}
}
