package quiz

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"
)

// Sample sizes for the rough (multiple-choice) categories.
const (
	roughSampleSize       = 10
	roughRangedSampleSize = 50
	choiceCount           = 4
)

// Question is a fully resolved question ready for rendering.
type Question struct {
	Word     int
	Dir      Direction
	English  string
	Japanese string
	Prompt   string
	Answer   string
	Number   int // 1-based position in the sequence
	Total    int

	// Hints is set for Japanese-to-English questions only.
	Hints *Hints

	// Choices is set for rough (multiple-choice) sessions: the correct
	// answer plus distractors, shuffled.
	Choices []string
}

// Hints helps with typing an exact English answer.
type Hints struct {
	FirstLetter string
	Placeholder string
	WordLength  int
}

// Result is the outcome of a finished session.
type Result struct {
	Score  int
	Total  int
	Missed []MistakeEntry
}

// Lifecycle drives quiz session state transitions over a user document. It
// performs no I/O: callers load the document, invoke one transition, and
// persist the document afterwards.
type Lifecycle struct {
	words   WordSource
	matcher AnswerMatcher

	// One Lifecycle serves every request goroutine and rand.Rand is not
	// safe for concurrent use, so draws go through the mutex.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewLifecycle builds a lifecycle over the given word table and answer
// oracle. A nil rng gets a time-seeded one; tests inject a fixed source.
func NewLifecycle(words WordSource, matcher AnswerMatcher, rng *rand.Rand) *Lifecycle {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Lifecycle{words: words, matcher: matcher, rng: rng}
}

func (l *Lifecycle) randInt63() int64 {
	l.rngMu.Lock()
	defer l.rngMu.Unlock()
	return l.rng.Int63()
}

func (l *Lifecycle) randPerm(n int) []int {
	l.rngMu.Lock()
	defer l.rngMu.Unlock()
	return l.rng.Perm(n)
}

func (l *Lifecycle) randShuffle(n int, swap func(i, j int)) {
	l.rngMu.Lock()
	defer l.rngMu.Unlock()
	l.rng.Shuffle(n, swap)
}

// SetDirection changes the user's preferred quiz direction.
func (l *Lifecycle) SetDirection(doc *UserDoc, dir Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: direction %q", ErrInvalidCategoryParams, dir)
	}
	doc.Normalize()
	doc.Dir = dir
	return nil
}

// Start begins a fresh session for cat, replacing any active session. The
// active session's accumulated mistakes are committed first, and a suspended
// snapshot in the new session's slot is discarded; starting fresh wins over
// an old save.
func (l *Lifecycle) Start(doc *UserDoc, cat Category) error {
	return l.start(doc, cat, nil)
}

// StartRandomSeeded begins a random session with a caller-supplied seed.
func (l *Lifecycle) StartRandomSeeded(doc *UserDoc, seed int64) error {
	return l.start(doc, Random(), &seed)
}

func (l *Lifecycle) start(doc *UserDoc, cat Category, seed *int64) error {
	doc.Normalize()
	if err := cat.Validate(l.words.Count()); err != nil {
		return err
	}

	// Commit before building the sequence: a retry session must see the
	// mistakes the still-active session accumulated.
	l.commitActive(doc)

	state := &SessionState{
		Category: cat,
		Dir:      doc.Dir,
		Mistakes: NewMistakeSet(),
	}

	switch cat.Kind {
	case KindRandom:
		if seed == nil {
			drawn := l.randInt63()
			seed = &drawn
		}
		state.Seed = seed

	case KindDetailed:
		rows := make([]int, 0, cat.RangeEnd-cat.RangeStart+1)
		for i := cat.RangeStart - 1; i < cat.RangeEnd; i++ {
			rows = append(rows, i)
		}
		state.Rows = rows

	case KindRetry:
		entries := doc.Mistakes.ReviewEntries()
		if len(entries) == 0 {
			return ErrNoMistakesAvailable
		}
		l.randShuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
		state.Entries = entries

	case KindRoughDirectional:
		state.Rows = l.sample(0, l.words.Count(), roughSampleSize)

	case KindRoughReview:
		entries := doc.Mistakes.RoughReviewEntries()
		if len(entries) == 0 {
			return ErrNoMistakesAvailable
		}
		l.randShuffle(len(entries), func(i, j int) {
			entries[i], entries[j] = entries[j], entries[i]
		})
		state.Entries = entries

	case KindRoughRanged:
		state.Rows = l.sample(cat.RangeStart-1, cat.RangeEnd, roughRangedSampleSize)
	}

	doc.Saved.Drop(cat.Rough(), doc.Dir, cat.Slot())
	doc.Active = state
	return nil
}

// sample draws up to n distinct indices from [lo, hi) in random order.
func (l *Lifecycle) sample(lo, hi, n int) []int {
	span := hi - lo
	perm := l.randPerm(span)
	if n > span {
		n = span
	}
	rows := make([]int, n)
	for i := 0; i < n; i++ {
		rows[i] = lo + perm[i]
	}
	return rows
}

// Resume reactivates the suspended session at (current direction, slot) for
// the given family, removing the snapshot from the registry. Random sessions
// rebuild their order from the stored seed.
func (l *Lifecycle) Resume(doc *UserDoc, rough bool, slot string) error {
	doc.Normalize()
	snap := doc.Saved.Take(rough, doc.Dir, slot)
	if snap == nil {
		return ErrNoSavedSession
	}
	doc.Active = snap.restore(doc.Dir)
	return nil
}

// CurrentQuestion resolves the active session's current question.
func (l *Lifecycle) CurrentQuestion(doc *UserDoc) (*Question, error) {
	doc.Normalize()
	state := doc.Active
	if state == nil {
		return nil, ErrSessionNotStarted
	}
	total := state.Len(l.words.Count())
	if total == 0 {
		return nil, ErrSessionNotStarted
	}
	if state.Position >= total {
		return nil, ErrSessionExhausted
	}

	word, dir := state.Item(state.Position, l.words.Count())
	entry, ok := l.words.Word(word)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrWordNotFound, word)
	}

	q := &Question{
		Word:     word,
		Dir:      dir,
		English:  entry.English,
		Japanese: entry.Japanese,
		Number:   state.Position + 1,
		Total:    total,
	}
	if dir == EnglishToJapanese {
		q.Prompt, q.Answer = entry.English, entry.Japanese
	} else {
		q.Prompt, q.Answer = entry.Japanese, entry.English
		q.Hints = buildHints(q.Answer)
	}
	if state.Category.Rough() {
		q.Choices = l.buildChoices(word, dir, q.Answer)
	}
	return q, nil
}

func buildHints(answer string) *Hints {
	runes := []rune(answer)
	if len(runes) == 0 {
		return &Hints{}
	}
	blanks := make([]string, len(runes))
	for i := range blanks {
		blanks[i] = "_"
	}
	return &Hints{
		FirstLetter: string(runes[0]),
		Placeholder: strings.Join(blanks, " "),
		WordLength:  len(runes),
	}
}

// buildChoices assembles the multiple-choice options: the correct answer and
// up to three distractors drawn from other words' answer-side text, shuffled.
func (l *Lifecycle) buildChoices(word int, dir Direction, answer string) []string {
	choices := []string{answer}
	seen := map[string]struct{}{answer: {}}
	for _, i := range l.randPerm(l.words.Count()) {
		if len(choices) >= choiceCount {
			break
		}
		if i == word {
			continue
		}
		entry, ok := l.words.Word(i)
		if !ok {
			continue
		}
		distractor := entry.Japanese
		if dir == JapaneseToEnglish {
			distractor = entry.English
		}
		if _, dup := seen[distractor]; dup || strings.TrimSpace(distractor) == "" {
			continue
		}
		seen[distractor] = struct{}{}
		choices = append(choices, distractor)
	}
	l.randShuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})
	return choices
}

// SubmitAnswer scores answer against the current question and updates the
// session: score increments on a correct answer; a wrong answer records the
// (word, direction) in the session mistakes once. In free-text categories a
// later correct answer for the same pair removes it again. Multiple-choice
// mistakes are never retracted mid-session. The feedback is kept until
// Advance. Callers must ensure POST-once semantics; a duplicate submission
// scores twice.
func (l *Lifecycle) SubmitAnswer(doc *UserDoc, answer string) (*Feedback, error) {
	q, err := l.CurrentQuestion(doc)
	if err != nil {
		return nil, err
	}
	state := doc.Active

	correct := answerCorrect(l.matcher, q.Dir, answer, q.Answer)
	entry := MistakeEntry{Word: q.Word, Dir: q.Dir}

	if correct {
		state.Score++
		if state.Category.FreeText() {
			state.Mistakes.Remove(entry)
		}
	} else {
		state.Mistakes.Add(entry)
	}

	state.Feedback = &Feedback{
		UserAnswer:      strings.TrimSpace(answer),
		CorrectEnglish:  q.English,
		CorrectJapanese: q.Japanese,
		WasCorrect:      correct,
	}
	return state.Feedback, nil
}

// Advance moves to the next question and clears the pending feedback. It
// reports whether the session is now exhausted, in which case the caller
// must transition to Finish.
func (l *Lifecycle) Advance(doc *UserDoc) (exhausted bool, err error) {
	doc.Normalize()
	state := doc.Active
	if state == nil {
		return false, ErrSessionNotStarted
	}
	state.Position++
	state.Feedback = nil
	return state.Exhausted(l.words.Count()), nil
}

// Finish commits the session's mistakes into the durable partitions, clears
// the active state, and returns the final result. Mistakes are flushed
// before the score is reported so they persist even if the user never
// revisits them.
func (l *Lifecycle) Finish(doc *UserDoc) (*Result, error) {
	doc.Normalize()
	state := doc.Active
	if state == nil {
		return nil, ErrSessionNotStarted
	}
	result := &Result{
		Score:  state.Score,
		Total:  state.Len(l.words.Count()),
		Missed: state.Mistakes.Entries(),
	}
	l.commitActive(doc)
	doc.Active = nil
	return result, nil
}

// Suspend commits the session's mistakes, snapshots the remaining state into
// the saved registry at (direction, slot), overwriting any prior snapshot,
// and clears the active state. A paused session's known mistakes are already
// retrievable, same as after Finish.
func (l *Lifecycle) Suspend(doc *UserDoc) error {
	doc.Normalize()
	state := doc.Active
	if state == nil {
		return ErrSessionNotStarted
	}
	l.commitActive(doc)
	doc.Saved.Put(state.Dir, state.snapshot())
	doc.Active = nil
	return nil
}

// Abandon discards the active session without committing anything.
func (l *Lifecycle) Abandon(doc *UserDoc) {
	doc.Normalize()
	doc.Active = nil
}

// ExitRoughMode leaves multiple-choice play: an active rough session is
// dropped and the transient rough partitions are cleared. The durable global
// rough partition survives.
func (l *Lifecycle) ExitRoughMode(doc *UserDoc) {
	doc.Normalize()
	if doc.Active != nil && doc.Active.Category.Rough() {
		doc.Active = nil
	}
	doc.Mistakes.ClearRoughTemp()
}

// ResetAll wipes the user's quiz state: active session, every saved
// snapshot, and every mistake partition.
func (l *Lifecycle) ResetAll(doc *UserDoc) {
	doc.Normalize()
	doc.Active = nil
	doc.Saved.Clear()
	doc.Mistakes = NewMistakeStore()
}

// RemoveWordEverywhere deletes every mistake entry for word from all durable
// partitions, from every suspended snapshot in both families, and from the
// active session's mistake set. The caller persists the document once, so
// the update is atomic. Removing an absent word is a no-op.
func (l *Lifecycle) RemoveWordEverywhere(doc *UserDoc, word int) {
	doc.Normalize()
	doc.Mistakes.RemoveWord(word)
	doc.Saved.ScrubWord(word)
	if doc.Active != nil {
		doc.Active.Mistakes.RemoveWord(word)
	}
}

// BulkRemove applies RemoveWordEverywhere for each word.
func (l *Lifecycle) BulkRemove(doc *UserDoc, words []int) {
	for _, w := range words {
		l.RemoveWordEverywhere(doc, w)
	}
}

// SessionProgress summarises the active session mid-quiz.
type SessionProgress struct {
	Score       int
	Answered    int
	Total       int
	MissedWords []int
}

// Progress reports the active session's score, answered count, and the
// distinct words missed so far, sorted ascending.
func (l *Lifecycle) Progress(doc *UserDoc) (*SessionProgress, error) {
	doc.Normalize()
	state := doc.Active
	if state == nil {
		return nil, ErrSessionNotStarted
	}
	words := state.Mistakes.Words()
	sort.Ints(words)
	return &SessionProgress{
		Score:       state.Score,
		Answered:    state.Position,
		Total:       state.Len(l.words.Count()),
		MissedWords: words,
	}, nil
}

// commitActive flushes the active session's accumulated mistakes into the
// partition selected by its category. Safe to call when no session is
// active; committing twice is harmless because partitions deduplicate.
func (l *Lifecycle) commitActive(doc *UserDoc) {
	state := doc.Active
	if state == nil || state.Mistakes.Len() == 0 {
		return
	}
	doc.Mistakes.Add(state.Category, state.Dir, state.Mistakes.Entries())
}
