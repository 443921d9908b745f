package quiz

import "strings"

// WordEntry is one vocabulary entry as seen by the quiz core.
type WordEntry struct {
	English  string
	Japanese string
}

// WordSource is the read-only word table the core consumes. Implementations
// return ok=false for out-of-range indices.
type WordSource interface {
	Word(index int) (WordEntry, bool)
	Count() int
}

// AnswerMatcher decides whether a free-text Japanese answer is close enough
// to the expected one. English-to-Japanese answers tolerate paraphrase, so
// this is an external oracle rather than string equality.
type AnswerMatcher interface {
	Match(userAnswer, correctAnswer string) bool
}

// ContainmentMatcher is the fallback oracle: a non-empty normalised answer
// counts as correct when the expected answer contains it.
type ContainmentMatcher struct{}

// Match implements AnswerMatcher.
func (ContainmentMatcher) Match(userAnswer, correctAnswer string) bool {
	user := strings.ToLower(strings.TrimSpace(userAnswer))
	correct := strings.ToLower(strings.TrimSpace(correctAnswer))
	return user != "" && strings.Contains(correct, user)
}

// answerCorrect applies the direction-dependent scoring rule: exact
// case-insensitive match for Japanese-to-English, the matcher for
// English-to-Japanese.
func answerCorrect(m AnswerMatcher, dir Direction, userAnswer, correctAnswer string) bool {
	if dir == JapaneseToEnglish {
		return strings.EqualFold(strings.TrimSpace(userAnswer), strings.TrimSpace(correctAnswer))
	}
	return m.Match(userAnswer, correctAnswer)
}
