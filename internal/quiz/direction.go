package quiz

// Direction selects which language is the prompt and which is the expected
// answer. The short codes match the values stored in user state documents.
type Direction string

const (
	// EnglishToJapanese prompts with the English word; answers are scored by
	// the similarity matcher since free-text Japanese tolerates paraphrase.
	EnglishToJapanese Direction = "ej"

	// JapaneseToEnglish prompts with the Japanese word; answers must match
	// the English word exactly, ignoring case.
	JapaneseToEnglish Direction = "je"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool {
	return d == EnglishToJapanese || d == JapaneseToEnglish
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	if d == EnglishToJapanese {
		return JapaneseToEnglish
	}
	return EnglishToJapanese
}
