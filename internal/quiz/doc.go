package quiz

// DocVersion is the schema version written into user documents.
const DocVersion = 1

// UserDoc is the whole durable quiz state for one user, persisted as a single
// versioned document: the preferred direction, the active session if any, the
// mistake partitions, and the suspended-session registry. Each request loads
// the document, applies one transition, and writes it back, so one write
// covers every partition at once.
type UserDoc struct {
	Version  int           `json:"version"`
	Dir      Direction     `json:"direction"`
	Active   *SessionState `json:"active,omitempty"`
	Mistakes *MistakeStore `json:"mistakes"`
	Saved    *SavedStates  `json:"saved"`
}

// NewUserDoc returns an empty document with the default direction.
func NewUserDoc() *UserDoc {
	return &UserDoc{
		Version:  DocVersion,
		Dir:      EnglishToJapanese,
		Mistakes: NewMistakeStore(),
		Saved:    NewSavedStates(),
	}
}

// Normalize repairs any part of the document lost in deserialisation.
func (d *UserDoc) Normalize() {
	if d.Version == 0 {
		d.Version = DocVersion
	}
	if !d.Dir.Valid() {
		d.Dir = EnglishToJapanese
	}
	if d.Mistakes == nil {
		d.Mistakes = NewMistakeStore()
	}
	d.Mistakes.normalize()
	if d.Saved == nil {
		d.Saved = NewSavedStates()
	}
	d.Saved.normalize()
	if d.Active != nil {
		d.Active.normalize()
	}
}
