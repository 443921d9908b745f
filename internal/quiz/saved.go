package quiz

// SavedStates is the registry of suspended session snapshots. The free-text
// and rough families are kept apart so a user can hold one suspended session
// per (family, direction, slot) at the same time. Slots are "random",
// "review", or a detailed range key.
type SavedStates struct {
	Quiz  map[Direction]map[string]*Snapshot `json:"quiz"`
	Rough map[Direction]map[string]*Snapshot `json:"rough"`
}

// NewSavedStates returns an empty registry.
func NewSavedStates() *SavedStates {
	return &SavedStates{
		Quiz:  make(map[Direction]map[string]*Snapshot),
		Rough: make(map[Direction]map[string]*Snapshot),
	}
}

func (r *SavedStates) normalize() {
	if r.Quiz == nil {
		r.Quiz = make(map[Direction]map[string]*Snapshot)
	}
	if r.Rough == nil {
		r.Rough = make(map[Direction]map[string]*Snapshot)
	}
}

func (r *SavedStates) family(cat Category) map[Direction]map[string]*Snapshot {
	r.normalize()
	if cat.Rough() {
		return r.Rough
	}
	return r.Quiz
}

// Put stores snap at (direction, slot) for its category family, overwriting
// any previous snapshot in that slot.
func (r *SavedStates) Put(dir Direction, snap *Snapshot) {
	fam := r.family(snap.Category)
	slots, ok := fam[dir]
	if !ok {
		slots = make(map[string]*Snapshot)
		fam[dir] = slots
	}
	slots[snap.Category.Slot()] = snap
}

// Get returns the snapshot at (direction, slot) without removing it, or nil.
func (r *SavedStates) Get(rough bool, dir Direction, slot string) *Snapshot {
	r.normalize()
	fam := r.Quiz
	if rough {
		fam = r.Rough
	}
	return fam[dir][slot]
}

// Take removes and returns the snapshot at (direction, slot), or nil if the
// slot is empty.
func (r *SavedStates) Take(rough bool, dir Direction, slot string) *Snapshot {
	snap := r.Get(rough, dir, slot)
	if snap != nil {
		r.Drop(rough, dir, slot)
	}
	return snap
}

// Drop discards the snapshot at (direction, slot) if present.
func (r *SavedStates) Drop(rough bool, dir Direction, slot string) {
	r.normalize()
	fam := r.Quiz
	if rough {
		fam = r.Rough
	}
	if slots, ok := fam[dir]; ok {
		delete(slots, slot)
		if len(slots) == 0 {
			delete(fam, dir)
		}
	}
}

// Slots returns the occupied slots for one family and direction. Detailed
// range slots appear under their range keys.
func (r *SavedStates) Slots(rough bool, dir Direction) map[string]*Snapshot {
	r.normalize()
	fam := r.Quiz
	if rough {
		fam = r.Rough
	}
	out := make(map[string]*Snapshot, len(fam[dir]))
	for slot, snap := range fam[dir] {
		out[slot] = snap
	}
	return out
}

// ScrubWord removes every trace of word from all snapshots in both families.
func (r *SavedStates) ScrubWord(word int) {
	r.normalize()
	for _, fam := range []map[Direction]map[string]*Snapshot{r.Quiz, r.Rough} {
		for _, slots := range fam {
			for slot, snap := range slots {
				snap.scrubWord(word)
				if snap.Category.PerItemDirection() && len(snap.Entries) == 0 {
					// A review snapshot with no questions left cannot resume.
					delete(slots, slot)
				}
			}
		}
	}
}

// Clear drops every snapshot in both families.
func (r *SavedStates) Clear() {
	r.Quiz = make(map[Direction]map[string]*Snapshot)
	r.Rough = make(map[Direction]map[string]*Snapshot)
}
