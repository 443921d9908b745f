package quiz

import (
	"fmt"
	"strconv"
	"strings"
)

// CategoryKind identifies the quiz mode.
type CategoryKind string

const (
	// KindRandom shuffles the full word table under a stored seed.
	KindRandom CategoryKind = "random"
	// KindDetailed walks a fixed table range in order.
	KindDetailed CategoryKind = "detailed"
	// KindRetry replays accumulated free-text mistakes.
	KindRetry CategoryKind = "retry"
	// KindRoughDirectional is multiple-choice over a small random sample.
	KindRoughDirectional CategoryKind = "rough"
	// KindRoughReview replays accumulated rough-mode mistakes.
	KindRoughReview CategoryKind = "rough_review"
	// KindRoughRanged is multiple-choice over a sample from a sub-range.
	KindRoughRanged CategoryKind = "rough_ranged"
)

// Saved-state slot names for the non-ranged categories.
const (
	SlotRandom = "random"
	SlotReview = "review"
)

// Category is the quiz mode together with its parameters. RangeStart and
// RangeEnd are 1-based inclusive table positions and are only meaningful for
// the detailed and rough-ranged kinds.
type Category struct {
	Kind       CategoryKind `json:"kind"`
	RangeStart int          `json:"start,omitempty"`
	RangeEnd   int          `json:"end,omitempty"`
}

// Random returns the random-quiz category.
func Random() Category { return Category{Kind: KindRandom} }

// Detailed returns the ranged study category for [start, end].
func Detailed(start, end int) Category {
	return Category{Kind: KindDetailed, RangeStart: start, RangeEnd: end}
}

// Retry returns the free-text review category.
func Retry() Category { return Category{Kind: KindRetry} }

// RoughDirectional returns the small-sample multiple-choice category.
func RoughDirectional() Category { return Category{Kind: KindRoughDirectional} }

// RoughReview returns the rough-mistake review category.
func RoughReview() Category { return Category{Kind: KindRoughReview} }

// RoughRanged returns the ranged multiple-choice category for [start, end].
func RoughRanged(start, end int) Category {
	return Category{Kind: KindRoughRanged, RangeStart: start, RangeEnd: end}
}

// Validate checks the category parameters against a word table of tableLen
// entries. Range bounds must satisfy 1 <= start <= end <= tableLen.
func (c Category) Validate(tableLen int) error {
	switch c.Kind {
	case KindRandom, KindRetry, KindRoughDirectional, KindRoughReview:
		return nil
	case KindDetailed, KindRoughRanged:
		if c.RangeStart < 1 || c.RangeEnd < c.RangeStart || c.RangeEnd > tableLen {
			return fmt.Errorf("%w: range %d-%d with %d words", ErrInvalidCategoryParams, c.RangeStart, c.RangeEnd, tableLen)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidCategoryParams, c.Kind)
	}
}

// RangeKey returns the "start-end" key used for detailed mistake partitions
// and ranged saved-state slots.
func (c Category) RangeKey() string {
	return fmt.Sprintf("%d-%d", c.RangeStart, c.RangeEnd)
}

// Slot returns the saved-state slot name for this category within a
// direction's registry.
func (c Category) Slot() string {
	switch c.Kind {
	case KindRandom, KindRoughDirectional:
		return SlotRandom
	case KindRetry, KindRoughReview:
		return SlotReview
	default:
		return c.RangeKey()
	}
}

// Rough reports whether the category belongs to the multiple-choice family.
// Rough sessions never retract a recorded mistake mid-session and commit into
// the rough partitions.
func (c Category) Rough() bool {
	switch c.Kind {
	case KindRoughDirectional, KindRoughReview, KindRoughRanged:
		return true
	}
	return false
}

// FreeText reports whether answers are typed rather than chosen, which
// enables the self-healing retry rule.
func (c Category) FreeText() bool { return !c.Rough() }

// PerItemDirection reports whether the question sequence carries its own
// direction per item instead of using the session direction.
func (c Category) PerItemDirection() bool {
	return c.Kind == KindRetry || c.Kind == KindRoughReview
}

// ParseRangeKey parses a "start-end" key back into its bounds.
func ParseRangeKey(key string) (start, end int, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: bad range key %q", ErrInvalidCategoryParams, key)
	}
	start, err = strconv.Atoi(parts[0])
	if err == nil {
		end, err = strconv.Atoi(parts[1])
	}
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad range key %q", ErrInvalidCategoryParams, key)
	}
	return start, end, nil
}
