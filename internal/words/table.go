package words

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"vocabdrill/internal/quiz"
)

// Table is the read-only, ordered vocabulary table. Word indices are stable
// for the lifetime of the table and never renumbered.
type Table struct {
	entries []quiz.WordEntry
}

// Load reads the word list from an .xlsx workbook. The first sheet is used;
// the first row is treated as a header and skipped; column A is English,
// column B Japanese. Rows with an empty English cell are ignored.
func Load(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	entries := make([]quiz.WordEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 2 {
			continue
		}
		english := strings.TrimSpace(row[0])
		japanese := strings.TrimSpace(row[1])
		if english == "" {
			continue
		}
		entries = append(entries, quiz.WordEntry{English: english, Japanese: japanese})
	}

	return &Table{entries: entries}, nil
}

// NewTable builds a table from in-memory entries.
func NewTable(entries []quiz.WordEntry) *Table {
	return &Table{entries: entries}
}

// Word returns the entry at index, or ok=false when out of range.
func (t *Table) Word(index int) (quiz.WordEntry, bool) {
	if index < 0 || index >= len(t.entries) {
		return quiz.WordEntry{}, false
	}
	return t.entries[index], true
}

// Count returns the number of entries.
func (t *Table) Count() int { return len(t.entries) }

// Range is a 1-based inclusive window over the table, used by the ranged
// study screens.
type Range struct {
	Start int
	End   int
}

// Ranges splits the table into windows of size words (the last one may be
// shorter).
func (t *Table) Ranges(size int) []Range {
	var ranges []Range
	for start := 1; start <= len(t.entries); start += size {
		end := start + size - 1
		if end > len(t.entries) {
			end = len(t.entries)
		}
		ranges = append(ranges, Range{Start: start, End: end})
	}
	return ranges
}

// SearchResult is one matched word with its table index.
type SearchResult struct {
	Index    int
	English  string
	Japanese string
}

// Search returns entries whose English or Japanese text contains query,
// case-insensitively. An empty query matches nothing.
func (t *Table) Search(query string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var results []SearchResult
	for i, e := range t.entries {
		if strings.Contains(strings.ToLower(e.English), query) ||
			strings.Contains(strings.ToLower(e.Japanese), query) {
			results = append(results, SearchResult{Index: i, English: e.English, Japanese: e.Japanese})
		}
	}
	return results
}

// Suggest returns up to limit distinct words, from either language, starting
// with prefix (case-insensitively). Used by the typeahead endpoint.
func (t *Table) Suggest(prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return nil
	}
	var suggestions []string
	seen := make(map[string]struct{})
	add := func(word string) bool {
		if !strings.HasPrefix(strings.ToLower(word), prefix) {
			return false
		}
		if _, dup := seen[word]; dup {
			return false
		}
		seen[word] = struct{}{}
		suggestions = append(suggestions, word)
		return len(suggestions) >= limit
	}
	for _, e := range t.entries {
		if add(e.English) || add(e.Japanese) {
			break
		}
	}
	return suggestions
}
