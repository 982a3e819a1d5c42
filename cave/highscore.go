// This file contains the highscore table of a cave or caveset.

package cave

import "sort"

// HighscoreSize is the maximum number of entries a highscore table holds.
const HighscoreSize = 20

// Highscore is one entry of a highscore table.
type Highscore struct {
	// Name of the player
	Name string

	// Score achieved
	Score int
}

// HighscoreTable is an ordered highscore table: highest score first,
// at most HighscoreSize entries.
type HighscoreTable struct {
	entries []Highscore
}

// Add inserts a new score, keeping the table sorted descending and clamped
// to HighscoreSize entries. It reports whether the entry made the table.
func (t *HighscoreTable) Add(name string, score int) bool {
	if score <= 0 {
		return false
	}
	t.entries = append(t.entries, Highscore{Name: name, Score: score})
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Score > t.entries[j].Score
	})
	if len(t.entries) > HighscoreSize {
		t.entries = t.entries[:HighscoreSize]
		// did the new entry survive the clamp?
		for _, e := range t.entries {
			if e.Name == name && e.Score == score {
				return true
			}
		}
		return false
	}
	return true
}

// Entries returns the entries, highest score first.
func (t *HighscoreTable) Entries() []Highscore {
	return t.entries
}

// HasEntries reports whether the table holds any entry.
func (t *HighscoreTable) HasEntries() bool {
	return len(t.entries) > 0
}

// Clear removes all entries.
func (t *HighscoreTable) Clear() {
	t.entries = nil
}

// Clone returns a deep copy of the table.
func (t *HighscoreTable) Clone() HighscoreTable {
	c := HighscoreTable{}
	if t.entries != nil {
		c.entries = make([]Highscore, len(t.entries))
		copy(c.entries, t.entries)
	}
	return c
}
