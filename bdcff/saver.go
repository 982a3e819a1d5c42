// This file contains the BDCFF saver.

package bdcff

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gdash/gdash/cave"
	"github.com/gdash/gdash/cave/cavecore"
)

// saveChars holds the map character assigned to each element for one save:
// the standard characters plus substitutes assigned for elements that
// appear in a map but have none.
type saveChars struct {
	chars    [cavecore.ElemMax]byte
	used     map[byte]bool
	assigned []cavecore.Element
}

// mapcodeExcluded are the characters never used as substitute map codes.
const mapcodeExcluded = `<>&[]/=\`

func newSaveChars() *saveChars {
	sc := &saveChars{used: map[byte]bool{}}
	for _, d := range cavecore.ElementDescs {
		sc.chars[d.Element] = d.Char
		if d.Char != 0 {
			sc.used[d.Char] = true
		}
	}
	return sc
}

// require ensures the element has a character, assigning a substitute from
// the printable pool when needed.
func (sc *saveChars) require(e cavecore.Element) {
	if sc.chars[e] != 0 {
		return
	}
	for ch := byte(32); ch < 128; ch++ {
		if !sc.used[ch] && !strings.ContainsRune(mapcodeExcluded, rune(ch)) {
			sc.chars[e] = ch
			sc.used[ch] = true
			sc.assigned = append(sc.assigned, e)
			return
		}
	}
	panic("bdcff: ran out of map code characters")
}

// SaveCaveSet serializes a caveset to BDCFF text.
func SaveCaveSet(set *cave.CaveSet) []byte {
	var out []string

	// elements present in any map but without a standard character get a
	// substitute assigned, written as a [mapcodes] section
	sc := newSaveChars()
	for _, c := range set.Caves {
		if !c.HasMap() {
			continue
		}
		for y := 0; y < c.Map.Height(); y++ {
			for x := 0; x < c.Map.Width(); x++ {
				sc.require(c.Map.Get(x, y))
			}
		}
	}

	out = append(out, "[BDCFF]")
	out = append(out, "Version="+Version)

	if len(sc.assigned) > 0 {
		out = append(out, "[mapcodes]")
		out = append(out, "Length=1")
		for _, e := range sc.assigned {
			out = append(out, string(sc.chars[e])+"="+e.String())
		}
		out = append(out, "[/mapcodes]")
	}

	out = append(out, "[game]")
	out = saveHighscore(out, &set.Highscore)
	out = SaveProperties(out, set, cave.NewCaveSet(), CaveSetProps, 0)
	out = append(out, "Levels=5")

	for _, c := range set.Caves {
		out = saveCave(out, c, sc)
	}

	out = append(out, "[/game]")
	out = append(out, "[/BDCFF]")

	return []byte(strings.Join(out, "\n") + "\n")
}

// saveHighscore writes a [highscore] section if the table has entries.
func saveHighscore(out []string, t *cave.HighscoreTable) []string {
	if !t.HasEntries() {
		return out
	}
	out = append(out, "[highscore]")
	for _, e := range t.Entries() {
		out = append(out, strconv.Itoa(e.Score)+" "+e.Name)
	}
	return append(out, "[/highscore]")
}

// saveCave writes one [cave] section.
func saveCave(out []string, c *cave.CaveStored, sc *saveChars) []string {
	out = append(out, "", "[cave]")
	out = saveHighscore(out, &c.Highscore)

	// properties go through a local slice first: BDCFF is inconsistent
	// about slime, so one of the two permeability lines must be dropped
	props := SaveProperties(nil, c, cave.NewCaveStored(), CaveProps, c.W*c.H)
	if c.SlimePredictable {
		// a permeability line would imply unpredictable slime
		props = removeLines(props, "SlimePermeability=")
	} else {
		props = removeLines(props, "SlimePermeabilityC64=")
	}
	out = append(out, props...)

	// unknown tags are saved as they were read
	keys := make([]string, 0, len(c.Tags))
	for k := range c.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, k+"="+c.Tags[k])
	}

	if c.HasMap() {
		out = append(out, "", "[map]")
		row := make([]byte, c.W)
		for y := 0; y < c.H; y++ {
			for x := 0; x < c.W; x++ {
				row[x] = sc.chars[c.Map.Get(x, y)]
			}
			out = append(out, string(row))
		}
		out = append(out, "[/map]")
	}

	if len(c.Objects) > 0 {
		out = append(out, "", "[objects]")
		for _, o := range c.Objects {
			wrapped := o.Levels != cave.LevelAll
			if wrapped {
				var nums []string
				for i := 1; i <= cave.Levels; i++ {
					if o.Levels&cave.LevelMask(i) != 0 {
						nums = append(nums, strconv.Itoa(i))
					}
				}
				out = append(out, "[Level="+strings.Join(nums, ",")+"]")
			}
			out = append(out, o.ToBDCFF())
			if wrapped {
				out = append(out, "[/Level]")
			}
		}
		out = append(out, "[/objects]")
	}

	for _, r := range c.Replays {
		out = saveReplay(out, r)
	}

	return append(out, "[/cave]")
}

// saveReplay writes one [replay] section, if the replay is flagged saved.
func saveReplay(out []string, r *cave.Replay) []string {
	if !r.Saved {
		return out
	}
	out = append(out, "", "[replay]")
	out = SaveProperties(out, r, cave.NewReplay(), ReplayProps, 0)
	out = append(out, "Movements="+r.MovementsToBDCFF())
	return append(out, "[/replay]")
}

// removeLines drops the lines starting with prefix. The prefix ends with
// '=' so properties whose names prefix each other do not match.
func removeLines(lines []string, prefix string) []string {
	kept := lines[:0]
	for _, l := range lines {
		if !strings.HasPrefix(l, prefix) {
			kept = append(kept, l)
		}
	}
	return kept
}
