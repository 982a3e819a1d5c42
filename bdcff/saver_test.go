package bdcff

import (
	"strings"
	"testing"

	"github.com/gdash/gdash/cave"
	"github.com/gdash/gdash/cave/cavecore"
)

// buildCaveSet returns a caveset exercising maps, objects, replays and
// highscores.
func buildCaveSet() *cave.CaveSet {
	set := cave.NewCaveSet()
	set.Name = "Round Trip"
	set.Author = "tester"
	set.BonusLifeScore = 750
	set.Highscore.Add("alice", 4000)

	c := cave.NewCaveStored()
	c.Name = "First"
	c.Author = "tester"
	c.W, c.H = 5, 4
	c.X1, c.Y1, c.X2, c.Y2 = 0, 0, 4, 3
	c.Story = "a story\nwith two lines"
	for i := 0; i < cave.Levels; i++ {
		c.CaveTime[i] = 100 - 10*i
		c.DiamondsRequired[i] = 4 + i
	}
	c.DiamondValue = 5
	c.ExtraDiamondValue = 20
	c.MagicWallTime = 30
	c.SlimePredictable = false
	c.SlimePermeability = 250000
	c.Map = cave.NewCaveMap(5, 4, cavecore.ElemDirt)
	c.Map.Set(1, 1, cavecore.ElemInbox)
	c.Map.Set(2, 1, cavecore.ElemNut) // has no standard character
	c.Map.Set(3, 2, cavecore.ElemDiamond)
	c.Objects = append(c.Objects, &cave.Object{
		Kind: cave.ObjectPoint, Levels: cave.LevelMask(1) | cave.LevelMask(3),
		X1: 3, Y1: 1, Element: cavecore.ElemStone,
	})
	c.Highscore.Add("bob", 1200)

	r := cave.NewReplay()
	r.Saved = true
	r.Level = 2
	r.Seed = 998877
	r.PlayerName = "bob"
	r.Score = 321
	r.Success = true
	r.StoreMovement(cavecore.DirRight, false, false)
	r.StoreMovement(cavecore.DirRight, false, false)
	r.StoreMovement(cavecore.DirUp, true, false)
	c.Replays = append(c.Replays, r)

	set.Append(c)
	return set
}

func TestSaveLoadRoundTrip(t *testing.T) {
	set := buildCaveSet()
	data := SaveCaveSet(set)

	log := &Logger{}
	loaded, err := ParseCaveSet(data, log)
	if err != nil {
		t.Fatal(err)
	}
	for _, m := range log.Messages() {
		// a replay without a checksum is fine; nothing else should warn
		t.Errorf("unexpected warning: %s", m)
	}

	if loaded.Name != set.Name || loaded.Author != set.Author || loaded.BonusLifeScore != 750 {
		t.Errorf("caveset fields: %+v", loaded)
	}
	if len(loaded.Highscore.Entries()) != 1 || loaded.Highscore.Entries()[0].Name != "alice" {
		t.Errorf("caveset highscore: %v", loaded.Highscore.Entries())
	}
	if len(loaded.Caves) != 1 {
		t.Fatalf("expected 1 cave, got %d", len(loaded.Caves))
	}

	c0, c1 := set.Caves[0], loaded.Caves[0]
	if c1.Name != c0.Name || c1.W != c0.W || c1.H != c0.H {
		t.Errorf("cave identity: %q %dx%d", c1.Name, c1.W, c1.H)
	}
	if c1.Story != c0.Story {
		t.Errorf("long string: %q", c1.Story)
	}
	if c1.CaveTime != c0.CaveTime || c1.DiamondsRequired != c0.DiamondsRequired {
		t.Errorf("per-level arrays: %v %v", c1.CaveTime, c1.DiamondsRequired)
	}
	if c1.DiamondValue != 5 || c1.ExtraDiamondValue != 20 || c1.MagicWallTime != 30 {
		t.Errorf("scalars: %d %d %d", c1.DiamondValue, c1.ExtraDiamondValue, c1.MagicWallTime)
	}
	if c1.SlimePredictable || c1.SlimePermeability != 250000 {
		t.Errorf("slime: %v %d", c1.SlimePredictable, c1.SlimePermeability)
	}

	if !c1.HasMap() {
		t.Fatal("map lost")
	}
	for y := 0; y < c0.H; y++ {
		for x := 0; x < c0.W; x++ {
			if c1.Map.Get(x, y) != c0.Map.Get(x, y) {
				t.Fatalf("map cell %d,%d: expected %v, got %v", x, y, c0.Map.Get(x, y), c1.Map.Get(x, y))
			}
		}
	}

	if len(c1.Objects) != 1 {
		t.Fatalf("objects: %d", len(c1.Objects))
	}
	if o := c1.Objects[0]; o.Kind != cave.ObjectPoint || o.Levels != cave.LevelMask(1)|cave.LevelMask(3) {
		t.Errorf("object: %+v", o)
	}

	if len(c1.Replays) != 1 {
		t.Fatalf("replays: %d", len(c1.Replays))
	}
	r0, r1 := c0.Replays[0], c1.Replays[0]
	if r1.Level != r0.Level || r1.Seed != r0.Seed || r1.PlayerName != r0.PlayerName ||
		r1.Score != r0.Score || r1.Success != r0.Success || r1.Len() != r0.Len() {
		t.Errorf("replay: %+v", r1)
	}

	if len(c1.Highscore.Entries()) != 1 || c1.Highscore.Entries()[0].Score != 1200 {
		t.Errorf("cave highscore: %v", c1.Highscore.Entries())
	}
}

func TestSaveMapcodesForCharlessElements(t *testing.T) {
	set := buildCaveSet()
	text := string(SaveCaveSet(set))

	if !strings.Contains(text, "[mapcodes]") || !strings.Contains(text, "=NUT") {
		t.Errorf("expected a mapcodes section assigning NUT:\n%s", text)
	}
	// excluded characters never become map codes
	for _, line := range strings.Split(text, "\n") {
		if strings.HasSuffix(line, "=NUT") && len(line) > 0 {
			if strings.ContainsAny(line[:1], mapcodeExcluded) {
				t.Errorf("excluded character used as map code: %q", line)
			}
		}
	}
}

func TestSaveVersionAndStructure(t *testing.T) {
	set := buildCaveSet()
	text := string(SaveCaveSet(set))

	for _, want := range []string{"[BDCFF]", "Version=" + Version, "[game]", "[cave]", "[map]", "[objects]", "[replay]", "[/game]", "[/BDCFF]"} {
		if !strings.Contains(text, want) {
			t.Errorf("missing %q in output", want)
		}
	}

	// loading our own output emits no version mismatch warning
	log := &Logger{}
	if _, err := ParseCaveSet([]byte(text), log); err != nil {
		t.Fatal(err)
	}
	for _, m := range log.Messages() {
		if strings.Contains(m.Text, "version") {
			t.Errorf("version warning on own output: %s", m)
		}
	}
}

func TestSlimeLineSuppression(t *testing.T) {
	c := cave.NewCaveStored()
	c.Name = "s"
	c.SlimePredictable = true
	c.SlimePermeabilityC64 = 170
	set := cave.NewCaveSet()
	set.Name = "s"
	set.Append(c)

	text := string(SaveCaveSet(set))
	if strings.Contains(text, "SlimePermeability=") {
		t.Error("predictable slime must suppress the permeability line")
	}
	if !strings.Contains(text, "SlimePermeabilityC64=170") {
		t.Errorf("C64 permeability missing:\n%s", text)
	}

	c.SlimePredictable = false
	c.SlimePermeability = 123450
	text = string(SaveCaveSet(set))
	if strings.Contains(text, "SlimePermeabilityC64=") {
		t.Error("unpredictable slime must suppress the C64 line")
	}
}

func TestUnknownSectionWarns(t *testing.T) {
	input := "[BDCFF]\nVersion=0.5\n[frobnicator]\n[game]\nName=T\n[/game]\n[/BDCFF]\n"
	log := &Logger{}
	if _, err := ParseCaveSet([]byte(input), log); err != nil {
		t.Fatal(err)
	}
	if !log.HasMessages() {
		t.Error("unknown section must warn")
	}
}
