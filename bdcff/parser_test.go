package bdcff

import (
	"strings"
	"testing"

	"github.com/gdash/gdash/cave"
	"github.com/gdash/gdash/cave/cavecore"
)

const minimalCaveSet = `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
Size=4 4
[map]
wwww
w..w
w.Pw
wwww
[/map]
[/cave]
[/game]
[/BDCFF]
`

func TestMinimalLoad(t *testing.T) {
	log := &Logger{}
	set, err := ParseCaveSet([]byte(minimalCaveSet), log)
	if err != nil {
		t.Fatal(err)
	}
	if log.HasMessages() {
		t.Errorf("unexpected warnings: %v", log.Messages())
	}
	if set.Name != "T" {
		t.Errorf("caveset name: %q", set.Name)
	}
	if len(set.Caves) != 1 {
		t.Fatalf("expected 1 cave, got %d", len(set.Caves))
	}

	c := set.Caves[0]
	if c.Name != "C1" {
		t.Errorf("cave name: %q", c.Name)
	}
	if c.W != 4 || c.H != 4 {
		t.Errorf("cave size: %dx%d", c.W, c.H)
	}
	if !c.HasMap() {
		t.Fatal("cave has no map")
	}
	if c.Map.Get(2, 2) != cavecore.ElemInbox {
		t.Errorf("expected inbox at 2,2; got %v", c.Map.Get(2, 2))
	}
	if c.Map.Get(0, 0) != cavecore.ElemWall || c.Map.Get(1, 1) != cavecore.ElemDirt {
		t.Error("map content wrong")
	}

	r := cave.NewCaveRendered(c, 0, 1)
	if r.PlayerX != 2 || r.PlayerY != 2 {
		t.Errorf("player expected at 2,2; got %d,%d", r.PlayerX, r.PlayerY)
	}
}

func TestLegacyIntermissionHack(t *testing.T) {
	input := `[BDCFF]
[game]
Name=Old
[cave]
Name=I1
Intermission=true
[/cave]
[/game]
[/BDCFF]
`
	log := &Logger{}
	set, err := ParseCaveSet([]byte(input), log)
	if err != nil {
		t.Fatal(err)
	}

	c := set.Caves[0]
	if c.W != 40 || c.H != 22 || c.X2 != 19 || c.Y2 != 11 {
		t.Errorf("intermission geometry: w=%d h=%d x2=%d y2=%d", c.W, c.H, c.X2, c.Y2)
	}
	if len(c.Objects) < 2 {
		t.Fatalf("expected the two covering rectangles, got %d objects", len(c.Objects))
	}
	for i := 0; i < 2; i++ {
		o := c.Objects[i]
		if o.Kind != cave.ObjectFilledRectangle || o.Element != c.InitialBorder || o.FillElement != c.InitialBorder {
			t.Errorf("object %d: %+v", i, o)
		}
	}
	if !log.HasMessages() {
		t.Error("the hack must be reported as a warning")
	}
}

func TestUnknownTagRoundTrip(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
FutureThing=hello world
[/cave]
[/game]
[/BDCFF]
`
	log := &Logger{}
	set, err := ParseCaveSet([]byte(input), log)
	if err != nil {
		t.Fatal(err)
	}
	if set.Caves[0].Tags["FutureThing"] != "hello world" {
		t.Fatalf("unknown tag not preserved: %v", set.Caves[0].Tags)
	}

	saved := SaveCaveSet(set)
	if !strings.Contains(string(saved), "FutureThing=hello world") {
		t.Fatalf("unknown tag not written:\n%s", saved)
	}

	set2, err := ParseCaveSet(saved, &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	if set2.Caves[0].Tags["FutureThing"] != "hello world" {
		t.Error("unknown tag lost on the second load")
	}
}

func TestCaveSizeForms(t *testing.T) {
	// two numbers expand to a full-canvas window
	var p parser
	p.log = &Logger{}
	if !parseSizeSpec("20 12", &p.caveSize) {
		t.Fatal("two-number form rejected")
	}
	if p.caveSize != [6]int{20, 12, 0, 0, 19, 11} {
		t.Errorf("two-number form: %v", p.caveSize)
	}

	if !parseSizeSpec("40 22 1 2 38 20", &p.caveSize) {
		t.Fatal("six-number form rejected")
	}
	if p.caveSize != [6]int{40, 22, 1, 2, 38, 20} {
		t.Errorf("six-number form: %v", p.caveSize)
	}

	// anything else falls back with a warning at the call site
	if parseSizeSpec("40 22 1", &p.caveSize) {
		t.Error("three-number form must be rejected")
	}
	if parseSizeSpec("x y", &p.caveSize) {
		t.Error("non-numeric form must be rejected")
	}
}

func TestFrameTimeWinsOverCaveDelay(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
CaveDelay=8
FrameTime=120
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	c := set.Caves[0]
	if c.Scheduling != cavecore.SchedulingMilliseconds {
		t.Errorf("FrameTime must force milliseconds scheduling, got %v", c.Scheduling)
	}
	if c.FrameTime[0] != 120 || c.CaveDelay[0] != 8 {
		t.Errorf("values not set: %d %d", c.FrameTime[0], c.CaveDelay[0])
	}
}

func TestCaveDelaySwitchesScheduling(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
CaveDelay=8
[/cave]
[/game]
[/BDCFF]
`
	set, _ := ParseCaveSet([]byte(input), &Logger{})
	if set.Caves[0].Scheduling != cavecore.SchedulingPLCK {
		t.Errorf("CaveDelay must switch to plck, got %v", set.Caves[0].Scheduling)
	}
}

func TestColorsForms(t *testing.T) {
	load := func(colors string) *cave.CaveStored {
		input := "[BDCFF]\nVersion=0.5\n[game]\nName=T\n[cave]\nName=C\nColors=" + colors + "\n[/cave]\n[/game]\n[/BDCFF]\n"
		set, err := ParseCaveSet([]byte(input), &Logger{})
		if err != nil {
			t.Fatal(err)
		}
		return set.Caves[0]
	}

	c := load("Red Green Blue")
	if c.ColorB != cavecore.C64Color(0) || c.Color0 != cavecore.C64Color(0) {
		t.Error("three-color form must default border and background to black")
	}
	if c.Color1 != cavecore.ColorByName("Red") || c.Color4 != c.Color3 || c.Color5 != c.Color1 {
		t.Error("three-color form wrong")
	}

	c = load("Black White Red Green Blue Yellow Purple")
	if c.Color4 != cavecore.ColorByName("Yellow") || c.Color5 != cavecore.ColorByName("Purple") {
		t.Error("seven-color form wrong")
	}

	// an unknown color is replaced by a generated C64 scheme
	c = load("Red Chartreuse Blue")
	if c.Color2.IsUnknown() {
		t.Error("unknown color must have been substituted")
	}
}

func TestMapcodes(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[mapcodes]
Length=1
%=SLIME
[/mapcodes]
[game]
Name=T
[cave]
Name=C1
Size=3 3
[map]
www
w%w
www
[/map]
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	if set.Caves[0].Map.Get(1, 1) != cavecore.ElemSlime {
		t.Errorf("map code not applied: %v", set.Caves[0].Map.Get(1, 1))
	}
}

func TestShortMapRowPadded(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
Size=4 3
[map]
wwww
w.
wwww
[/map]
[/cave]
[/game]
[/BDCFF]
`
	log := &Logger{}
	set, err := ParseCaveSet([]byte(input), log)
	if err != nil {
		t.Fatal(err)
	}
	c := set.Caves[0]
	// the short row is padded with the initial border
	if c.Map.Get(2, 1) != c.InitialBorder || c.Map.Get(3, 1) != c.InitialBorder {
		t.Error("short row not padded with initial border")
	}
	if !log.HasMessages() {
		t.Error("short row must warn")
	}
}

func TestDemoSection(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
Size=4 4
[demo]
r5 u2 F
[/demo]
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	c := set.Caves[0]
	if len(c.Replays) != 1 {
		t.Fatalf("expected 1 replay, got %d", len(c.Replays))
	}
	r := c.Replays[0]
	if !r.Saved || !r.Success || r.PlayerName != "???" {
		t.Errorf("demo replay flags: %+v", r)
	}
	if r.Len() != 8 {
		t.Errorf("expected 8 movements, got %d", r.Len())
	}
}

func TestDemoOutsideCaveDropped(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[demo]
r5
[/demo]
[/game]
[/BDCFF]
`
	log := &Logger{}
	set, err := ParseCaveSet([]byte(input), log)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Caves) != 0 {
		t.Fatal("no cave expected")
	}
	if !log.HasMessages() {
		t.Error("demo outside cave must warn")
	}
}

func TestReplaySection(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
Size=4 4
[replay]
Level=2
RandSeed=12345
Player=tester
Score=1500
Success=true
Movements=r10 U3 k
[/replay]
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	c := set.Caves[0]
	if len(c.Replays) != 1 {
		t.Fatalf("expected 1 replay, got %d", len(c.Replays))
	}
	r := c.Replays[0]
	if r.Level != 2 || r.Seed != 12345 || r.PlayerName != "tester" || r.Score != 1500 || !r.Success {
		t.Errorf("replay fields: %+v", r)
	}
	if r.Len() != 14 {
		t.Errorf("expected 14 movements, got %d", r.Len())
	}
}

func TestEmptyReplayDropped(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
Size=4 4
[replay]
Level=1
[/replay]
[/cave]
[/game]
[/BDCFF]
`
	log := &Logger{}
	set, err := ParseCaveSet([]byte(input), log)
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Caves[0].Replays) != 0 {
		t.Error("replay without movements must be dropped")
	}
	if !log.HasMessages() {
		t.Error("dropping must warn")
	}
}

func TestHighscores(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[highscore]
500 alice
300 bob
[/highscore]
[cave]
Name=C1
Size=4 4
[highscore]
200 carol
[/highscore]
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	if len(set.Highscore.Entries()) != 2 || set.Highscore.Entries()[0].Name != "alice" {
		t.Errorf("caveset highscore: %v", set.Highscore.Entries())
	}
	if len(set.Caves[0].Highscore.Entries()) != 1 || set.Caves[0].Highscore.Entries()[0].Score != 200 {
		t.Errorf("cave highscore: %v", set.Caves[0].Highscore.Entries())
	}
}

func TestGameDefaultsCopiedToCaves(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
CaveTime=77
[cave]
Name=C1
Size=4 4
[/cave]
[cave]
Name=C2
Size=4 4
CaveTime=88
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	if set.Caves[0].CaveTime[0] != 77 {
		t.Errorf("game default not applied: %d", set.Caves[0].CaveTime[0])
	}
	if set.Caves[1].CaveTime[0] != 88 {
		t.Errorf("cave value must override the game default: %d", set.Caves[1].CaveTime[0])
	}
}

func TestEffectAttributes(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
Size=4 4
Effect=EXPLOSION_EFFECT DIAMOND
Effect=BOUNCING_BOULDER DIRT
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	c := set.Caves[0]
	if c.ExplosionEffect != cavecore.ElemDiamond {
		t.Errorf("explosion effect: %v", c.ExplosionEffect)
	}
	if c.StoneBouncingEffect != cavecore.ElemDirt {
		t.Errorf("legacy alias not applied: %v", c.StoneBouncingEffect)
	}
}

func TestCompatAttributes(t *testing.T) {
	input := `[BDCFF]
Version=0.5
[game]
Name=T
[cave]
Name=C1
Size=4 4
SnapExplosions=true
CaveDelay=5
BD1Scheduling=true
AmoebaProperties=WALL SPACE
[/cave]
[/game]
[/BDCFF]
`
	set, err := ParseCaveSet([]byte(input), &Logger{})
	if err != nil {
		t.Fatal(err)
	}
	c := set.Caves[0]
	if c.SnapElement != cavecore.ElemExplode1 {
		t.Errorf("SnapExplosions: %v", c.SnapElement)
	}
	// CaveDelay switched to plck, then BD1Scheduling promotes to bd1
	if c.Scheduling != cavecore.SchedulingBD1 {
		t.Errorf("BD1Scheduling: %v", c.Scheduling)
	}
	if c.AmoebaTooBigEffect != cavecore.ElemWall || c.AmoebaEnclosedEffect != cavecore.ElemSpace {
		t.Errorf("AmoebaProperties: %v %v", c.AmoebaTooBigEffect, c.AmoebaEnclosedEffect)
	}
}

func TestCommentsAndBlankLines(t *testing.T) {
	input := "[BDCFF]\r\nVersion=0.5\r\n; a comment\r\n\r\n[game]\r\nName=T\r\n[/game]\r\n[/BDCFF]\r\n"
	log := &Logger{}
	set, err := ParseCaveSet([]byte(input), log)
	if err != nil {
		t.Fatal(err)
	}
	if set.Name != "T" {
		t.Errorf("caveset name: %q", set.Name)
	}
	if log.HasMessages() {
		t.Errorf("unexpected warnings: %v", log.Messages())
	}
}

func TestVersionMismatchWarns(t *testing.T) {
	input := "[BDCFF]\nVersion=0.4\n[game]\nName=T\n[/game]\n[/BDCFF]\n"
	log := &Logger{}
	if _, err := ParseCaveSet([]byte(input), log); err != nil {
		t.Fatal(err)
	}
	if !log.HasMessages() {
		t.Error("version mismatch must warn")
	}
}
