package cave

import (
	"math/rand"
	"testing"

	"github.com/gdash/gdash/cave/cavecore"
)

func TestObjectBDCFFRoundTrip(t *testing.T) {
	lines := []string{
		"Point=2 3 DIAMOND",
		"Line=0 0 5 5 WALL",
		"Rectangle=1 1 8 6 STEELWALL",
		"FillRect=1 1 8 6 WALL SPACE",
		"Raster=0 0 10 10 2 2 DIAMOND",
		"Join=1 0 DIAMOND BOULDER",
		"BoundaryFill=4 4 DIRT STEELWALL",
		"FloodFill=4 4 WALL SPACE",
		"Maze=0 0 19 11 1 1 17 WALL SPACE",
		"CopyPaste=0 0 4 4 10 10",
	}
	for _, line := range lines {
		o := ObjectFromBDCFF(line)
		if o == nil {
			t.Errorf("%q: did not parse", line)
			continue
		}
		if got := o.ToBDCFF(); got != line {
			t.Errorf("round trip: expected %q, got %q", line, got)
		}
	}
}

func TestObjectInvalid(t *testing.T) {
	for _, line := range []string{
		"Point=2 3",
		"Point=x y DIAMOND",
		"Frobnicate=1 2 3",
		"no equals sign",
	} {
		if o := ObjectFromBDCFF(line); o != nil {
			t.Errorf("%q: expected parse failure, got %+v", line, o)
		}
	}
}

func TestFilledRectangleDraw(t *testing.T) {
	m := NewCaveMap(10, 10, cavecore.ElemDirt)
	o := &Object{
		Kind: ObjectFilledRectangle, Levels: LevelAll,
		X1: 1, Y1: 1, X2: 4, Y2: 4,
		Element: cavecore.ElemWall, FillElement: cavecore.ElemSpace,
	}
	o.Draw(&m, rand.New(rand.NewSource(1)))

	if m.Get(1, 1) != cavecore.ElemWall || m.Get(4, 4) != cavecore.ElemWall {
		t.Error("border not drawn")
	}
	if m.Get(2, 2) != cavecore.ElemSpace {
		t.Error("inside not filled")
	}
	if m.Get(5, 5) != cavecore.ElemDirt {
		t.Error("cells outside the rectangle must be untouched")
	}
}

func TestObjectLevels(t *testing.T) {
	o := &Object{Kind: ObjectPoint, Levels: LevelMask(2) | LevelMask(4)}
	for level, want := range []bool{false, true, false, true, false} {
		if o.VisibleOn(level) != want {
			t.Errorf("level %d: expected %v", level, want)
		}
	}
}

func TestMazeDeterministic(t *testing.T) {
	draw := func() CaveMap[cavecore.Element] {
		m := NewCaveMap(20, 12, cavecore.ElemDirt)
		o := &Object{
			Kind: ObjectMaze, Levels: LevelAll,
			X1: 0, Y1: 0, X2: 19, Y2: 11,
			WallWidth: 1, PathWidth: 1, Seed: 99,
			Element: cavecore.ElemWall, FillElement: cavecore.ElemSpace,
		}
		o.Draw(&m, rand.New(rand.NewSource(7)))
		return m
	}
	a, b := draw(), draw()
	for y := 0; y < 12; y++ {
		for x := 0; x < 20; x++ {
			if a.Get(x, y) != b.Get(x, y) {
				t.Fatalf("maze not deterministic at %d,%d", x, y)
			}
		}
	}
}
