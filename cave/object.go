// This file contains the drawing objects of a stored cave: the ordered list
// of instructions that paint the cave map over the random fill.

package cave

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/gdash/gdash/cave/cavecore"
)

// ObjectKind is the kind of a drawing object.
type ObjectKind int

// The object kinds.
const (
	ObjectPoint ObjectKind = iota
	ObjectLine
	ObjectRectangle
	ObjectFilledRectangle
	ObjectRaster
	ObjectJoin
	ObjectBoundaryFill
	ObjectFloodFill
	ObjectMaze
	ObjectCopyPaste
)

// LevelAll is the level bitmask selecting all five difficulty levels.
const LevelAll = 0x1f

// LevelMask returns the bitmask bit of a 1-based level number.
func LevelMask(level int) int {
	return 1 << (level - 1)
}

// Object is one drawing object. A single struct covers all kinds; which
// fields are meaningful depends on Kind.
type Object struct {
	Kind ObjectKind

	// Levels is the bitmask of 1-based difficulty levels the object is
	// drawn on.
	Levels int

	// X1, Y1, X2, Y2 are the coordinates of the object. Point-like kinds
	// use only (X1, Y1).
	X1, Y1, X2, Y2 int

	// DX, DY are the distance vector of rasters and joins, and the
	// destination corner of copy-paste.
	DX, DY int

	// Element is the main element drawn. Joins search for it, and boundary
	// fills stop at it.
	Element cavecore.Element

	// FillElement is the inner element of filled rectangles, the element
	// put by joins, the element boundary fills paint, the path element of
	// mazes and the element replaced by flood fills.
	FillElement cavecore.Element

	// Seed is the maze generation seed; -1 means use the cave render seed.
	Seed int

	// WallWidth and PathWidth are the maze cell dimensions.
	WallWidth, PathWidth int

	// Mirror and Flip transform a copy-paste horizontally / vertically.
	Mirror, Flip bool
}

// ObjectFromBDCFF parses one line of an [objects] section.
// nil is returned if the line is not a valid object specification.
func ObjectFromBDCFF(line string) *Object {
	name, param, found := strings.Cut(line, "=")
	if !found {
		return nil
	}
	name = strings.TrimSpace(name)
	fields := strings.Fields(param)

	ints := func(n int) ([]int, bool) {
		if len(fields) < n {
			return nil, false
		}
		vals := make([]int, n)
		for i := 0; i < n; i++ {
			v, err := strconv.Atoi(fields[i])
			if err != nil {
				return nil, false
			}
			vals[i] = v
		}
		return vals, true
	}
	elem := func(i int) (cavecore.Element, bool) {
		if i >= len(fields) {
			return cavecore.ElemUnknown, false
		}
		return cavecore.ElementByName(fields[i])
	}

	o := &Object{Levels: LevelAll, Seed: -1}
	switch {
	case strings.EqualFold(name, "Point"):
		o.Kind = ObjectPoint
		v, ok := ints(2)
		e, eok := elem(2)
		if !ok || !eok {
			return nil
		}
		o.X1, o.Y1, o.Element = v[0], v[1], e

	case strings.EqualFold(name, "Line"):
		o.Kind = ObjectLine
		v, ok := ints(4)
		e, eok := elem(4)
		if !ok || !eok {
			return nil
		}
		o.X1, o.Y1, o.X2, o.Y2, o.Element = v[0], v[1], v[2], v[3], e

	case strings.EqualFold(name, "Rectangle"):
		o.Kind = ObjectRectangle
		v, ok := ints(4)
		e, eok := elem(4)
		if !ok || !eok {
			return nil
		}
		o.X1, o.Y1, o.X2, o.Y2, o.Element = v[0], v[1], v[2], v[3], e

	case strings.EqualFold(name, "FillRect"):
		o.Kind = ObjectFilledRectangle
		v, ok := ints(4)
		e, eok := elem(4)
		if !ok || !eok {
			return nil
		}
		o.X1, o.Y1, o.X2, o.Y2, o.Element = v[0], v[1], v[2], v[3], e
		// the fill element is optional; border element fills if absent
		if f, ok := elem(5); ok {
			o.FillElement = f
		} else {
			o.FillElement = e
		}

	case strings.EqualFold(name, "Raster"):
		o.Kind = ObjectRaster
		v, ok := ints(6)
		e, eok := elem(6)
		if !ok || !eok {
			return nil
		}
		o.X1, o.Y1 = v[0], v[1]
		o.X2, o.Y2 = v[2], v[3]
		o.DX, o.DY = v[4], v[5]
		o.Element = e

	case strings.EqualFold(name, "Join") || strings.EqualFold(name, "Add"):
		o.Kind = ObjectJoin
		v, ok := ints(2)
		search, sok := elem(2)
		put, pok := elem(3)
		if !ok || !sok || !pok {
			return nil
		}
		o.DX, o.DY = v[0], v[1]
		o.Element, o.FillElement = search, put

	case strings.EqualFold(name, "BoundaryFill"):
		o.Kind = ObjectBoundaryFill
		v, ok := ints(2)
		fill, fok := elem(2)
		boundary, bok := elem(3)
		if !ok || !fok || !bok {
			return nil
		}
		o.X1, o.Y1 = v[0], v[1]
		o.Element, o.FillElement = boundary, fill

	case strings.EqualFold(name, "FloodFill"):
		o.Kind = ObjectFloodFill
		v, ok := ints(2)
		fill, fok := elem(2)
		replace, rok := elem(3)
		if !ok || !fok || !rok {
			return nil
		}
		o.X1, o.Y1 = v[0], v[1]
		o.Element, o.FillElement = fill, replace

	case strings.EqualFold(name, "Maze"):
		o.Kind = ObjectMaze
		v, ok := ints(7)
		wall, wok := elem(7)
		path, pok := elem(8)
		if !ok || !wok || !pok {
			return nil
		}
		o.X1, o.Y1, o.X2, o.Y2 = v[0], v[1], v[2], v[3]
		o.WallWidth, o.PathWidth, o.Seed = v[4], v[5], v[6]
		o.Element, o.FillElement = wall, path

	case strings.EqualFold(name, "CopyPaste"):
		o.Kind = ObjectCopyPaste
		v, ok := ints(6)
		if !ok {
			return nil
		}
		o.X1, o.Y1, o.X2, o.Y2 = v[0], v[1], v[2], v[3]
		o.DX, o.DY = v[4], v[5]
		if len(fields) >= 8 {
			o.Mirror = strings.EqualFold(fields[6], "mirror")
			o.Flip = strings.EqualFold(fields[7], "flip")
		}

	default:
		return nil
	}
	return o
}

// ToBDCFF returns the object's BDCFF line, without any [Level=] wrapper.
func (o *Object) ToBDCFF() string {
	switch o.Kind {
	case ObjectPoint:
		return fmt.Sprintf("Point=%d %d %s", o.X1, o.Y1, o.Element)
	case ObjectLine:
		return fmt.Sprintf("Line=%d %d %d %d %s", o.X1, o.Y1, o.X2, o.Y2, o.Element)
	case ObjectRectangle:
		return fmt.Sprintf("Rectangle=%d %d %d %d %s", o.X1, o.Y1, o.X2, o.Y2, o.Element)
	case ObjectFilledRectangle:
		return fmt.Sprintf("FillRect=%d %d %d %d %s %s", o.X1, o.Y1, o.X2, o.Y2, o.Element, o.FillElement)
	case ObjectRaster:
		return fmt.Sprintf("Raster=%d %d %d %d %d %d %s", o.X1, o.Y1, o.X2, o.Y2, o.DX, o.DY, o.Element)
	case ObjectJoin:
		return fmt.Sprintf("Join=%d %d %s %s", o.DX, o.DY, o.Element, o.FillElement)
	case ObjectBoundaryFill:
		return fmt.Sprintf("BoundaryFill=%d %d %s %s", o.X1, o.Y1, o.FillElement, o.Element)
	case ObjectFloodFill:
		return fmt.Sprintf("FloodFill=%d %d %s %s", o.X1, o.Y1, o.Element, o.FillElement)
	case ObjectMaze:
		return fmt.Sprintf("Maze=%d %d %d %d %d %d %d %s %s", o.X1, o.Y1, o.X2, o.Y2, o.WallWidth, o.PathWidth, o.Seed, o.Element, o.FillElement)
	case ObjectCopyPaste:
		s := fmt.Sprintf("CopyPaste=%d %d %d %d %d %d", o.X1, o.Y1, o.X2, o.Y2, o.DX, o.DY)
		if o.Mirror || o.Flip {
			mirror, flip := "nomirror", "noflip"
			if o.Mirror {
				mirror = "mirror"
			}
			if o.Flip {
				flip = "flip"
			}
			s += " " + mirror + " " + flip
		}
		return s
	}
	return ""
}

// VisibleOn reports whether the object is drawn on the given 0-based level.
func (o *Object) VisibleOn(level int) bool {
	return o.Levels&LevelMask(level+1) != 0
}

// Draw paints the object onto the map. rnd seeds maze generation when the
// object itself carries no seed.
func (o *Object) Draw(m *CaveMap[cavecore.Element], rnd *rand.Rand) {
	put := func(x, y int, e cavecore.Element) {
		if m.InRange(x, y) {
			m.Set(x, y, e)
		}
	}

	switch o.Kind {
	case ObjectPoint:
		put(o.X1, o.Y1, o.Element)

	case ObjectLine:
		dx, dy := o.X2-o.X1, o.Y2-o.Y1
		steps := max(abs(dx), abs(dy))
		if steps == 0 {
			put(o.X1, o.Y1, o.Element)
			return
		}
		for i := 0; i <= steps; i++ {
			put(o.X1+dx*i/steps, o.Y1+dy*i/steps, o.Element)
		}

	case ObjectRectangle:
		for x := o.X1; x <= o.X2; x++ {
			put(x, o.Y1, o.Element)
			put(x, o.Y2, o.Element)
		}
		for y := o.Y1; y <= o.Y2; y++ {
			put(o.X1, y, o.Element)
			put(o.X2, y, o.Element)
		}

	case ObjectFilledRectangle:
		for y := o.Y1; y <= o.Y2; y++ {
			for x := o.X1; x <= o.X2; x++ {
				if x == o.X1 || x == o.X2 || y == o.Y1 || y == o.Y2 {
					put(x, y, o.Element)
				} else {
					put(x, y, o.FillElement)
				}
			}
		}

	case ObjectRaster:
		if o.DX <= 0 || o.DY <= 0 {
			return
		}
		for y := o.Y1; y <= o.Y2; y += o.DY {
			for x := o.X1; x <= o.X2; x += o.DX {
				put(x, y, o.Element)
			}
		}

	case ObjectJoin:
		// collect first: joining must not cascade on its own output
		type pt struct{ x, y int }
		var found []pt
		for y := 0; y < m.Height(); y++ {
			for x := 0; x < m.Width(); x++ {
				if m.Get(x, y) == o.Element {
					found = append(found, pt{x, y})
				}
			}
		}
		for _, p := range found {
			put(p.x+o.DX, p.y+o.DY, o.FillElement)
		}

	case ObjectBoundaryFill:
		o.boundaryFill(m)

	case ObjectFloodFill:
		o.floodFill(m)

	case ObjectMaze:
		o.drawMaze(m, rnd)

	case ObjectCopyPaste:
		w, h := o.X2-o.X1+1, o.Y2-o.Y1+1
		clip := NewCaveMap(w, h, cavecore.ElemSpace)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if m.InRange(o.X1+x, o.Y1+y) {
					clip.Set(x, y, m.Get(o.X1+x, o.Y1+y))
				}
			}
		}
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sx, sy := x, y
				if o.Mirror {
					sx = w - 1 - x
				}
				if o.Flip {
					sy = h - 1 - y
				}
				put(o.DX+x, o.DY+y, clip.Get(sx, sy))
			}
		}
	}
}

func (o *Object) boundaryFill(m *CaveMap[cavecore.Element]) {
	if !m.InRange(o.X1, o.Y1) || m.Get(o.X1, o.Y1) == o.Element {
		return
	}
	type pt struct{ x, y int }
	visited := NewCaveMap(m.Width(), m.Height(), false)
	stack := []pt{{o.X1, o.Y1}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !m.InRange(p.x, p.y) || visited.Get(p.x, p.y) {
			continue
		}
		if m.Get(p.x, p.y) == o.Element {
			continue
		}
		visited.Set(p.x, p.y, true)
		m.Set(p.x, p.y, o.FillElement)
		stack = append(stack,
			pt{p.x + 1, p.y}, pt{p.x - 1, p.y}, pt{p.x, p.y + 1}, pt{p.x, p.y - 1})
	}
}

func (o *Object) floodFill(m *CaveMap[cavecore.Element]) {
	if !m.InRange(o.X1, o.Y1) {
		return
	}
	replace := o.FillElement
	if replace == o.Element {
		return
	}
	type pt struct{ x, y int }
	stack := []pt{{o.X1, o.Y1}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !m.InRange(p.x, p.y) || m.Get(p.x, p.y) != replace {
			continue
		}
		m.Set(p.x, p.y, o.Element)
		stack = append(stack,
			pt{p.x + 1, p.y}, pt{p.x - 1, p.y}, pt{p.x, p.y + 1}, pt{p.x, p.y - 1})
	}
}

// drawMaze generates a perfect maze with a depth-first walk over cells of
// PathWidth separated by walls of WallWidth.
func (o *Object) drawMaze(m *CaveMap[cavecore.Element], rnd *rand.Rand) {
	ww, pw := o.WallWidth, o.PathWidth
	if ww < 1 || pw < 1 {
		return
	}
	if o.Seed >= 0 {
		rnd = rand.New(rand.NewSource(int64(o.Seed)))
	}

	// cell grid dimensions
	step := pw + ww
	cw := (o.X2 - o.X1 + 1 + ww) / step
	ch := (o.Y2 - o.Y1 + 1 + ww) / step
	if cw < 1 || ch < 1 {
		return
	}

	for y := o.Y1; y <= o.Y2; y++ {
		for x := o.X1; x <= o.X2; x++ {
			if m.InRange(x, y) {
				m.Set(x, y, o.Element)
			}
		}
	}

	carve := func(cx, cy int) {
		for y := 0; y < pw; y++ {
			for x := 0; x < pw; x++ {
				px, py := o.X1+cx*step+x, o.Y1+cy*step+y
				if m.InRange(px, py) && px <= o.X2 && py <= o.Y2 {
					m.Set(px, py, o.FillElement)
				}
			}
		}
	}
	carveWall := func(cx, cy, dx, dy int) {
		for i := 0; i < ww; i++ {
			for j := 0; j < pw; j++ {
				var px, py int
				if dx != 0 {
					px = o.X1 + cx*step + pw + i
					if dx < 0 {
						px = o.X1 + cx*step - 1 - i
					}
					py = o.Y1 + cy*step + j
				} else {
					py = o.Y1 + cy*step + pw + i
					if dy < 0 {
						py = o.Y1 + cy*step - 1 - i
					}
					px = o.X1 + cx*step + j
				}
				if m.InRange(px, py) && px <= o.X2 && py <= o.Y2 {
					m.Set(px, py, o.FillElement)
				}
			}
		}
	}

	type cell struct{ x, y int }
	visited := make([][]bool, ch)
	for i := range visited {
		visited[i] = make([]bool, cw)
	}
	stack := []cell{{0, 0}}
	visited[0][0] = true
	carve(0, 0)
	dirs := []cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		perm := rnd.Perm(4)
		moved := false
		for _, pi := range perm {
			d := dirs[pi]
			nx, ny := c.x+d.x, c.y+d.y
			if nx < 0 || ny < 0 || nx >= cw || ny >= ch || visited[ny][nx] {
				continue
			}
			visited[ny][nx] = true
			carveWall(c.x, c.y, d.x, d.y)
			carve(nx, ny)
			stack = append(stack, cell{nx, ny})
			moved = true
			break
		}
		if !moved {
			stack = stack[:len(stack)-1]
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
