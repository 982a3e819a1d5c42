// This file contains CaveStored, the authored cave template, and its
// engine-preset defaults.

package cave

import "github.com/gdash/gdash/cave/cavecore"

// Levels is the number of difficulty levels of a cave.
const Levels = 5

// SeedMax is the exclusive upper bound of cave render seeds.
const SeedMax = 1 << 20

// CaveStored is an authored, unrendered cave: the template from which a
// playable CaveRendered is instantiated at a difficulty level and seed.
//
// Field names are referenced by the BDCFF property tables; renaming a field
// requires updating the tables.
type CaveStored struct {
	// Name of the cave
	Name string

	// Description is a short, single-line description.
	Description string

	// Author of the cave
	Author string

	// WWW is the author's web page.
	WWW string

	// Date of creation
	Date string

	// Story is the long-form text shown before the cave is first played.
	Story string

	// Remark is a long-form note about the cave.
	Remark string

	// Charset and Fontset name the theme; not interpreted by the core.
	Charset string
	Fontset string

	// W and H are the cave dimensions.
	W, H int

	// X1, Y1, X2, Y2 delimit the visible window of the cave.
	X1, Y1, X2, Y2 int

	// Intermission tells if the cave is a bonus cave between regular caves.
	Intermission bool

	// IntermissionInstantLife awards a bonus life when the intermission starts.
	IntermissionInstantLife bool

	// IntermissionRewardLife awards a bonus life when the intermission is solved.
	IntermissionRewardLife bool

	// Selectable tells if the cave may be used as a game start position.
	Selectable bool

	// DiamondValue is the score for one diamond; ExtraDiamondValue applies
	// after enough diamonds were collected.
	DiamondValue      int
	ExtraDiamondValue int

	// Per-level values.
	CaveTime         [Levels]int
	TimeValue        [Levels]int
	DiamondsRequired [Levels]int
	CaveDelay        [Levels]int
	FrameTime        [Levels]int
	RandSeed         [Levels]int

	// CaveMaxTime is the time above which the time display wraps.
	CaveMaxTime int

	// Scheduling is the tick pacing model.
	Scheduling cavecore.Scheduling

	// PALTiming selects the PAL timing factor (1200 instead of 1000).
	PALTiming bool

	// InitialBorder is the element the cave border is made of, and the
	// padding element of short map rows.
	InitialBorder cavecore.Element

	// InitialFill is the base element of random-filled caves.
	InitialFill cavecore.Element

	// RandomFill and RandomFillProbability describe up to four random fill
	// layers; a cell is filled with RandomFill[i] if a random byte is below
	// RandomFillProbability[i].
	RandomFill            [4]cavecore.Element
	RandomFillProbability [4]int

	// The six cave colors plus border.
	ColorB cavecore.Color
	Color0 cavecore.Color
	Color1 cavecore.Color
	Color2 cavecore.Color
	Color3 cavecore.Color
	Color4 cavecore.Color
	Color5 cavecore.Color

	// SlimePredictable selects the predictable C64 slime algorithm.
	// SlimePermeability (parts per million) is used when unpredictable,
	// SlimePermeabilityC64 (0..255 bit pattern) when predictable.
	SlimePredictable     bool
	SlimePermeability    int
	SlimePermeabilityC64 int

	// Amoeba parameters. Probabilities in parts per million, the maximum
	// fill as an absolute cell count (scaled from a cave-area ratio).
	AmoebaGrowthProb     int
	AmoebaFastGrowthProb int
	AmoebaMaxFill        int
	AmoebaTime           int

	// MagicWallTime is how long the magic wall stays active, in seconds.
	MagicWallTime int

	// Gravity and the time a gravity change takes to happen.
	Gravity           cavecore.Direction
	GravityChangeTime int

	// SnapElement is what snapping (fire+move) leaves behind.
	SnapElement cavecore.Element

	// Effects: elements substituted for the naturally following ones.
	ExplosionEffect        cavecore.Element
	StoneBouncingEffect    cavecore.Element
	DiamondFallingEffect   cavecore.Element
	DirtLooksLike          cavecore.Element
	ExpandingWallLooksLike cavecore.Element
	AmoebaTooBigEffect     cavecore.Element
	AmoebaEnclosedEffect   cavecore.Element

	// Map is the authored dense element map; empty for object/random caves.
	Map CaveMap[cavecore.Element]

	// Objects is the ordered list of drawing objects.
	Objects []*Object

	// Replays recorded on this cave.
	Replays []*Replay

	// Highscore table of the cave.
	Highscore HighscoreTable

	// Tags holds unrecognized BDCFF attributes for round-tripping.
	Tags map[string]string
}

// NewCaveStored returns a cave with the default property values — the
// instance property serialization compares against.
func NewCaveStored() *CaveStored {
	c := &CaveStored{
		W: 40, H: 22, X1: 0, Y1: 0, X2: 39, Y2: 21,

		Selectable:        true,
		DiamondValue:      0,
		ExtraDiamondValue: 0,
		CaveMaxTime:       999,

		Scheduling: cavecore.SchedulingMilliseconds,

		InitialBorder: cavecore.ElemSteel,
		InitialFill:   cavecore.ElemDirt,

		ColorB: cavecore.C64Color(0),
		Color0: cavecore.C64Color(0),
		Color1: cavecore.C64Color(10),
		Color2: cavecore.C64Color(12),
		Color3: cavecore.C64Color(1),
		Color4: cavecore.C64Color(5),
		Color5: cavecore.C64Color(4),

		SlimePredictable:     true,
		SlimePermeability:    1000000,
		SlimePermeabilityC64: 0,

		AmoebaGrowthProb:     31250,
		AmoebaFastGrowthProb: 250000,
		AmoebaMaxFill:        200,
		AmoebaTime:           999,

		MagicWallTime: 999,

		Gravity:           cavecore.DirDown,
		GravityChangeTime: 10,

		SnapElement: cavecore.ElemSpace,

		ExplosionEffect:        cavecore.ElemExplode1,
		StoneBouncingEffect:    cavecore.ElemStone,
		DiamondFallingEffect:   cavecore.ElemDiamondFalling,
		DirtLooksLike:          cavecore.ElemDirt,
		ExpandingWallLooksLike: cavecore.ElemWall,
		AmoebaTooBigEffect:     cavecore.ElemStone,
		AmoebaEnclosedEffect:   cavecore.ElemDiamond,

		Tags: map[string]string{},
	}
	for i := 0; i < Levels; i++ {
		c.CaveTime[i] = 999
		c.TimeValue[i] = 1
		c.DiamondsRequired[i] = 10
		c.CaveDelay[i] = 0
		c.FrameTime[i] = 200
		c.RandSeed[i] = -1
	}
	c.RandomFill = [4]cavecore.Element{
		cavecore.ElemSpace, cavecore.ElemSpace, cavecore.ElemSpace, cavecore.ElemSpace,
	}
	return c
}

// Clone returns a deep copy of the cave.
func (c *CaveStored) Clone() *CaveStored {
	n := *c
	n.Map = c.Map.Clone()
	n.Objects = make([]*Object, len(c.Objects))
	for i, o := range c.Objects {
		oc := *o
		n.Objects[i] = &oc
	}
	n.Replays = make([]*Replay, len(c.Replays))
	for i, r := range c.Replays {
		n.Replays[i] = r.Clone()
	}
	n.Highscore = c.Highscore.Clone()
	n.Tags = make(map[string]string, len(c.Tags))
	for k, v := range c.Tags {
		n.Tags[k] = v
	}
	return &n
}

// HasMap reports whether the cave carries an authored element map.
func (c *CaveStored) HasMap() bool {
	return !c.Map.Empty()
}

// SetEngineDefaults sets the fields an engine preset implies. It is applied
// before all other cave attributes so later attributes can override.
func (c *CaveStored) SetEngineDefaults(engine cavecore.EngineType) {
	switch engine {
	case cavecore.EngineBD1:
		c.Scheduling = cavecore.SchedulingBD1
		c.PALTiming = true
		c.SlimePredictable = true
		c.SnapElement = cavecore.ElemSpace
		for i := 0; i < Levels; i++ {
			c.CaveDelay[i] = 12 - 2*i
		}
	case cavecore.EngineBD2:
		c.Scheduling = cavecore.SchedulingBD2
		c.PALTiming = true
		c.SlimePredictable = true
		for i := 0; i < Levels; i++ {
			c.CaveDelay[i] = 12 - 2*i
		}
	case cavecore.EnginePLCK:
		c.Scheduling = cavecore.SchedulingPLCK
		c.PALTiming = true
		c.SlimePredictable = true
		c.InitialFill = cavecore.ElemSpace
	case cavecore.Engine1stB:
		c.Scheduling = cavecore.SchedulingPLCK
		c.PALTiming = true
		c.SlimePredictable = true
		c.SnapElement = cavecore.ElemSpace
		c.AmoebaEnclosedEffect = cavecore.ElemDiamond
	case cavecore.EngineCrDr:
		c.Scheduling = cavecore.SchedulingCrDr
		c.PALTiming = true
		c.SlimePredictable = false
	case cavecore.EngineCrLi:
		c.Scheduling = cavecore.SchedulingCrLi
		c.PALTiming = true
		c.SlimePredictable = false
	}
}

// SetRandomC64Colors assigns a random C64 color scheme to the cave, used
// when a Colors= attribute could not be fully parsed.
func (c *CaveStored) SetRandomC64Colors(pick func(n int) int) {
	c.ColorB = cavecore.C64Color(0)
	c.Color0 = cavecore.C64Color(0)
	// three distinct, not-too-dark foreground colors
	first := pick(8)
	c.Color1 = cavecore.C64Color(8 + first)
	c.Color2 = cavecore.C64Color(8 + (first+1+pick(7))%8)
	c.Color3 = cavecore.C64Color(1 + pick(7))
	c.Color4 = c.Color3
	c.Color5 = c.Color1
}

// TimingFactor returns the time unit multiplier: cave time is stored in
// seconds×TimingFactor in a rendered cave.
func (c *CaveStored) TimingFactor() int {
	if c.PALTiming {
		return 1200
	}
	return 1000
}
