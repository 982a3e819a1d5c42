// This file contains CaveRendered: one playable instantiation of a stored
// cave at a concrete difficulty level and seed.

package cave

import (
	"hash/adler32"
	"math/rand"

	"github.com/gdash/gdash/cave/cavecore"
)

// CaveRendered is a cave instantiated for play: the map after random fill
// and object drawing, plus the mutable simulation state.
type CaveRendered struct {
	// Stored is the template the cave was rendered from.
	Stored *CaveStored

	// RenderedOn is the 0-based difficulty level.
	RenderedOn int

	// RenderSeed is the seed the random fill used.
	RenderSeed int

	// Geometry, copied from the template.
	W, H           int
	X1, Y1, X2, Y2 int

	// Intermission properties, copied from the template.
	Intermission            bool
	IntermissionInstantLife bool
	IntermissionRewardLife  bool

	// Map is the playable element map.
	Map CaveMap[cavecore.Element]

	// Time remaining, in seconds×TimingFactor units.
	Time int

	// TimeValue is the score for one remaining second at cave end.
	TimeValue int

	// TimingFactor is 1000, or 1200 for PAL caves.
	TimingFactor int

	// Speed is the cave frame time in milliseconds.
	Speed int

	// DiamondsNeeded and DiamondsCollected track the goal of the level.
	DiamondsNeeded    int
	DiamondsCollected int

	// Score is the points earned by the last iteration; the game flow
	// collects and resets it.
	Score int

	// PlayerState and position.
	PlayerState cavecore.PlayerState
	PlayerX     int
	PlayerY     int

	// Gravity state.
	Gravity           cavecore.Direction
	GravityChangeTime int

	// Counters for magic wall and amoeba, in seconds×TimingFactor units.
	MagicWallTime int
	AmoebaTime    int

	// Sound slots read by the host after every iteration.
	Sound1, Sound2, Sound3 cavecore.Sound
}

// NewCaveRendered renders a stored cave at the given 0-based level with the
// given seed: it applies the authored map or the random fill, then draws
// the level's objects, then sets up the per-level play parameters.
func NewCaveRendered(stored *CaveStored, level, seed int) *CaveRendered {
	c := &CaveRendered{
		Stored:     stored,
		RenderedOn: level,
		RenderSeed: seed,

		W: stored.W, H: stored.H,
		X1: stored.X1, Y1: stored.Y1, X2: stored.X2, Y2: stored.Y2,

		Intermission:            stored.Intermission,
		IntermissionInstantLife: stored.IntermissionInstantLife,
		IntermissionRewardLife:  stored.IntermissionRewardLife,

		TimingFactor: stored.TimingFactor(),
		Gravity:      stored.Gravity,
	}

	rnd := rand.New(rand.NewSource(int64(seed)))

	if stored.HasMap() {
		c.Map = stored.Map.Clone()
	} else {
		c.Map = NewCaveMap(c.W, c.H, stored.InitialFill)
		// random fill; the seed makes this reproducible for replays
		for y := 1; y < c.H-1; y++ {
			for x := 0; x < c.W; x++ {
				b := rnd.Intn(256)
				for i := len(stored.RandomFill) - 1; i >= 0; i-- {
					if b < stored.RandomFillProbability[i] {
						c.Map.Set(x, y, stored.RandomFill[i])
					}
				}
			}
		}
		// border
		for x := 0; x < c.W; x++ {
			c.Map.Set(x, 0, stored.InitialBorder)
			c.Map.Set(x, c.H-1, stored.InitialBorder)
		}
		for y := 0; y < c.H; y++ {
			c.Map.Set(0, y, stored.InitialBorder)
			c.Map.Set(c.W-1, y, stored.InitialBorder)
		}
	}

	for _, o := range stored.Objects {
		if o.VisibleOn(level) {
			o.Draw(&c.Map, rnd)
		}
	}

	c.setupForGame()
	return c
}

// setupForGame resolves the per-level play parameters and finds the player
// start position.
func (c *CaveRendered) setupForGame() {
	s := c.Stored
	level := c.RenderedOn

	c.Time = s.CaveTime[level] * c.TimingFactor
	c.TimeValue = s.TimeValue[level]
	c.DiamondsNeeded = s.DiamondsRequired[level]
	c.DiamondsCollected = 0
	c.MagicWallTime = s.MagicWallTime * c.TimingFactor
	c.AmoebaTime = s.AmoebaTime * c.TimingFactor
	c.GravityChangeTime = s.GravityChangeTime * c.TimingFactor

	if s.Scheduling == cavecore.SchedulingMilliseconds {
		c.Speed = s.FrameTime[level]
	} else {
		// delay-constant schedulers tick at a delay-derived frame time
		c.Speed = 120 + 20*s.CaveDelay[level]
	}
	if c.Speed < 40 {
		c.Speed = 40
	}

	c.PlayerState = cavecore.PlayerNotYet
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			if e := c.Map.Get(x, y); e == cavecore.ElemInbox || e == cavecore.ElemPlayer {
				c.PlayerX, c.PlayerY = x, y
			}
		}
	}
}

// Checksum returns an Adler-32 checksum over the rendered map, used to
// verify replays against their cave.
func (c *CaveRendered) Checksum() uint32 {
	data := make([]byte, 0, c.W*c.H)
	for y := 0; y < c.H; y++ {
		for x := 0; x < c.W; x++ {
			data = append(data, byte(c.Map.Get(x, y)))
		}
	}
	return adler32.Checksum(data)
}

// ClearSounds empties the three sound slots.
func (c *CaveRendered) ClearSounds() {
	c.Sound1, c.Sound2, c.Sound3 = cavecore.SoundNone, cavecore.SoundNone, cavecore.SoundNone
}

// PlaySound puts a sound into the first free slot.
func (c *CaveRendered) PlaySound(s cavecore.Sound) {
	switch {
	case c.Sound1 == cavecore.SoundNone:
		c.Sound1 = s
	case c.Sound2 == cavecore.SoundNone:
		c.Sound2 = s
	default:
		c.Sound3 = s
	}
}

// Clone returns a deep copy of the rendered cave; the template reference is
// shared.
func (c *CaveRendered) Clone() *CaveRendered {
	n := *c
	n.Map = c.Map.Clone()
	return &n
}

// CheckReplays verifies every replay of a stored cave by rendering the cave
// with the replay's seed and level and comparing checksums. It returns the
// replays whose checksum does not match. When remove is set, mismatching
// replays are also removed from the cave.
func CheckReplays(stored *CaveStored, remove bool) []*Replay {
	var bad []*Replay
	var kept []*Replay
	for _, r := range stored.Replays {
		if r.Checksum != 0 {
			level := r.Level - 1
			if level < 0 || level >= Levels {
				level = 0
			}
			rendered := NewCaveRendered(stored, level, r.Seed)
			if rendered.Checksum() != r.Checksum {
				bad = append(bad, r)
				if remove {
					continue
				}
			}
		}
		kept = append(kept, r)
	}
	if remove {
		stored.Replays = kept
	}
	return bad
}
