/*
Package game contains GameControl, which drives the flow of one play
session: loading caves, passing inputs to the cave iteration, uncover and
cover animations, score and lives, replay recording and playback.

GameControl does not draw or play sounds. It owns two side maps — a
graphics buffer of cell indexes and a covered map of booleans — and returns
state tokens the host acts on. The host drives it by calling MainInt
regularly, usually at 25 or 50 Hz, passing the milliseconds elapsed since
the last call.
*/
package game

import (
	"math/rand"
	"time"

	"github.com/gdash/gdash/cave"
	"github.com/gdash/gdash/cave/cavecore"
)

// Type tells what kind of session a GameControl runs.
type Type int

const (
	// TypeNormal is a full game from a caveset, with cave and level number.
	TypeNormal Type = iota

	// TypeSnapshot continues play from a snapshot.
	TypeSnapshot

	// TypeTest tests a cave from the editor.
	TypeTest

	// TypeReplay plays back a recorded replay.
	TypeReplay

	// TypeContinueReplay is a replay the user took control of.
	TypeContinueReplay
)

// State is returned by MainInt; it tells the host what happened and what to
// draw or tear down.
type State int

const (
	// StateCaveLoaded signals that a new cave is loaded.
	StateCaveLoaded State = iota

	// StateShowStory asks the host to show the cave story. First frame.
	StateShowStory

	// StateShowStoryWait is returned while the story is on screen.
	StateShowStoryWait

	// StatePrepareFirstFrame asks the host to set up the cave display.
	StatePrepareFirstFrame

	// StateFirstFrame is the first frame the cave can be drawn on.
	StateFirstFrame

	// StateNothing means nothing special: draw the cave.
	StateNothing

	// StateLabelsChanged means score and the like changed; redraw headers.
	StateLabelsChanged

	// StateTimeoutNow is given once, at the exact moment of the timeout.
	StateTimeoutNow

	// StateNoMoreLives means the game will be over; a cover animation is
	// still on the way.
	StateNoMoreLives

	// StateStop means the session is finished and can be destroyed.
	StateStop

	// StateGameOver is a finished game; the caller may record a game
	// highscore.
	StateGameOver
)

// The state counter regions of a cave's life cycle. Between the sentinels
// the counter advances one step per animation frame.
const (
	counterLoadCave      = -74
	counterShowStory     = -73
	counterShowStoryWait = -72
	counterStoryClicked  = -71
	counterStartUncover  = -70
	counterUncoverAll    = -1
	counterCaveRunning   = 0
	counterCheckBonus    = 1
	counterWaitCover     = 2
	counterCoverStart    = 100
	counterCoverAll      = 108
)

// gfxInvalid is the initial graphics buffer value, forcing a full repaint.
const gfxInvalid = -1

// recordedWith is written into recorded replays.
const recordedWith = "GDash"

// CaveIterator is the injected cave physics: it advances the cave by one
// tick. It may update the player state and position, the score earned this
// tick, the remaining time and the sound slots. It returns the move
// actually used (diagonal movements may be reduced).
type CaveIterator interface {
	Iterate(c *cave.CaveRendered, move cavecore.Direction, fire, suicide bool) cavecore.Direction
}

// Input is what the host passes to MainInt for one call.
type Input struct {
	// MsElapsed is the number of milliseconds since the previous call.
	MsElapsed int

	// PlayerMove is the direction of movement keys.
	PlayerMove cavecore.Direction

	// Fire, Suicide and Restart are the action buttons.
	Fire    bool
	Suicide bool
	Restart bool

	// AllowIterate is false while the game is paused; animation continues.
	AllowIterate bool

	// FastForward iterates the cave at 25 fps regardless of cave speed.
	FastForward bool
}

// GameControl drives one play session.
type GameControl struct {
	// Type of the session.
	Type Type

	// PlayerName is the name of the player.
	PlayerName string

	// PlayerScore and PlayerLives of the running game.
	PlayerScore int
	PlayerLives int

	// CaveSet used to load the next cave in normal games.
	CaveSet *cave.CaveSet

	// PlayedCave is the rendered cave being iterated.
	PlayedCave *cave.CaveRendered

	// OriginalCave is the stored cave of the caveset; highscores are
	// recorded into it.
	OriginalCave *cave.CaveStored

	// BonusLifeFlash counts down the frames of the bonus life flash.
	BonusLifeFlash int

	// AnimCycle runs 0..7, the cell animation phase.
	AnimCycle int

	// GfxBuffer holds the cell indexes of the drawn cave.
	GfxBuffer cave.CaveMap[int]

	// Covered tells which cells are still covered.
	Covered cave.CaveMap[bool]

	// StoryShown remembers if the current cave's story was already shown.
	StoryShown bool

	// ShowStories lets the host suppress cave stories.
	ShowStories bool

	// FastUncoverInTest speeds the uncover animation up in test sessions.
	FastUncoverInTest bool

	iterator CaveIterator
	rnd      *rand.Rand

	replayRecord          *cave.Replay
	replayFrom            *cave.Replay
	replayNoMoreMovements int

	caveNum   int
	levelNum  int
	caveScore int

	msGame  int
	msAnim  int
	counter int
}

func newGameControl(it CaveIterator) *GameControl {
	return &GameControl{
		iterator:    it,
		rnd:         rand.New(rand.NewSource(time.Now().UnixNano())),
		ShowStories: true,
		counter:     counterLoadCave,
	}
}

// NewNormal creates a full game from a caveset, starting at the given cave
// and level index (both 0-based).
func NewNormal(it CaveIterator, set *cave.CaveSet, playerName string, caveIndex, levelIndex int) *GameControl {
	g := newGameControl(it)
	g.Type = TypeNormal
	g.CaveSet = set
	g.PlayerName = playerName
	g.caveNum = caveIndex
	g.levelNum = levelIndex
	g.PlayerLives = set.InitialLives
	return g
}

// NewSnapshot creates a game continuing from a snapshot. Lives and score
// start at zero and the session ends after the one cave.
func NewSnapshot(it CaveIterator, snapshot *cave.CaveRendered) *GameControl {
	g := newGameControl(it)
	g.Type = TypeSnapshot
	g.PlayedCave = snapshot.Clone()
	return g
}

// NewTest creates an editor test of a single cave: no life counting, no
// highscore, restart on death.
func NewTest(it CaveIterator, stored *cave.CaveStored, level int) *GameControl {
	g := newGameControl(it)
	g.Type = TypeTest
	g.OriginalCave = stored
	g.levelNum = level
	g.FastUncoverInTest = true
	return g
}

// NewReplay creates a deterministic replay playback session.
func NewReplay(it CaveIterator, set *cave.CaveSet, stored *cave.CaveStored, replay *cave.Replay) *GameControl {
	if replay == nil {
		panic("game: replay session without a source replay")
	}
	g := newGameControl(it)
	g.Type = TypeReplay
	g.CaveSet = set
	g.OriginalCave = stored
	g.replayFrom = replay
	return g
}

// SetRandom replaces the random source used for seeds and the cover
// animation.
func (g *GameControl) SetRandom(rnd *rand.Rand) {
	g.rnd = rnd
}

// GameHeader reports whether the game header (score, time) should be shown:
// the cave is running or finished.
func (g *GameControl) GameHeader() bool {
	return g.counter >= counterCaveRunning
}

// CreateSnapshot returns a deep copy of the currently played cave.
func (g *GameControl) CreateSnapshot() *cave.CaveRendered {
	return g.PlayedCave.Clone()
}

// addBonusLife awards a bonus life, bounded by the caveset's maximum.
// The flash is only shown when informUser is set; completing an
// intermission awards silently.
func (g *GameControl) addBonusLife(informUser bool) {
	if (g.Type == TypeNormal || g.Type == TypeTest) && informUser {
		g.BonusLifeFlash = 100
		if g.PlayedCave != nil {
			g.PlayedCave.PlaySound(cavecore.SoundBonusLife)
		}
	}

	// lives are only counted in a real game
	if g.Type == TypeNormal && g.CaveSet != nil && g.PlayerLives < g.CaveSet.MaximumLives {
		g.PlayerLives++
	}
}

// incrementScore adds points to the player, the cave and the in-flight
// replay, awarding a bonus life when the score crosses a multiple of the
// bonus life score.
func (g *GameControl) incrementScore(increment int) {
	before := 0
	if g.CaveSet != nil {
		before = g.PlayerScore / g.CaveSet.BonusLifeScore
	}
	g.PlayerScore += increment
	g.caveScore += increment
	if g.replayRecord != nil {
		g.replayRecord.Score += increment
	}
	if g.CaveSet != nil && g.PlayerScore/g.CaveSet.BonusLifeScore > before {
		g.addBonusLife(true)
	}
}

// loadCave loads or renders the cave for this session. What that means
// depends on the session type.
func (g *GameControl) loadCave() {
	g.GfxBuffer.Remove()
	g.Covered.Remove()
	g.caveScore = 0

	switch g.Type {
	case TypeNormal:
		g.OriginalCave = g.CaveSet.Cave(g.caveNum)
		seed := g.rnd.Intn(cave.SeedMax)
		g.PlayedCave = cave.NewCaveRendered(g.OriginalCave, g.levelNum, seed)
		if g.PlayedCave.Intermission && g.PlayedCave.IntermissionInstantLife {
			g.addBonusLife(false)
		}

		g.replayRecord = cave.NewReplay()
		g.replayRecord.Level = g.PlayedCave.RenderedOn + 1 // level=1 is written in the file
		g.replayRecord.Seed = g.PlayedCave.RenderSeed
		g.replayRecord.Checksum = g.PlayedCave.Checksum()
		g.replayRecord.RecordedWith = recordedWith
		g.replayRecord.PlayerName = g.PlayerName
		g.replayRecord.Date = time.Now().Format("2006-01-02")

	case TypeTest:
		if g.OriginalCave == nil {
			panic("game: test session without a cave")
		}
		seed := g.rnd.Intn(cave.SeedMax)
		g.PlayedCave = cave.NewCaveRendered(g.OriginalCave, g.levelNum, seed)

	case TypeSnapshot:
		// the copy was made by NewSnapshot; nothing to do
		if g.PlayedCave == nil {
			panic("game: snapshot session without a cave")
		}

	case TypeReplay:
		if g.replayFrom == nil {
			panic("game: replay session without a source replay")
		}
		g.replayRecord = nil
		g.replayFrom.Rewind()
		g.replayNoMoreMovements = 0

		// level=1 in the file is level index 0
		g.PlayedCave = cave.NewCaveRendered(g.OriginalCave, g.replayFrom.Level-1, g.replayFrom.Seed)

	case TypeContinueReplay:
		panic("game: cannot load cave for a continued replay")
	}

	g.msAnim = 0
	g.msGame = 0
	g.counter = counterShowStory
}

// selectNextLevelIndexes calculates the next cave and level number after a
// cave was finished. If the last cave is done, play starts over at the
// first cave one level harder; the last level repeats.
func (g *GameControl) selectNextLevelIndexes() {
	g.caveNum++
	if g.caveNum >= len(g.CaveSet.Caves) {
		g.caveNum = 0
		g.levelNum++
		if g.levelNum > cave.Levels-1 {
			g.levelNum = cave.Levels - 1
		}
	}
	// the story of the next cave is due; failing a cave does not repeat it
	g.StoryShown = false
}

// showStory decides whether the cave story is to be shown.
func (g *GameControl) showStory() State {
	if g.ShowStories && !g.StoryShown && g.Type == TypeNormal && g.OriginalCave.Story != "" {
		// stop the cover sound while the user reads
		g.PlayedCave.ClearSounds()
		g.counter = counterShowStoryWait
		g.StoryShown = true
		return StateShowStory
	}
	g.counter = counterStoryClicked
	return StateNothing
}

// startUncover creates the side maps and starts the uncover animation.
func (g *GameControl) startUncover() {
	g.GfxBuffer.SetSize(g.PlayedCave.W, g.PlayedCave.H, gfxInvalid)
	g.Covered.SetSize(g.PlayedCave.W, g.PlayedCave.H, true)

	g.PlayedCave.ClearSounds()
	g.PlayedCave.PlaySound(cavecore.SoundCover)

	g.counter++
}

// uncoverAnimation uncovers random cells: w*h/40 per frame, so intermissions
// uncover in the same wall clock time as full caves.
func (g *GameControl) uncoverAnimation() {
	c := g.PlayedCave
	for j := 0; j < c.W*c.H/40; j++ {
		g.Covered.Set(g.rnd.Intn(c.W), g.rnd.Intn(c.H), false)
	}
	g.counter++
}

// uncoverAll uncovers the whole cave and switches to the running state.
func (g *GameControl) uncoverAll() {
	g.Covered.Fill(false)
	g.PlayedCave.ClearSounds()
	g.counter = counterCaveRunning
}

// coverAnimation covers random cells, eight times faster than uncovering.
func (g *GameControl) coverAnimation() {
	c := g.PlayedCave
	for j := 0; j < c.W*c.H*8/40; j++ {
		g.Covered.Set(g.rnd.Intn(c.W), g.rnd.Intn(c.H), true)
	}
	g.counter++
}

// iterateCave advances the cave while enough game time accumulated,
// handling replay playback and recording, scoring and the restart and
// death inputs.
func (g *GameControl) iterateCave(in Input) State {
	c := g.PlayedCave

	speed := c.Speed
	if in.FastForward {
		speed = 40 // 25 iterations per second, whatever the cave thinks
	}

	// replay playback is abandoned as soon as the user moves; fire alone
	// does not trigger this, that would not be intuitive
	if g.Type == TypeReplay && in.PlayerMove != cavecore.DirStill {
		g.Type = TypeContinueReplay
		g.replayFrom = nil
	}

	returnState := StateNothing
	g.msGame += in.MsElapsed

	for c.PlayerState != cavecore.PlayerTimeout && g.msGame >= speed {
		g.msGame -= speed

		move, fire, suicide := in.PlayerMove, in.Fire, in.Suicide
		if g.Type == TypeReplay {
			m, ok := g.replayFrom.NextMovement()
			if ok {
				move, fire, suicide = m.Dir, m.Fire, m.Suicide
			} else {
				// stream exhausted; input falls through to the user, and
				// if nothing happens for a while the cave is covered
				g.replayNoMoreMovements++
				if g.replayNoMoreMovements > 15 {
					g.counter = counterCoverStart
					break
				}
			}
		}

		if g.replayRecord != nil {
			g.replayRecord.StoreMovement(move, fire, suicide)
		}

		statePrev := c.PlayerState
		// the iterator may reduce the move (diagonals); not needed further
		_ = g.iterator.Iterate(c, move, fire, suicide)

		if c.Score != 0 {
			g.incrementScore(c.Score)
			c.Score = 0
		}
		returnState = StateLabelsChanged
		if statePrev != cavecore.PlayerTimeout && c.PlayerState == cavecore.PlayerTimeout {
			returnState = StateTimeoutNow
		}
	}

	if c.PlayerState == cavecore.PlayerExited {
		if g.replayRecord != nil {
			g.replayRecord.Success = true
		}
		g.counter = counterCheckBonus
		c.ClearSounds()
		c.PlaySound(cavecore.SoundFinished)
	}

	// died or timed out and fire pressed, or an explicit restart: try again
	if ((c.PlayerState == cavecore.PlayerDied || c.PlayerState == cavecore.PlayerTimeout) && in.Fire) || in.Restart {
		if g.Type == TypeNormal && g.PlayerLives == 0 {
			g.counter = counterWaitCover // game over after the wait
		} else {
			g.counter = counterCoverStart
		}
	}

	return returnState
}

// checkBonusScore converts remaining cave time into points, one second per
// frame, nine at a time while more than a minute remains.
func (g *GameControl) checkBonusScore() {
	c := g.PlayedCave
	if c.Time > 0 {
		if c.Time > 60*c.TimingFactor {
			c.Time -= 9 * c.TimingFactor
			g.incrementScore(c.TimeValue * 9)
		} else {
			c.Time -= c.TimingFactor
			g.incrementScore(c.TimeValue)
		}
		// the remaining time may have been a fraction of a second
		if c.Time < 0 {
			c.Time = 0
		}
	} else {
		g.counter = counterWaitCover
	}

	c.PlaySound(cavecore.SoundSeconds)
}

// waitBeforeCover is the first frame of the wait: game over is reported
// here, while the covering is still on its way.
func (g *GameControl) waitBeforeCover() State {
	g.counter++
	if g.Type == TypeNormal && g.PlayerLives == 0 {
		return StateNoMoreLives
	}
	return StateNothing
}

// finishedCovering wraps the cave up: keeps or drops the recorded replay,
// manages lives and highscore, selects the next cave.
func (g *GameControl) finishedCovering() State {
	g.GfxBuffer.Remove()
	g.Covered.Remove()

	var returnState State
	switch g.Type {
	case TypeNormal:
		// a successful replay is always kept; a failed one only if it has
		// a length that makes sense
		if g.replayRecord.Success || g.replayRecord.Len() >= 16 {
			g.OriginalCave.Replays = append(g.OriginalCave.Replays, g.replayRecord)
		}
		g.replayRecord = nil

		switch g.PlayedCave.PlayerState {
		case cavecore.PlayerExited:
			// one life extra for completing an intermission
			if g.PlayedCave.Intermission && g.PlayedCave.IntermissionRewardLife {
				g.addBonusLife(false)
			}
			// bonus time points are in by now; record the highscore
			g.OriginalCave.Highscore.Add(g.PlayerName, g.caveScore)
		case cavecore.PlayerDied, cavecore.PlayerTimeout:
			if !g.PlayedCave.Intermission && g.PlayerLives > 0 {
				g.PlayerLives--
			}
		}

		// intermissions give a single chance, so they always advance
		if g.PlayedCave.PlayerState == cavecore.PlayerExited || g.PlayedCave.Intermission {
			g.selectNextLevelIndexes()
		}

		if g.PlayerLives > 0 {
			returnState = StateNothing
		} else {
			returnState = StateGameOver
		}

	case TypeTest:
		// start again; the cave will be reloaded
		returnState = StateNothing

	default:
		// snapshots and replays end here
		returnState = StateStop
	}

	g.counter = counterLoadCave
	return returnState
}

// MainInt advances the game by one host tick. It must be driven by a single
// timer; in.MsElapsed tells how much time passed since the previous call.
// The returned state tells the host what to do.
func (g *GameControl) MainInt(in Input) State {
	g.msAnim += in.MsElapsed
	isAnimFrame := false
	if g.msAnim >= 40 { // 40 ms -> 25 fps
		isAnimFrame = true
		g.msAnim -= 40
		if g.BonusLifeFlash > 0 {
			g.BonusLifeFlash--
		}
		g.AnimCycle = (g.AnimCycle + 1) % 8
	}

	switch {
	case g.counter < counterLoadCave:
		panic("game: state counter below load cave")

	case g.counter == counterLoadCave:
		g.loadCave()
		return StateCaveLoaded

	case g.counter == counterShowStory:
		return g.showStory()

	case g.counter == counterShowStoryWait:
		// waiting for the user to dismiss the story
		if in.Fire || in.Restart {
			g.counter = counterStoryClicked
		}
		return StateShowStoryWait

	case g.counter == counterStoryClicked:
		g.counter = counterStartUncover
		return StatePrepareFirstFrame

	case g.counter == counterStartUncover:
		g.startUncover()
		// the caller learns the new cave size and colors here
		return StateFirstFrame

	case g.counter < counterUncoverAll:
		if isAnimFrame {
			g.uncoverAnimation()
		}
		if g.Type == TypeTest && g.FastUncoverInTest {
			for i := 0; i < 3 && g.counter < counterUncoverAll; i++ {
				g.uncoverAnimation()
			}
		}
		return StateNothing

	case g.counter == counterUncoverAll:
		g.uncoverAll()
		return StateNothing

	case g.counter == counterCaveRunning:
		if in.AllowIterate {
			return g.iterateCave(in)
		}
		return StateNothing

	case g.counter == counterCheckBonus:
		if isAnimFrame {
			g.checkBonusScore()
			return StateLabelsChanged
		}
		return StateNothing

	case g.counter == counterWaitCover:
		if isAnimFrame {
			return g.waitBeforeCover()
		}
		return StateNothing

	case g.counter > counterWaitCover && g.counter < counterCoverStart:
		// waiting; nothing to do
		if isAnimFrame {
			g.counter++
		}
		return StateNothing

	case g.counter == counterCoverStart:
		g.PlayedCave.ClearSounds()
		g.PlayedCave.PlaySound(cavecore.SoundCover)
		g.counter++
		return StateNothing

	case g.counter > counterCoverStart && g.counter < counterCoverAll:
		if isAnimFrame {
			g.coverAnimation()
		}
		return StateNothing

	case g.counter == counterCoverAll:
		g.Covered.Fill(true)
		g.counter++
		return StateNothing

	default:
		return g.finishedCovering()
	}
}
