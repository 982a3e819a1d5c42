/*
Package bdcff implements loading and saving cavesets in the BDCFF text
format (Boulder Dash Common File Format).

The format is line oriented and CR tolerant. Parse-level problems are never
fatal: they are reported to a Logger with line-number context and parsing
continues; a cave that cannot parse any property still loads with defaults.
*/
package bdcff

import (
	"errors"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"github.com/gdash/gdash/cave"
	"github.com/gdash/gdash/cave/cavecore"
)

// Version is the BDCFF format version written by the saver.
const Version = "0.5"

// ErrParsing indicates that an unexpected error occurred, which may be due
// to a corrupt file or an implementation error.
var ErrParsing = errors.New("bdcff: parsing")

// tagEntry is one pending attribute: the original-case key and its value.
type tagEntry struct {
	key   string
	value string
}

// tagMap holds pending attributes keyed case-insensitively.
type tagMap map[string]tagEntry

func (t tagMap) put(key, value string) {
	t[strings.ToLower(key)] = tagEntry{key: key, value: value}
}

func (t tagMap) get(key string) (string, bool) {
	e, ok := t[strings.ToLower(key)]
	return e.value, ok
}

func (t tagMap) remove(key string) {
	delete(t, strings.ToLower(key))
}

// sortedKeys returns the lowercase keys in sorted order, for deterministic
// processing.
func (t tagMap) sortedKeys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parser holds the state of one caveset load.
type parser struct {
	log *Logger

	set         *cave.CaveSet
	defaultCave *cave.CaveStored
	current     *cave.CaveStored

	charToElem *cavecore.CharToElement

	caveSize         [6]int
	intermissionSize [6]int
	versionRead      string

	tags       tagMap
	replayTags tagMap
	mapLines   []string
	levels     int

	readingMap      bool
	readingMapcodes bool
	readingHigh     bool
	readingObjects  bool
	readingDemo     bool
	readingReplay   bool
}

// ParseCaveSet parses BDCFF text into a caveset. Warnings go to log; the
// returned error is non-nil only for panics escaping the parse logic.
func ParseCaveSet(data []byte, log *Logger) (s *cave.CaveSet, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Warn("internal parse error: %v", r)
			s, err = nil, ErrParsing
		}
	}()

	p := &parser{
		log:         log,
		set:         cave.NewCaveSet(),
		defaultCave: cave.NewCaveStored(),
		charToElem:  cavecore.NewCharToElement(),
		versionRead: "0.32", // files without a Version= line are pre-0.5
		tags:        tagMap{},
		replayTags:  tagMap{},
		levels:      cave.LevelAll,
	}
	p.current = p.defaultCave
	p.setCaveSizeDefaults()
	p.setIntermissionSizeDefaults()

	for lineno, line := range strings.Split(string(data), "\n") {
		log.SetContext("Line %d", lineno+1)
		p.processLine(strings.ReplaceAll(line, "\r", ""))
	}

	p.finish()
	log.ClearContext()
	return p.set, nil
}

func (p *parser) setCaveSizeDefaults() {
	p.caveSize = [6]int{40, 22, 0, 0, 39, 21}
}

func (p *parser) setIntermissionSizeDefaults() {
	p.intermissionSize = [6]int{40, 22, 0, 0, 19, 11}
}

// processLine handles one CR-stripped input line.
func (p *parser) processLine(line string) {
	if len(line) == 0 {
		return
	}
	// comments are skipped, except in a map, where rows may start with ';'
	if !p.readingMap && line[0] == ';' {
		return
	}

	if line[0] == '[' {
		p.processSection(line)
		return
	}

	if p.readingMap {
		// raw line; leading and trailing spaces are map cells
		p.mapLines = append(p.mapLines, line)
		return
	}

	line = strings.TrimSpace(line)

	if p.readingHigh {
		p.processHighscoreLine(line)
		return
	}

	if p.readingDemo {
		// demo body: one or more movement token lines
		if p.current == p.defaultCave {
			// already reported when the [demo] section was opened
			return
		}
		replay := p.current.Replays[len(p.current.Replays)-1]
		for _, token := range strings.Fields(line) {
			replay.StoreMovementsFromBDCFF(token)
		}
		return
	}

	if p.readingObjects {
		if o := cave.ObjectFromBDCFF(line); o != nil {
			o.Levels = p.levels
			p.current.Objects = append(p.current.Objects, o)
		} else {
			p.log.Warn("invalid object specification: %s", line)
		}
		return
	}

	if attrib, param, found := strings.Cut(line, "="); found {
		p.processPair(strings.TrimSpace(attrib), strings.TrimSpace(param))
		return
	}

	p.log.Warn("cannot parse line: %s", line)
}

// processSection handles a [section] marker line.
func (p *parser) processSection(line string) {
	switch {
	case strings.EqualFold(line, "[cave]"):
		if p.mapLines != nil {
			p.log.Warn("incorrect file format: new [cave] section, but already read some map lines")
			p.mapLines = nil
		}
		// apply pending [game] defaults, then clone them for the new cave
		p.processCaveTags(p.defaultCave, nil)
		p.current = p.defaultCave.Clone()
		p.set.Append(p.current)

	case strings.EqualFold(line, "[/cave]"):
		p.processCaveTags(p.current, p.mapLines)
		p.mapLines = nil
		for _, k := range p.tags.sortedKeys() {
			e := p.tags[k]
			p.log.Warn("unknown tag '%s'", e.key)
			p.current.Tags[e.key] = e.value
		}
		p.tags = tagMap{}
		p.current = p.defaultCave

	case strings.EqualFold(line, "[map]"):
		p.readingMap = true
		if p.mapLines != nil {
			p.log.Warn("incorrect file format: new [map] section, but already read some map lines")
			p.mapLines = nil
		}

	case strings.EqualFold(line, "[/map]"):
		p.readingMap = false

	case strings.EqualFold(line, "[mapcodes]"):
		p.readingMapcodes = true
	case strings.EqualFold(line, "[/mapcodes]"):
		p.readingMapcodes = false

	case strings.EqualFold(line, "[highscore]"):
		p.readingHigh = true
	case strings.EqualFold(line, "[/highscore]"):
		p.readingHigh = false

	case strings.EqualFold(line, "[objects]"):
		p.readingObjects = true
	case strings.EqualFold(line, "[/objects]"):
		p.readingObjects = false

	case strings.EqualFold(line, "[demo]"):
		p.readingDemo = true
		if p.current != p.defaultCave {
			replay := cave.NewReplay()
			replay.Saved = true
			replay.Success = true // a shipped demo is assumed successful
			replay.PlayerName = "???"
			p.current.Replays = append(p.current.Replays, replay)
		} else {
			p.log.Warn("[demo] section must be in [cave] section!")
		}
	case strings.EqualFold(line, "[/demo]"):
		p.readingDemo = false

	case strings.EqualFold(line, "[replay]"):
		p.readingReplay = true
	case strings.EqualFold(line, "[/replay]"):
		p.readingReplay = false
		p.finishReplay()

	case len(line) > len("[level=") && strings.EqualFold(line[:len("[level=")], "[level="):
		p.processLevelSection(line)

	case strings.EqualFold(line, "[/level]"):
		p.levels = cave.LevelAll

	case strings.EqualFold(line, "[game]"), strings.EqualFold(line, "[/game]"),
		strings.EqualFold(line, "[BDCFF]"), strings.EqualFold(line, "[/BDCFF]"):
		// nothing to do

	default:
		p.log.Warn("unknown section: \"%s\"", line)
	}
}

// processLevelSection parses a [level=1,2,...] wrapper into the level mask
// applied to subsequent objects.
func (p *parser) processLevelSection(line string) {
	nums := strings.TrimSuffix(line[len("[level="):], "]")
	p.levels = 0
	any := false
	for _, tok := range strings.Split(nums, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil {
			continue
		}
		any = true
		if n >= 1 && n <= cave.Levels {
			p.levels |= cave.LevelMask(n)
		} else {
			p.log.Warn("invalid level number %d", n)
		}
	}
	if !any {
		p.log.Warn("invalid Levels tag: %s", line)
		p.levels = cave.LevelAll
	}
}

// finishReplay builds a replay from the accumulated [replay] tags.
func (p *parser) finishReplay() {
	replay := cave.NewReplay()
	replay.Saved = true // will be written when the caveset is saved again
	for _, k := range p.replayTags.sortedKeys() {
		e := p.replayTags[k]
		if strings.EqualFold(e.key, "Movements") {
			for _, token := range strings.Fields(e.value) {
				replay.StoreMovementsFromBDCFF(token)
			}
			continue
		}
		if !SetProperty(replay, ReplayProps, e.key, e.value, 0, p.log) {
			p.log.Warn("unknown replay tag '%s'", e.key)
		}
	}
	p.replayTags = tagMap{}

	switch {
	case replay.Len() == 0:
		p.log.Warn("no movements in replay!")
	case p.current == p.defaultCave:
		p.log.Warn("[replay] section must be in [cave] section!")
	default:
		p.current.Replays = append(p.current.Replays, replay)
	}
}

// processHighscoreLine parses a "score name" line of a [highscore] section.
func (p *parser) processHighscoreLine(line string) {
	scoreStr, name, found := strings.Cut(line, " ")
	score, err := strconv.Atoi(scoreStr)
	if !found || err != nil {
		p.log.Warn("highscore format incorrect")
		return
	}
	if p.current == p.defaultCave {
		p.set.Highscore.Add(name, score)
	} else {
		p.current.Highscore.Add(name, score)
	}
}

// processPair handles one attrib=param line.
func (p *parser) processPair(attrib, param string) {
	switch {
	case p.readingReplay:
		p.replayTags.put(attrib, param)

	case p.readingMapcodes:
		if attrib == "" {
			p.log.Warn("map code line without a character")
			return
		}
		if strings.EqualFold(attrib, "Length") {
			if param != "1" {
				p.log.Warn("only one-character map codes are supported")
			}
			return
		}
		e, ok := cavecore.ElementByName(param)
		if !ok {
			p.log.Warn("unknown element name '%s' for map code '%s'", param, attrib)
			return
		}
		p.charToElem.Set(attrib[0], e)

	case strings.EqualFold(attrib, "Version"):
		p.versionRead = param
		p.set.Version = param

	case strings.EqualFold(attrib, "Caves"), strings.EqualFold(attrib, "Levels"):
		// some files state their cave and level counts; ignored

	case strings.EqualFold(attrib, "CaveSize"):
		if !parseSizeSpec(param, &p.caveSize) {
			p.setCaveSizeDefaults()
			p.log.Warn("invalid CaveSize tag: %s", param)
		}

	case strings.EqualFold(attrib, "IntermissionSize"):
		if !parseSizeSpec(param, &p.intermissionSize) {
			p.setIntermissionSizeDefaults()
			p.log.Warn("invalid IntermissionSize tag: '%s'", param)
		}

	case strings.EqualFold(attrib, "Effect"):
		p.processEffect(param)

	default:
		if p.current == p.defaultCave {
			// reading the [game] section
			switch {
			case HasProperty(CaveSetProps, attrib):
				SetProperty(p.set, CaveSetProps, attrib, param, 0, p.log)
			case attribValidForCave(attrib):
				// a default setting, to be applied to every cave
				p.tags.put(attrib, param)
			default:
				p.log.Warn("invalid attribute for [game] '%s'", attrib)
			}
		} else {
			// cave attributes are collected and processed at [/cave];
			// unknown ones are remembered and saved again
			p.tags.put(attrib, param)
		}
	}
}

// parseSizeSpec parses a CaveSize / IntermissionSize value: two or six
// integers; the two-number form sets the visible window to the full canvas.
func parseSizeSpec(param string, size *[6]int) bool {
	fields := strings.Fields(param)
	if len(fields) != 2 && len(fields) != 6 {
		return false
	}
	var vals [6]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return false
		}
		vals[i] = n
	}
	if len(fields) == 2 {
		vals[2], vals[3] = 0, 0
		vals[4], vals[5] = vals[0]-1, vals[1]-1
	}
	*size = vals
	return true
}

// attribValidForCave reports whether the attribute may appear as a [game]
// level default for caves.
func attribValidForCave(attrib string) bool {
	for _, compat := range []string{"Engine", "BD1Scheduling", "SnapExplosions", "AmoebaProperties"} {
		if strings.EqualFold(attrib, compat) {
			return true
		}
	}
	return HasProperty(CaveProps, attrib)
}

// processEffect handles an Effect=name element line on the current cave.
func (p *parser) processEffect(param string) {
	fields := strings.Fields(param)
	if len(fields) != 2 {
		p.log.Warn("invalid effect specification '%s'", param)
		return
	}
	name := fields[0]
	if canonical, ok := effectAliases[strings.ToUpper(name)]; ok {
		name = canonical
	}
	for i := range CaveProps {
		if CaveProps[i].Type == TypeEffect && strings.EqualFold(CaveProps[i].Identifier, name) {
			SetProperty(p.current, CaveProps, name, fields[1], 0, p.log)
			return
		}
	}
	// one more converter compatibility case, then give up
	if strings.EqualFold(name, "HEXPANDING_WALL") && strings.EqualFold(fields[1], "STEEL_HEXPANDING_WALL") {
		p.current.ExpandingWallLooksLike = cavecore.ElemSteel
		return
	}
	p.log.Warn("invalid effect name '%s'", fields[0])
}

// processCaveTag applies one known attribute to a cave, handling the
// compatibility attributes that need more than the property table.
// It reports whether the attribute was recognized.
func (p *parser) processCaveTag(c *cave.CaveStored, attrib, param string) bool {
	switch {
	case strings.EqualFold(attrib, "SnapExplosions"):
		if b, ok := parseBool(param); ok {
			if b {
				c.SnapElement = cavecore.ElemExplode1
			} else {
				c.SnapElement = cavecore.ElemSpace
			}
		} else {
			p.log.Warn("invalid param for '%s': '%s'", attrib, param)
		}
		return true

	case strings.EqualFold(attrib, "BD1Scheduling"):
		if b, _ := parseBool(param); b {
			if c.Scheduling == cavecore.SchedulingPLCK {
				c.Scheduling = cavecore.SchedulingBD1
			}
		}
		return true

	case strings.EqualFold(attrib, "Engine"):
		engine := cavecore.EngineByName(param)
		if engine == cavecore.EngineInvalid {
			p.log.Warn("invalid parameter \"%s\" for attribute Engine", param)
		} else {
			c.SetEngineDefaults(engine)
		}
		return true

	case strings.EqualFold(attrib, "AmoebaProperties"):
		fields := strings.Fields(param)
		if len(fields) != 2 {
			p.log.Warn("invalid AmoebaProperties: '%s'", param)
			return true
		}
		if e, ok := cavecore.ElementByName(fields[0]); ok {
			c.AmoebaTooBigEffect = e
		}
		if e, ok := cavecore.ElementByName(fields[1]); ok {
			c.AmoebaEnclosedEffect = e
		}
		return true

	case strings.EqualFold(attrib, "Colors"):
		p.processColors(c, param)
		return true
	}

	return SetProperty(c, CaveProps, attrib, param, c.W*c.H, p.log)
}

// processColors parses the Colors= attribute: three, five or seven color
// names. Missing border and background default to black; missing amoeba and
// slime colors default to foreground 3 and 1.
func (p *parser) processColors(c *cave.CaveStored, param string) {
	fields := strings.Fields(param)
	ok := true

	switch len(fields) {
	case 3:
		c.ColorB = cavecore.C64Color(0)
		c.Color0 = cavecore.C64Color(0)
		c.Color1 = cavecore.ColorByName(fields[0])
		c.Color2 = cavecore.ColorByName(fields[1])
		c.Color3 = cavecore.ColorByName(fields[2])
		c.Color4 = c.Color3
		c.Color5 = c.Color1
	case 5:
		c.ColorB = cavecore.ColorByName(fields[0])
		c.Color0 = cavecore.ColorByName(fields[1])
		c.Color1 = cavecore.ColorByName(fields[2])
		c.Color2 = cavecore.ColorByName(fields[3])
		c.Color3 = cavecore.ColorByName(fields[4])
		c.Color4 = c.Color3
		c.Color5 = c.Color1
	case 7:
		c.ColorB = cavecore.ColorByName(fields[0])
		c.Color0 = cavecore.ColorByName(fields[1])
		c.Color1 = cavecore.ColorByName(fields[2])
		c.Color2 = cavecore.ColorByName(fields[3])
		c.Color3 = cavecore.ColorByName(fields[4])
		c.Color4 = cavecore.ColorByName(fields[5])
		c.Color5 = cavecore.ColorByName(fields[6])
	default:
		p.log.Warn("invalid number of color strings: %s", param)
		ok = false
	}

	if !ok || c.ColorB.IsUnknown() || c.Color0.IsUnknown() || c.Color1.IsUnknown() ||
		c.Color2.IsUnknown() || c.Color3.IsUnknown() || c.Color4.IsUnknown() || c.Color5.IsUnknown() {
		p.log.Warn("created a new C64 color scheme")
		c.SetRandomC64Colors(rand.Intn)
	}
}

// processCaveTags applies the collected attributes to a cave, in the order
// the format requires: name for context, engine first so later attributes
// override its defaults, intermission to pick the size defaults, size
// before any ratio-typed attribute, then the rest.
func (p *parser) processCaveTags(c *cave.CaveStored, mapLines []string) {
	if name, ok := p.tags.get("Name"); ok {
		p.processCaveTag(c, "Name", name)
	}
	if c.Name == "" {
		p.log.SetContext("<unnamed cave>")
	} else {
		p.log.SetContext("Cave '%s'", c.Name)
	}

	if v, ok := p.tags.get("Engine"); ok {
		p.processCaveTag(c, "Engine", v)
		p.tags.remove("Engine")
	}

	if v, ok := p.tags.get("Intermission"); ok {
		p.processCaveTag(c, "Intermission", v)
		p.tags.remove("Intermission")
	}
	size := p.caveSize
	if c.Intermission {
		size = p.intermissionSize
	}
	c.W, c.H = size[0], size[1]
	c.X1, c.Y1, c.X2, c.Y2 = size[2], size[3], size[4], size[5]

	if v, ok := p.tags.get("Size"); ok {
		p.processCaveTag(c, "Size", v)
		p.tags.remove("Size")
	}

	// implicit meanings; the values themselves are processed below
	if _, ok := p.tags.get("SlimePermeability"); ok {
		c.SlimePredictable = false
	}
	if _, ok := p.tags.get("SlimePermeabilityC64"); ok {
		c.SlimePredictable = true
	}
	if _, ok := p.tags.get("CaveDelay"); ok {
		// only switch when still the default, so a [game] level
		// CaveScheduling= line is not overwritten
		if c.Scheduling == cavecore.SchedulingMilliseconds {
			c.Scheduling = cavecore.SchedulingPLCK
		}
	}
	if _, ok := p.tags.get("FrameTime"); ok {
		// an explicit frame time always means milliseconds scheduling
		c.Scheduling = cavecore.SchedulingMilliseconds
	}

	for _, k := range p.tags.sortedKeys() {
		e := p.tags[k]
		if p.processCaveTag(c, e.key, e.value) {
			p.tags.remove(k)
		}
	}

	// the visible window must stay inside the canvas; a two-number Size=
	// line keeps the previous window, which may be too large
	if c.X2 >= c.W {
		c.X2 = c.W - 1
	}
	if c.Y2 >= c.H {
		c.Y2 = c.H - 1
	}
	if c.X1 < 0 || c.X1 > c.X2 {
		c.X1 = 0
	}
	if c.Y1 < 0 || c.Y1 > c.Y2 {
		c.Y1 = 0
	}

	if mapLines != nil {
		p.processMap(c, mapLines)
	}
}

// processMap builds the cave map from the raw [map] lines. The map is
// pre-filled with the initial border, so short rows and few rows pad with
// it. Visible-window-sized maps are accepted without warning.
func (p *parser) processMap(c *cave.CaveStored, mapLines []string) {
	c.Map.SetSize(c.W, c.H, c.InitialBorder)

	if len(mapLines) != c.H && len(mapLines) != c.Y2-c.Y1+1 {
		p.log.Warn("map error: cave height=%d (%d visible), map height=%d", c.H, c.Y2-c.Y1+1, len(mapLines))
	}
	for y, line := range mapLines {
		if y >= c.H {
			break
		}
		if len(line) != c.W && len(line) != c.X2-c.X1+1 {
			p.log.Warn("map error in row %d: cave width=%d (%d visible), map width=%d", y, c.W, c.X2-c.X1+1, len(line))
		}
		for x := 0; x < c.W && x < len(line); x++ {
			c.Map.Set(x, y, p.charToElem.Get(line[x]))
		}
	}
}

// finish runs the post-load passes: pending map lines, [game] section
// checks, the pre-0.5 intermission size hack, version check, replay
// verification.
func (p *parser) finish() {
	p.log.ClearContext()

	if p.mapLines != nil {
		p.log.Warn("incorrect file format: end of file, but still have some map lines read")
		p.mapLines = nil
	}
	if p.defaultCave.HasMap() {
		p.log.Warn("invalid BDCFF: [game] section has a map")
	}
	if len(p.defaultCave.Objects) > 0 {
		p.log.Warn("invalid BDCFF: [game] section has drawing objects defined")
	}

	// Pre-0.5 files omit cave sizes: intermissions were authored as the
	// 20x12 upper left corner of a 40x22 canvas. Random fill depends on
	// full canvas coordinates, so the cave is widened back and the
	// occluded region is covered with the initial border.
	if p.versionRead == "0.32" {
		p.log.Warn("no BDCFF version, or 0.32; using unspecified-intermission-size hack")
		for _, c := range p.set.Caves {
			if !c.Intermission || c.HasMap() {
				continue
			}
			c.W, c.H = 40, 22
			c.X1, c.Y1, c.X2, c.Y2 = 0, 0, 19, 11

			cover := func(x1, y1 int) *cave.Object {
				return &cave.Object{
					Kind:        cave.ObjectFilledRectangle,
					Levels:      cave.LevelAll,
					X1:          x1,
					Y1:          y1,
					X2:          39,
					Y2:          21,
					Element:     c.InitialBorder,
					FillElement: c.InitialBorder,
				}
			}
			// 11 and 19, because those rows and columns are also the border
			c.Objects = append([]*cave.Object{cover(0, 11), cover(19, 0)}, c.Objects...)
		}
	}

	if p.versionRead != Version {
		p.log.Warn("BDCFF version %s, loaded caveset may have errors", p.versionRead)
	}

	for _, c := range p.set.Caves {
		for _, bad := range cave.CheckReplays(c, false) {
			p.log.Warn("cave '%s': replay by '%s' does not match the cave (checksum error)", c.Name, bad.PlayerName)
		}
	}
}
