// This file contains the property description tables of the cave, caveset
// and replay structures: every BDCFF attribute the codec recognizes.

package bdcff

// CaveProps describes the attributes of cave.CaveStored. Consecutive
// entries with the same identifier are parts of one attribute line.
// Order matters: it is the save order, and it drives the shared parameter
// cursor on load.
var CaveProps = []PropDesc{
	{Identifier: "Name", Type: TypeString, Field: "Name", Count: 1, Flags: AlwaysSave},
	{Identifier: "Description", Type: TypeString, Field: "Description", Count: 1},
	{Identifier: "Author", Type: TypeString, Field: "Author", Count: 1},
	{Identifier: "WWW", Type: TypeString, Field: "WWW", Count: 1},
	{Identifier: "Date", Type: TypeString, Field: "Date", Count: 1},
	{Identifier: "Story", Type: TypeLongString, Field: "Story", Count: 1},
	{Identifier: "Remark", Type: TypeLongString, Field: "Remark", Count: 1},
	{Identifier: "Charset", Type: TypeString, Field: "Charset", Count: 1},
	{Identifier: "Fontset", Type: TypeString, Field: "Fontset", Count: 1},

	{Identifier: "Size", Type: TypeInt, Field: "W", Count: 1, Flags: AlwaysSave},
	{Identifier: "Size", Type: TypeInt, Field: "H", Count: 1},
	{Identifier: "Size", Type: TypeInt, Field: "X1", Count: 1},
	{Identifier: "Size", Type: TypeInt, Field: "Y1", Count: 1},
	{Identifier: "Size", Type: TypeInt, Field: "X2", Count: 1},
	{Identifier: "Size", Type: TypeInt, Field: "Y2", Count: 1},

	{Identifier: "Intermission", Type: TypeBool, Field: "Intermission", Count: 1, Flags: AlwaysSave},
	{Identifier: "IntermissionProperties.instantlife", Type: TypeBool, Field: "IntermissionInstantLife", Count: 1},
	{Identifier: "IntermissionProperties.rewardlife", Type: TypeBool, Field: "IntermissionRewardLife", Count: 1},
	{Identifier: "Selectable", Type: TypeBool, Field: "Selectable", Count: 1},

	{Identifier: "DiamondValue", Type: TypeInt, Field: "DiamondValue", Count: 1, Flags: AlwaysSave},
	{Identifier: "DiamondValue", Type: TypeInt, Field: "ExtraDiamondValue", Count: 1},

	{Identifier: "DiamondsRequired", Type: TypeInt, Field: "DiamondsRequired", Count: 5, Flags: AlwaysSave},
	{Identifier: "CaveTime", Type: TypeInt, Field: "CaveTime", Count: 5, Flags: AlwaysSave},
	{Identifier: "TimeValue", Type: TypeInt, Field: "TimeValue", Count: 5},
	{Identifier: "CaveMaxTime", Type: TypeInt, Field: "CaveMaxTime", Count: 1},
	{Identifier: "CaveDelay", Type: TypeInt, Field: "CaveDelay", Count: 5},
	{Identifier: "FrameTime", Type: TypeInt, Field: "FrameTime", Count: 5},
	{Identifier: "RandSeed", Type: TypeInt, Field: "RandSeed", Count: 5},
	{Identifier: "CaveScheduling", Type: TypeScheduling, Field: "Scheduling", Count: 1, Flags: AlwaysSave},
	{Identifier: "PALTiming", Type: TypeBool, Field: "PALTiming", Count: 1},

	{Identifier: "InitialBorder", Type: TypeElement, Field: "InitialBorder", Count: 1},
	{Identifier: "InitialFill", Type: TypeElement, Field: "InitialFill", Count: 1},
	// interleaved element / probability pairs, consumed by the shared
	// parameter cursor
	{Identifier: "RandomFill", Type: TypeElement, Field: "RandomFill", Count: 1, Index: 0},
	{Identifier: "RandomFill", Type: TypeInt, Field: "RandomFillProbability", Count: 1, Index: 0},
	{Identifier: "RandomFill", Type: TypeElement, Field: "RandomFill", Count: 1, Index: 1},
	{Identifier: "RandomFill", Type: TypeInt, Field: "RandomFillProbability", Count: 1, Index: 1},
	{Identifier: "RandomFill", Type: TypeElement, Field: "RandomFill", Count: 1, Index: 2},
	{Identifier: "RandomFill", Type: TypeInt, Field: "RandomFillProbability", Count: 1, Index: 2},
	{Identifier: "RandomFill", Type: TypeElement, Field: "RandomFill", Count: 1, Index: 3},
	{Identifier: "RandomFill", Type: TypeInt, Field: "RandomFillProbability", Count: 1, Index: 3},

	// colors are parsed by the dedicated Colors= handler; this entry keeps
	// the identifier known and saves the seven colors in order
	{Identifier: "Colors", Type: TypeColor, Field: "ColorB", Count: 1},
	{Identifier: "Colors", Type: TypeColor, Field: "Color0", Count: 1},
	{Identifier: "Colors", Type: TypeColor, Field: "Color1", Count: 1},
	{Identifier: "Colors", Type: TypeColor, Field: "Color2", Count: 1},
	{Identifier: "Colors", Type: TypeColor, Field: "Color3", Count: 1},
	{Identifier: "Colors", Type: TypeColor, Field: "Color4", Count: 1},
	{Identifier: "Colors", Type: TypeColor, Field: "Color5", Count: 1},

	{Identifier: "SlimePermeability", Type: TypeProbability, Field: "SlimePermeability", Count: 1},
	{Identifier: "SlimePermeabilityC64", Type: TypeInt, Field: "SlimePermeabilityC64", Count: 1},
	{Identifier: "SlimePredictable", Type: TypeBool, Field: "SlimePredictable", Count: 1, Flags: DontSave},

	{Identifier: "AmoebaGrowthProb", Type: TypeProbability, Field: "AmoebaGrowthProb", Count: 1},
	{Identifier: "AmoebaGrowthProbFast", Type: TypeProbability, Field: "AmoebaFastGrowthProb", Count: 1},
	{Identifier: "AmoebaThreshold", Type: TypeRatio, Field: "AmoebaMaxFill", Count: 1},
	{Identifier: "AmoebaTime", Type: TypeInt, Field: "AmoebaTime", Count: 1},

	{Identifier: "MagicWallTime", Type: TypeInt, Field: "MagicWallTime", Count: 1},

	{Identifier: "Gravity", Type: TypeDirection, Field: "Gravity", Count: 1},
	{Identifier: "GravityChangeTime", Type: TypeInt, Field: "GravityChangeTime", Count: 1},

	{Identifier: "SnapEffect", Type: TypeElement, Field: "SnapElement", Count: 1},

	{Identifier: "EXPLOSION_EFFECT", Type: TypeEffect, Field: "ExplosionEffect", Count: 1},
	{Identifier: "STONE_BOUNCING_EFFECT", Type: TypeEffect, Field: "StoneBouncingEffect", Count: 1},
	{Identifier: "DIAMOND_FALLING_EFFECT", Type: TypeEffect, Field: "DiamondFallingEffect", Count: 1},
	{Identifier: "DIRT_LOOKS_LIKE", Type: TypeEffect, Field: "DirtLooksLike", Count: 1},
	{Identifier: "EXPANDING_WALL_LOOKS_LIKE", Type: TypeEffect, Field: "ExpandingWallLooksLike", Count: 1},
	{Identifier: "AMOEBA_TOO_BIG_EFFECT", Type: TypeEffect, Field: "AmoebaTooBigEffect", Count: 1},
	{Identifier: "AMOEBA_ENCLOSED_EFFECT", Type: TypeEffect, Field: "AmoebaEnclosedEffect", Count: 1},
}

// CaveSetProps describes the attributes of cave.CaveSet.
var CaveSetProps = []PropDesc{
	{Identifier: "Name", Type: TypeString, Field: "Name", Count: 1, Flags: AlwaysSave},
	{Identifier: "Description", Type: TypeString, Field: "Description", Count: 1},
	{Identifier: "Author", Type: TypeString, Field: "Author", Count: 1},
	{Identifier: "Difficulty", Type: TypeString, Field: "Difficulty", Count: 1},
	{Identifier: "WWW", Type: TypeString, Field: "WWW", Count: 1},
	{Identifier: "Date", Type: TypeString, Field: "Date", Count: 1},
	{Identifier: "Story", Type: TypeLongString, Field: "Story", Count: 1},
	{Identifier: "Remark", Type: TypeLongString, Field: "Remark", Count: 1},
	{Identifier: "TitleScreen", Type: TypeLongString, Field: "TitleScreen", Count: 1},
	{Identifier: "TitleScreenScroll", Type: TypeLongString, Field: "TitleScreenScroll", Count: 1},
	{Identifier: "Charset", Type: TypeString, Field: "Charset", Count: 1},
	{Identifier: "Fontset", Type: TypeString, Field: "Fontset", Count: 1},
	{Identifier: "Lives", Type: TypeInt, Field: "InitialLives", Count: 1},
	{Identifier: "Lives", Type: TypeInt, Field: "MaximumLives", Count: 1},
	{Identifier: "BonusLife", Type: TypeInt, Field: "BonusLifeScore", Count: 1},
}

// ReplayProps describes the attributes of cave.Replay. The Movements= line
// is handled by the codec, not by the table.
var ReplayProps = []PropDesc{
	{Identifier: "Level", Type: TypeInt, Field: "Level", Count: 1, Flags: AlwaysSave},
	{Identifier: "RandSeed", Type: TypeInt, Field: "Seed", Count: 1, Flags: AlwaysSave},
	{Identifier: "Checksum", Type: TypeInt, Field: "Checksum", Count: 1},
	{Identifier: "Player", Type: TypeString, Field: "PlayerName", Count: 1},
	{Identifier: "Date", Type: TypeString, Field: "Date", Count: 1},
	{Identifier: "RecordedWith", Type: TypeString, Field: "RecordedWith", Count: 1},
	{Identifier: "Comment", Type: TypeString, Field: "Comment", Count: 1},
	{Identifier: "Duration", Type: TypeString, Field: "Duration", Count: 1},
	{Identifier: "Score", Type: TypeInt, Field: "Score", Count: 1},
	{Identifier: "Success", Type: TypeBool, Field: "Success", Count: 1},
}

// effectAliases maps legacy effect attribute names to canonical effect
// identifiers, for compatibility with old converters.
var effectAliases = map[string]string{
	"BOUNCING_BOULDER":        "STONE_BOUNCING_EFFECT",
	"EXPLOSION3S":             "EXPLOSION_EFFECT",
	"STARTING_FALING_DIAMOND": "DIAMOND_FALLING_EFFECT",
	"DIRT":                    "DIRT_LOOKS_LIKE",
}
