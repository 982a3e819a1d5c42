// This file contains the info and replays commands.

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/icza/gox/gox"
	"github.com/spf13/cobra"

	"github.com/gdash/gdash/bdcff"
	"github.com/gdash/gdash/cave"
)

// caveInfo is the JSON shape of one cave in the info output.
type caveInfo struct {
	Name             string
	Author           string `json:",omitempty"`
	Size             string
	Intermission     bool
	DiamondsRequired [cave.Levels]int
	CaveTime         [cave.Levels]int
	HasMap           bool
	Objects          int
	Replays          int
	Highscores       int
}

// setInfo is the JSON shape of the info output.
type setInfo struct {
	Name           string
	Author         string `json:",omitempty"`
	Date           string `json:",omitempty"`
	InitialLives   int
	MaximumLives   int
	BonusLifeScore int
	Caves          []caveInfo
}

var infoIndent bool

var infoCmd = &cobra.Command{
	Use:   "info file.bd",
	Short: "print caveset information as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadCaveSet(args[0])
		if err != nil {
			return err
		}

		out := setInfo{
			Name:           set.Name,
			Author:         set.Author,
			Date:           set.Date,
			InitialLives:   set.InitialLives,
			MaximumLives:   set.MaximumLives,
			BonusLifeScore: set.BonusLifeScore,
		}
		for _, c := range set.Caves {
			out.Caves = append(out.Caves, caveInfo{
				Name:             c.Name,
				Author:           c.Author,
				Size:             fmt.Sprint(c.W, "x", c.H),
				Intermission:     c.Intermission,
				DiamondsRequired: c.DiamondsRequired,
				CaveTime:         c.CaveTime,
				HasMap:           c.HasMap(),
				Objects:          len(c.Objects),
				Replays:          len(c.Replays),
				Highscores:       len(c.Highscore.Entries()),
			})
		}

		enc := json.NewEncoder(os.Stdout)
		if infoIndent {
			enc.SetIndent("", "  ")
		}
		return enc.Encode(out)
	},
}

var replaysCmd = &cobra.Command{
	Use:   "replays file.bd",
	Short: "list the replays of a caveset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadCaveSet(args[0])
		if err != nil {
			return err
		}

		for _, c := range set.Caves {
			for _, r := range c.Replays {
				fmt.Printf("%-24s level %d  %-7s  score %-6d  %d moves  %s\n",
					c.Name, r.Level,
					gox.If(r.Success).String("success", "failed"),
					r.Score, r.Len(),
					gox.If(r.PlayerName != "").String(r.PlayerName, "???"))
			}
		}
		return nil
	},
}

// loadCaveSet loads a caveset file, printing accumulated warnings unless
// quieted.
func loadCaveSet(name string) (*cave.CaveSet, error) {
	logger := &bdcff.Logger{}
	set, err := bdcff.LoadFile(resolveCaveFile(name), logger)
	if err != nil {
		return nil, err
	}
	if !quiet {
		for _, m := range logger.Messages() {
			log.Print(m)
		}
	}
	return set, nil
}

func init() {
	infoCmd.Flags().BoolVar(&infoIndent, "indent", true, "use indentation when formatting output")
	rootCmd.AddCommand(infoCmd, replaysCmd)
}
