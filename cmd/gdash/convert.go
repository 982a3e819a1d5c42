// This file contains the convert command: load any BDCFF file and write it
// back in the current format version.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gdash/gdash/bdcff"
)

var convertCmd = &cobra.Command{
	Use:   "convert in.bd out.bd",
	Short: "rewrite a caveset in the current BDCFF version",
	Long: "Load a caveset in any supported BDCFF version and save it in the\n" +
		"current format. Unknown cave attributes are carried over verbatim.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := loadCaveSet(args[0])
		if err != nil {
			return err
		}
		if err := bdcff.SaveFile(args[1], set); err != nil {
			return err
		}
		fmt.Printf("wrote %d cave(s) to %s\n", len(set.Caves), args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}
