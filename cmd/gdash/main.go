/*
A CLI tool to inspect and convert Boulder Dash cavesets in the BDCFF
format: print caveset information, list replays, and rewrite files in the
current format version.
*/
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const (
	appName    = "gdash"
	appVersion = "v1.0.0"
)

// Settings is the optional YAML settings file of the tool.
type Settings struct {
	// PlayerName is used where a player name is needed.
	PlayerName string `yaml:"player_name"`

	// CaveDir is the directory relative file arguments are resolved in when
	// they are not found in the working directory.
	CaveDir string `yaml:"cave_dir"`
}

// loadSettings reads the settings file; a missing file yields defaults.
func loadSettings(path string) (*Settings, error) {
	s := &Settings{PlayerName: "player"}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return s, nil
}

// defaultSettingsPath returns the settings file location in the user's
// config directory.
func defaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "settings.yaml"
	}
	return filepath.Join(dir, "gdash", "settings.yaml")
}

var (
	settings     *Settings
	settingsPath string
	quiet        bool
)

var rootCmd = &cobra.Command{
	Use:     appName + " [command]",
	Short:   "inspect and convert BDCFF cavesets",
	Version: appVersion,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		settings, err = loadSettings(settingsPath)
		return err
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", defaultSettingsPath(), "settings file")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress load warnings")
}

// resolveCaveFile resolves a caveset file argument against the configured
// cave directory.
func resolveCaveFile(name string) string {
	if settings.CaveDir == "" || filepath.IsAbs(name) {
		return name
	}
	if _, err := os.Stat(name); err == nil {
		return name
	}
	return filepath.Join(settings.CaveDir, name)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
