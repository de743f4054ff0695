package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/spells-for-muggle/internal/config"
	"github.com/kingrea/spells-for-muggle/internal/spell"
)

var initWithRoster bool

const rosterFileName = "roster.yaml"

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .spells/ with a default config.yaml",
	Long: `Creates .spells/config.yaml and .spells/logs/ in the project directory.
Existing files are left alone. With --roster the built-in spells are also
written to .spells/roster.yaml so they can be edited and set as catalog_file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initWithRoster, "roster", false, "Also write the built-in roster to .spells/roster.yaml")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveProjectDir()
	if err != nil {
		return err
	}
	if err := config.InitDir(dir); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	spellsDir := filepath.Join(dir, config.SpellsDir)
	fmt.Fprintf(out, "Initialized %s\n", spellsDir)
	if !initWithRoster {
		return nil
	}
	path := filepath.Join(spellsDir, rosterFileName)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Kept existing %s\n", path)
		return nil
	}
	data, err := spell.MarshalRosterYAML(spell.DefaultRoster())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(out, "Wrote %s (set skill.catalog_file: %s to use it)\n", path, rosterFileName)
	return nil
}
