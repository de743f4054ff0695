// cmd/spells/main.go
//
// Entry point for the spells CLI.
//
//	spells init        create .spells/ with a default config.yaml
//	spells serve       run the HTTP endpoint the voice platform posts to
//	spells console     talk to the skill from the terminal
//	spells catalog     list the spells the skill knows
//	spells transcript  show the end of the console transcript

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kingrea/spells-for-muggle/internal/config"
	"github.com/kingrea/spells-for-muggle/internal/logging"
	"github.com/kingrea/spells-for-muggle/internal/skill"
	"github.com/kingrea/spells-for-muggle/internal/spell"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// projectDir selects the directory holding .spells/
	projectDir string
)

var rootCmd = &cobra.Command{
	Use:   "spells",
	Short: "Spells for Muggle voice skill",
	Long: `Spells for Muggle teaches spells from a fixed catalog, answers
"which spell does this?" questions and runs a two-turn spell quiz.

Use "spells serve" to host the skill endpoint and "spells console" to try
conversations from the terminal.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", "", "Project directory holding .spells/ (default: current)")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(transcriptCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func resolveProjectDir() (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

func loadConfig() (*config.Config, error) {
	dir, err := resolveProjectDir()
	if err != nil {
		return nil, err
	}
	return config.Load(dir)
}

// loadCatalog uses the configured roster file, or the built-in roster.
func loadCatalog(cfg *config.Config) (*spell.Catalog, error) {
	if path := cfg.CatalogFile(); path != "" {
		return spell.LoadCatalogFile(path)
	}
	return spell.Default(), nil
}

func buildSkill(cfg *config.Config, logger *logging.Logger) (*skill.Skill, error) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog loaded", "spells", catalog.Len(), "file", cfg.CatalogFile())
	return skill.New(catalog,
		skill.WithLogger(logger),
		skill.WithApplicationIDs(cfg.ApplicationIDs()...),
	), nil
}
