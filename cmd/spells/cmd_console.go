package main

import (
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/spells-for-muggle/internal/config"
	"github.com/kingrea/spells-for-muggle/internal/eventbridge"
	"github.com/kingrea/spells-for-muggle/internal/logbook"
	"github.com/kingrea/spells-for-muggle/internal/logging"
	"github.com/kingrea/spells-for-muggle/internal/tui"
)

var (
	consoleRemote string
	consoleAppID  string
)

const (
	consoleLogName    = "console.log"
	transcriptLogName = "transcript.log"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Talk to the skill from the terminal",
	Long: `Opens a terminal console that plays the voice platform: pick an intent,
type the slot value, and read the response. Session attributes carry over
between turns and every line is kept in .spells/logs/transcript.log. With
--remote the turns go to a running "spells serve".`,
	Args: cobra.NoArgs,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().StringVar(&consoleRemote, "remote", "", "Send turns to a running bridge, e.g. http://127.0.0.1:8765")
	consoleCmd.Flags().StringVar(&consoleAppID, "app-id", "", "Application id stamped on every event (default: first configured id)")
}

// consoleLogPath keeps logs off the terminal the console draws on.
func consoleLogPath(cfg *config.Config) string {
	if path := cfg.LogFile(); path != "" {
		return path
	}
	return filepath.Join(cfg.LogsDir(), consoleLogName)
}

func transcriptPath(cfg *config.Config) string {
	return filepath.Join(cfg.LogsDir(), transcriptLogName)
}

func runConsole(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{Mode: cfg.LogMode(), File: consoleLogPath(cfg)})
	if err != nil {
		return err
	}
	defer logger.Close()

	appID := consoleAppID
	if appID == "" && len(cfg.ApplicationIDs()) > 0 {
		appID = cfg.ApplicationIDs()[0]
	}

	var (
		invoker tui.Invoker
		target  string
	)
	if consoleRemote != "" {
		client := eventbridge.NewClient(consoleRemote)
		if _, err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("reach bridge %s: %w", consoleRemote, err)
		}
		invoker, target = client, client.BaseURL()
	} else {
		sk, err := buildSkill(cfg, logger)
		if err != nil {
			return err
		}
		invoker, target = sk, "local"
	}

	book, err := logbook.New(transcriptPath(cfg))
	if err != nil {
		return err
	}

	app := tui.NewApp(invoker,
		tui.WithLogger(logger.With("component", "console")),
		tui.WithRecorder(book),
		tui.WithApplicationID(appID),
		tui.WithContext(cmd.Context()),
		tui.WithTarget(target),
	)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}
