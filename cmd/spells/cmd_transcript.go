package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/spells-for-muggle/internal/logbook"
)

var transcriptLines int

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Show the end of the console transcript",
	Args:  cobra.NoArgs,
	RunE:  runTranscript,
}

func init() {
	transcriptCmd.Flags().IntVarP(&transcriptLines, "lines", "n", 20, "Number of lines to show")
}

func runTranscript(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	book, err := logbook.New(transcriptPath(cfg))
	if err != nil {
		return err
	}
	lines, err := book.Tail(transcriptLines)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(lines) == 0 {
		fmt.Fprintf(out, "No transcript yet at %s\n", book.Path())
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
