package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kingrea/spells-for-muggle/internal/spell"
)

var catalogYAML bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the spells the skill knows",
	Long: `Prints the active catalog: the configured roster file, or the built-in
spells. With --yaml the catalog is printed in roster file format.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogYAML, "yaml", false, "Print the catalog as a roster YAML file")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	catalog, err := loadCatalog(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if catalogYAML {
		defs := make([]spell.Definition, 0, catalog.Len())
		for _, s := range catalog.All() {
			defs = append(defs, spell.Definition{
				Name:          s.Name,
				Description:   s.Description,
				Actions:       s.Actions,
				Pronunciation: s.Pronunciation,
			})
		}
		data, err := spell.MarshalRosterYAML(defs)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	fmt.Fprintln(out, renderCatalog(catalog.All()))
	return nil
}

func renderCatalog(spells []spell.Spell) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render(fmt.Sprintf("✦ %d SPELLS", len(spells)))
	name := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF")).Width(20)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	rows := []string{title}
	for _, s := range spells {
		actions := "none"
		if len(s.Actions) > 0 {
			actions = strings.Join(s.Actions, ", ")
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			name.Render(s.DisplayName()),
			lipgloss.JoinVertical(lipgloss.Left,
				s.Description,
				muted.Render("actions: "+actions+" · /"+s.Pronunciation+"/"),
			),
		))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(strings.Join(rows, "\n"))
}
