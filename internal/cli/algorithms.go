package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/config"
)

// algorithmsCommand creates the algorithms command listing the catalog.
func (c *CLI) algorithmsCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "algorithms",
		Aliases: []string{"algos", "ls"},
		Short:   "List the algorithms that can be played",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON {
				return writeAlgorithmsJSON(cmd.OutOrStdout(), c.cfg)
			}
			fmt.Fprintln(cmd.OutOrStdout(), algorithmsTable(c.cfg))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")

	return cmd
}

// interval returns the effective tick interval for a, honoring config
// overrides.
func interval(cfg config.Config, a algo.Algorithm) string {
	if d := cfg.Interval(a.Name); d > 0 {
		return d.String()
	}
	return a.Interval.String()
}

func algorithmsTable(cfg config.Config) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("NAME", "TITLE", "FAMILY", "INPUT", "INTERVAL").
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return headerStyle.Padding(0, 1)
			case col == 0:
				return base.Foreground(colorCyan)
			case col == 4:
				return base.Foreground(colorGray)
			}
			return base
		})

	for _, a := range algo.All() {
		t.Row(a.Name, a.Title, string(a.Family), string(a.Kind), interval(cfg, a))
	}
	return t.Render()
}

type algorithmEntry struct {
	algo.Algorithm
	IntervalMS int64 `json:"interval_ms"`
}

func writeAlgorithmsJSON(w io.Writer, cfg config.Config) error {
	all := algo.All()
	out := make([]algorithmEntry, len(all))
	for i, a := range all {
		d := cfg.Interval(a.Name)
		if d <= 0 {
			d = a.Interval
		}
		out[i] = algorithmEntry{Algorithm: a, IntervalMS: d.Milliseconds()}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
