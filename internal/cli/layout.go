package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algotrace/pkg/pipeline"
	"github.com/matzehuels/algotrace/pkg/render/nodelink"
)

// layoutCommand creates the layout command for exporting node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		input     inputFlags
		output    string
		format    string
		draw      nodelink.Options
		highlight string
	)

	cmd := &cobra.Command{
		Use:   "layout <algorithm>",
		Short: "Compute node positions for a graph or tree instance",
		Long: `Compute the layout used by the player for a graph or tree instance and
export it as JSON, a Graphviz DOT document or an SVG drawing.

Graphs are placed on a circle, binary trees are laid out level by level.
The format is taken from --format, then from the extension of --output,
and defaults to JSON.`,
		Example: `  algotrace layout dfs --graph "A: B, C; B: D; C:; D:" -o graph.svg
  algotrace layout inorder --tree "8: 3, 10; 3: 1, 6; 10:; 1:; 6:" --format dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input.resolve(cmd)
			if err != nil {
				return err
			}
			if highlight != "" {
				draw.Highlight = strings.Split(highlight, ",")
			}
			opts := pipeline.Options{Algorithm: args[0], Input: in, Logger: c.Logger}
			return c.runLayout(cmd.OutOrStdout(), opts, resolveFormat(format, output), output, draw)
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&format, "format", "", "output format: json, dot, svg")
	cmd.Flags().BoolVar(&draw.Detailed, "detailed", false, "label tree edges with L and R")
	cmd.Flags().StringVar(&highlight, "highlight", "", "comma-separated nodes to highlight")

	return cmd
}

// resolveFormat picks the explicit format, then the output extension.
func resolveFormat(format, output string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	if ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(output)), "."); ext != "" {
		return ext
	}
	return pipeline.FormatJSON
}

// runLayout validates the instance, computes the layout and writes output.
func (c *CLI) runLayout(w io.Writer, opts pipeline.Options, format, output string, draw nodelink.Options) error {
	if err := pipeline.ValidateFormat(format); err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	res, err := pipeline.NewRunner(nil, nil, c.Logger).Layout(opts)
	if err != nil {
		return err
	}

	data, err := pipeline.Render(res, format, draw)
	if err != nil {
		return err
	}

	if output == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Laid out %d nodes", len(res.Layout)))

	printSuccess("Layout complete")
	printFile(output)
	return nil
}
