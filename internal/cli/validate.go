package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/validate"
)

// validateCommand creates the validate command.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		input   inputFlags
		payload bool
	)

	cmd := &cobra.Command{
		Use:   "validate <algorithm>",
		Short: "Check an instance and print it in normalized form",
		Long: `Validate the instance flags for an algorithm without contacting the
trace service. On success the normalized instance is printed as JSON; with
--payload the exact request body sent to the trace service is printed instead.`,
		Example: `  algotrace validate binary-search --array "1, 3, 5, 7" --target 5
  algotrace validate astar --graph "A: B:1; B:" --start A --end B --heuristic "A: 1, B: 0"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input.resolve(cmd)
			if err != nil {
				return err
			}
			return runValidate(cmd.OutOrStdout(), args[0], in, payload)
		},
	}

	input.register(cmd)
	cmd.Flags().BoolVar(&payload, "payload", false, "print the trace service request body")

	return cmd
}

func runValidate(w io.Writer, algorithm string, in validate.Input, payload bool) error {
	inst, err := validate.Validate(algorithm, in)
	if err != nil {
		if field := errors.GetField(err); field != "" {
			return fmt.Errorf("invalid %s input (%s): %w", algorithm, field, err)
		}
		return fmt.Errorf("invalid %s input: %w", algorithm, err)
	}

	var data []byte
	if payload {
		data, err = instance.Payload(inst)
	} else {
		data, err = json.MarshalIndent(inst, "", "  ")
	}
	if err != nil {
		return err
	}

	title := inst.Algorithm
	if a, err := algo.Lookup(inst.Algorithm); err == nil {
		title = a.Title
	}
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf("Valid %s instance (%d elements)", title, inst.Size()))
	fmt.Fprintln(w, string(data))
	return nil
}
