package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/trace"
	"github.com/matzehuels/algotrace/pkg/validate"
)

// inputFlags binds the instance flags shared by play, validate and layout.
type inputFlags struct {
	file string
	in   validate.Input
}

type inputField struct {
	name  string
	usage string
	value *string
}

func (f *inputFlags) fields() []inputField {
	in := &f.in
	return []inputField{
		{"array", "array elements, e.g. \"5, 3, 8\"", &in.Array},
		{"target", "search target value", &in.Target},
		{"graph", "adjacency list, e.g. \"A: B, C\\nB: C\" or a JSON object", &in.Graph},
		{"root", "traversal root node", &in.Root},
		{"start", "path start node", &in.Start},
		{"end", "path end node", &in.End},
		{"heuristic", "A* heuristic, e.g. \"A: 4, B: 2\"", &in.Heuristic},
		{"tree", "binary tree, e.g. \"A: B, C\"", &in.Tree},
		{"list", "initial list, stack or queue contents", &in.List},
		{"values", "values to insert", &in.Values},
		{"value", "single value to insert or search", &in.Value},
		{"index", "position for indexed list operations", &in.Index},
		{"count", "number of pops or dequeues", &in.Count},
		{"n", "problem size for fibonacci", &in.N},
		{"coins", "coin denominations", &in.Coins},
		{"amount", "coin change target amount", &in.Amount},
	}
}

// register adds the instance flags to cmd.
func (f *inputFlags) register(cmd *cobra.Command) {
	for _, field := range f.fields() {
		cmd.Flags().StringVar(field.value, field.name, "", field.usage)
	}
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "read the instance from a JSON, YAML or TOML file")
}

// resolve returns the instance input. Fields read from --file are
// overridden by flags given explicitly on the command line.
func (f *inputFlags) resolve(cmd *cobra.Command) (validate.Input, error) {
	if f.file == "" {
		return f.in, nil
	}
	doc, err := readInputFile(f.file)
	if err != nil {
		return validate.Input{}, err
	}

	merged := inputFlags{}
	for _, field := range merged.fields() {
		if v, ok := doc[field.name]; ok {
			*field.value = v
		}
	}
	for i, field := range f.fields() {
		if cmd.Flags().Changed(field.name) {
			*merged.fields()[i].value = *field.value
		}
	}
	return merged.in, nil
}

// readInputFile decodes a document into flag-style strings. Lists become
// "[1, 2]" and objects become JSON, both of which the validators accept.
func readInputFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}

	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		_, err = toml.Decode(string(data), &raw)
	default:
		return nil, errors.New(errors.ErrCodeInvalidParameter, "unsupported input file type %q (use .json, .yaml or .toml)", ext).
			WithField("file")
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", path)
	}

	known := map[string]bool{}
	for _, field := range (&inputFlags{}).fields() {
		known[field.name] = true
	}

	var unknown []string
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		if !known[k] {
			unknown = append(unknown, k)
			continue
		}
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = trace.Format(v)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown input fields in %s: %s", path, strings.Join(unknown, ", ")).
			WithField(unknown[0])
	}
	return out, nil
}
