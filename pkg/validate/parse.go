package validate

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/matzehuels/algotrace/pkg/errors"
)

// entry is one declared node with its raw references, before any
// cross-reference or weight checks.
type entry struct {
	id   string
	refs []ref
}

// ref is a neighbor or child reference. weight holds the unparsed weight for
// weighted graphs. An empty id marks an absent tree child.
type ref struct {
	id     string
	weight string
}

// parseNumbers parses a comma or space separated list of numbers. name is
// used in error messages ("array", "list", "coins").
func parseNumbers(name, text string) ([]float64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "[")
	text = strings.TrimSuffix(text, "]")

	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	out := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		n, err := strconv.ParseFloat(tok, 64)
		if err != nil || !finite(n) {
			return nil, errors.New(errors.ErrCodeInvalidNumber, "%s value %q is not a number", name, tok).WithField(tok)
		}
		out = append(out, n)
	}
	return out, nil
}

// parseNumber parses a single numeric parameter.
func parseNumber(name, text string) (float64, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.ParseFloat(text, 64)
	if err != nil || !finite(n) {
		return 0, errors.New(errors.ErrCodeInvalidNumber, "%s %q is not a number", name, text).WithField(name)
	}
	return n, nil
}

// finite reports whether n is neither NaN nor an infinity.
func finite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}

// parseInt parses a single integer parameter.
func parseInt(name, text string) (int, error) {
	text = strings.TrimSpace(text)
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidNumber, "%s %q is not a whole number", name, text).WithField(name)
	}
	return n, nil
}

// parseEntries reads a graph or tree declaration in either JSON or line form.
// weighted controls how "B:4" references are split.
func parseEntries(text string, weighted bool) ([]entry, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "{") {
		return parseJSONEntries(text, weighted)
	}
	return parseLineEntries(text, weighted)
}

func parseLineEntries(text string, weighted bool) ([]entry, error) {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == ';' })

	var out []entry
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		id, rest, _ := strings.Cut(line, ":")
		e := entry{id: strings.TrimSpace(id)}

		rest = strings.TrimSpace(rest)
		if rest != "" {
			for _, tok := range strings.Split(rest, ",") {
				tok = strings.TrimSpace(tok)
				r := ref{id: tok}
				if weighted {
					if to, w, ok := strings.Cut(tok, ":"); ok {
						r = ref{id: strings.TrimSpace(to), weight: strings.TrimSpace(w)}
					}
				}
				e.refs = append(e.refs, r)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func parseJSONEntries(text string, weighted bool) ([]entry, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New(errors.ErrCodeInvalidInput, "adjacency must be a JSON object")
	}

	var out []entry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed adjacency JSON")
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed adjacency for node %q", key)
		}

		refs, err := parseJSONRefs(key, raw, weighted)
		if err != nil {
			return nil, err
		}
		out = append(out, entry{id: key, refs: refs})
	}

	if tok, err := dec.Token(); err != nil || tok != json.Delim('}') {
		return nil, errors.New(errors.ErrCodeInvalidInput, "malformed adjacency JSON: object is not closed")
	}
	return out, nil
}

func parseJSONRefs(node string, raw json.RawMessage, weighted bool) ([]ref, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		return nil, nil

	case raw[0] == '[':
		var items []any
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		if err := dec.Decode(&items); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "neighbors of %q must be a list", node)
		}
		refs := make([]ref, 0, len(items))
		for _, it := range items {
			r := ref{id: jsonScalar(it)}
			if weighted {
				if to, w, ok := strings.Cut(r.id, ":"); ok {
					r = ref{id: strings.TrimSpace(to), weight: strings.TrimSpace(w)}
				}
			}
			refs = append(refs, r)
		}
		return refs, nil

	case raw[0] == '{':
		if !weighted {
			return nil, errors.New(errors.ErrCodeInvalidInput, "neighbors of %q must be a list", node).WithField(node)
		}
		return parseJSONWeights(node, raw)
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "neighbors of %q must be a list", node).WithField(node)
}

// parseJSONWeights reads an object of identifier to number pairs, keeping
// key order and leaving the values unparsed.
func parseJSONWeights(node string, raw json.RawMessage) ([]ref, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil, errors.New(errors.ErrCodeInvalidInput, "weights of %q must be an object", node).WithField(node)
	}

	var refs []ref
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed weights for node %q", node)
		}
		key, _ := tok.(string)

		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed weights for node %q", node)
		}
		refs = append(refs, ref{id: strings.TrimSpace(key), weight: jsonScalar(v)})
	}
	return refs, nil
}

// jsonScalar renders a decoded JSON scalar as an identifier. Null becomes "".
func jsonScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return ""
}

// absent reports whether a tree child slot is empty.
func absent(id string) bool {
	switch strings.ToLower(id) {
	case "", "-", "null", "nil", "none", "_":
		return true
	}
	return false
}

// parseHeuristic reads per-node heuristic estimates as "A:7, B:3", "A=7" or
// a JSON object.
func parseHeuristic(text string) ([]ref, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if strings.HasPrefix(text, "{") {
		return parseJSONWeights("heuristic", json.RawMessage(text))
	}

	var out []ref
	for _, tok := range strings.Split(text, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, h, ok := strings.Cut(tok, ":")
		if !ok {
			id, h, _ = strings.Cut(tok, "=")
		}
		out = append(out, ref{id: strings.TrimSpace(id), weight: strings.TrimSpace(h)})
	}
	return out, nil
}
