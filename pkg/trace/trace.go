package trace

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/matzehuels/algotrace/pkg/errors"
)

// Trace is the Snapshot Sequence for one problem instance.
type Trace struct {
	Algorithm string  `json:"algorithm"`
	Frames    []Frame `json:"frames"`
	Result    any     `json:"result,omitempty"`
}

// Len returns the number of frames.
func (t Trace) Len() int { return len(t.Frames) }

// Empty reports whether the trace has no observable steps.
func (t Trace) Empty() bool { return len(t.Frames) == 0 }

// At returns the frame at index i.
func (t Trace) At(i int) (Frame, bool) {
	if i < 0 || i >= len(t.Frames) {
		return nil, false
	}
	return t.Frames[i], true
}

// Decode parses a trace service response body. framesKey names the field that
// holds the frame array ("arr" or "steps"). A "result" field, when present,
// is kept on the trace.
func Decode(data []byte, framesKey string) (Trace, error) {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(data, &body); err != nil {
		return Trace{}, errors.Wrap(errors.ErrCodeMalformedTrace, err, "decode response")
	}

	raw, ok := body[framesKey]
	if !ok {
		return Trace{}, errors.New(errors.ErrCodeMalformedTrace, "response has no %q field", framesKey)
	}

	frames, err := decodeFrames(raw)
	if err != nil {
		return Trace{}, err
	}

	tr := Trace{Frames: frames}
	if res, ok := body["result"]; ok {
		var v any
		if err := json.Unmarshal(res, &v); err == nil {
			tr.Result = v
		}
	}
	return tr, nil
}

func decodeFrames(raw json.RawMessage) ([]Frame, error) {
	raw = bytes.TrimSpace(raw)
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedTrace, err, "frames are not an array")
	}

	frames := make([]Frame, 0, len(elems))
	for i, e := range elems {
		f, err := decodeFrame(e)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedTrace, err, "frame %d", i)
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func decodeFrame(raw json.RawMessage) (Frame, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case map[string]any:
		return Frame(x), nil
	case string, float64, bool:
		return Frame{FieldNode: x}, nil
	case nil:
		return Frame{}, nil
	default:
		return nil, fmt.Errorf("unsupported frame type %T", v)
	}
}
