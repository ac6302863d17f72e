package narrate

import (
	"fmt"

	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/trace"
)

func dynamic(inst instance.Instance) *Narrator {
	return &Narrator{
		step: func(cur, prev trace.Frame) string {
			if e, ok := cur.String("explanation"); ok && e != "" {
				return e
			}
			return Fallback
		},
		summary: func(t trace.Trace) string {
			if t.Result == nil {
				if inst.Algorithm == "fibonacci" {
					return "Fibonacci computation complete."
				}
				return "Coin Change computation complete."
			}
			r := trace.Format(t.Result)
			if inst.Algorithm == "fibonacci" {
				return fmt.Sprintf("Fibonacci(%d) = %s", inst.N, r)
			}
			if r == "-1" {
				return "Amount cannot be formed with the given coins."
			}
			return "Minimum coins required = " + r
		},
	}
}
