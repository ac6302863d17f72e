package narrate

import (
	"fmt"

	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/trace"
)

// pointer returns a field of the frame's "pointer" object.
func pointer(f trace.Frame, key string) (string, bool) {
	p, ok := f.Object("pointer")
	if !ok {
		return "", false
	}
	return p.String(key)
}

func action(f trace.Frame) string {
	a, _ := f.String(trace.FieldAction)
	return a
}

func stackPush(instance.Instance) *Narrator {
	return &Narrator{
		intro: "Starting Stack Push operations...",
		step: func(cur, prev trace.Frame) string {
			switch action(cur) {
			case "push-start":
				if v, ok := pointer(cur, "current"); ok {
					return fmt.Sprintf("Pushing %s onto the stack...", v)
				}
			case "push-complete":
				if v, ok := pointer(cur, "next"); ok {
					return fmt.Sprintf("Successfully pushed %s onto the stack!", v)
				}
				return "Push operation completed."
			}
			return "Stack operation in progress..."
		},
	}
}

func stackPop(instance.Instance) *Narrator {
	return &Narrator{
		intro: "Starting Stack Pop operations...",
		step: func(cur, prev trace.Frame) string {
			if cur.Bool(trace.FieldUnderflow) {
				return "Stack underflow: there are no elements left to pop."
			}
			switch action(cur) {
			case "pop-start":
				if v, ok := pointer(cur, "current"); ok {
					return fmt.Sprintf("Popping %s from the stack...", v)
				}
				return "Stack is empty. Cannot pop."
			case "pop-complete":
				return "Pop operation completed."
			}
			return "Stack operation in progress..."
		},
	}
}

func queueDequeue(instance.Instance) *Narrator {
	return &Narrator{
		intro: "Starting Queue Dequeue operations...",
		step: func(cur, prev trace.Frame) string {
			if cur.Bool(trace.FieldUnderflow) {
				return "Queue underflow: there are no elements left to dequeue."
			}
			switch action(cur) {
			case "dequeue-start":
				if v, ok := pointer(cur, "current"); ok {
					return fmt.Sprintf("Dequeuing %s from the front of the queue...", v)
				}
				return "Queue is empty. Cannot dequeue."
			case "dequeue-complete":
				return "Successfully dequeued from the queue!"
			}
			return "Queue operation in progress..."
		},
	}
}

func indexOf(inst instance.Instance) string {
	if inst.Index == nil {
		return "?"
	}
	return fmt.Sprint(*inst.Index)
}

func listInsert(inst instance.Instance) *Narrator {
	how := "Traversing to position..."
	if inst.Algorithm == "doubly-insert" {
		how = "Adjusting prev and next pointers..."
	}

	return &Narrator{step: func(cur, prev trace.Frame) string {
		v, ok := cur.String(trace.FieldCurrent)
		if !ok {
			return "Insertion complete!"
		}
		if inst.Value != nil {
			v = trace.Format(*inst.Value)
		}
		return fmt.Sprintf("Inserting %s at index %s. %s", v, indexOf(inst), how)
	}}
}

func listDelete(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		if !cur.Has(trace.FieldCurrent) {
			return "Deletion complete!"
		}
		return fmt.Sprintf("Deleting node at index %s. Adjusting both prev and next pointers...", indexOf(inst))
	}}
}

func listReverse(inst instance.Instance) *Narrator {
	doubly := inst.Algorithm == "doubly-reverse"

	return &Narrator{step: func(cur, prev trace.Frame) string {
		c, ok := cur.String(trace.FieldCurrent)
		if !ok {
			return "Reversal complete!"
		}
		if doubly {
			return "Swapping prev and next pointers. Current node: " + c
		}
		p, ok := cur.String("prev")
		if !ok {
			p = "null"
		}
		return fmt.Sprintf("Reversing pointers. Current node: %s, Previous: %s", c, p)
	}}
}
