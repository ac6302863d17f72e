package narrate

import (
	"fmt"

	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/trace"
)

func bubble(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		i, j, ok := pair(cur)
		if !ok {
			return "Bubble Sort completed. The array is now sorted."
		}
		a := values(cur, prev, inst.Array)

		if cur.Bool(trace.FieldSwapped) {
			x, _ := num(a, i)
			y, _ := num(a, j)
			larger, smaller := at(a, i), at(a, j)
			if x < y {
				larger, smaller = smaller, larger
			}
			return fmt.Sprintf("Swapped %s and %s because %s was smaller than %s.", larger, smaller, smaller, larger)
		}
		return fmt.Sprintf("Comparing %s and %s. No swap needed since they are already in correct order.", at(a, i), at(a, j))
	}}
}

func insertion(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		i, j, ok := pair(cur)
		if !ok {
			return "Insertion Sort completed. The array is now fully sorted."
		}
		a := values(cur, prev, inst.Array)
		key, hasKey := cur.Int("keyindex")

		if !cur.Bool(trace.FieldSwapped) {
			if hasKey {
				return fmt.Sprintf("Comparing key %s with %s.", at(a, key), at(a, i))
			}
			return fmt.Sprintf("Comparing %s with %s.", at(a, i), at(a, j))
		}

		if prevKey, ok := prev.Int("keyindex"); ok && hasKey && prevKey != key {
			return fmt.Sprintf("Selected %s as the new key element.", at(a, key))
		}
		return fmt.Sprintf("Shifted %s one position to the right to make space for the key.", at(a, j))
	}}
}

func selection(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		i, j, ok := pair(cur)
		if !ok {
			return "Selection Sort completed. The array is now sorted."
		}
		a := values(cur, prev, inst.Array)

		if cur.Bool(trace.FieldSwapped) {
			return fmt.Sprintf("Moved the smallest remaining element %s into position %d.", at(a, i), i)
		}
		if m, ok := cur.Int("selectedmin"); ok {
			return fmt.Sprintf("Comparing %s with the current minimum %s.", at(a, j), at(a, m))
		}
		return fmt.Sprintf("Comparing %s and %s.", at(a, i), at(a, j))
	}}
}

func quick(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		i, j, ok := pair(cur)
		if !ok {
			return "Quick Sort completed. The array is now sorted."
		}
		a := values(cur, prev, inst.Array)
		p, hasPivot := cur.Int("pivotIndex")

		if cur.Bool(trace.FieldSwapped) {
			if hasPivot {
				return fmt.Sprintf("Swapped %s and %s to partition around pivot %s.", at(a, i), at(a, j), at(a, p))
			}
			return fmt.Sprintf("Swapped %s and %s.", at(a, i), at(a, j))
		}
		if hasPivot {
			return fmt.Sprintf("Comparing %s with pivot %s.", at(a, j), at(a, p))
		}
		return fmt.Sprintf("Comparing %s and %s.", at(a, i), at(a, j))
	}}
}

func merge(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		c, _ := cur.Ints(trace.FieldComparing)
		if len(c) == 0 {
			return "Merge Sort completed. All subarrays have been merged into a sorted array."
		}
		a := values(cur, prev, inst.Array)
		swapped := cur.Bool(trace.FieldSwapped)

		if len(c) == 2 && !swapped {
			return fmt.Sprintf("Comparing %s and %s from two subarrays.", at(a, c[0]), at(a, c[1]))
		}
		if merged, ok := cur.Ints("mergedIndexes"); swapped && ok && len(merged) > 0 {
			idx := merged[len(merged)-1]
			return fmt.Sprintf("Placed %s into the merged array at position %d.", at(a, idx), idx)
		}
		return "Merging sorted subarrays."
	}}
}

func heap(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		i, j, ok := pair(cur)
		if !ok {
			return "Heap Sort completed. All elements are now sorted."
		}
		a := values(cur, prev, inst.Array)

		if !cur.Bool(trace.FieldSwapped) {
			return fmt.Sprintf("Comparing parent %s with child %s to maintain the max heap property.", at(a, i), at(a, j))
		}
		r, ok := cur.Int("heapRange")
		if pr, pok := prev.Int("heapRange"); ok && pok && r < pr {
			return "Moved the maximum element to its correct sorted position and reduced the heap size."
		}
		return fmt.Sprintf("Swapped %s and %s to restore the max heap property.", at(a, i), at(a, j))
	}}
}

func binarySearch(inst instance.Instance) *Narrator {
	target := "the target"
	var t float64
	if inst.Target != nil {
		t = *inst.Target
		target = trace.Format(t)
	}

	return &Narrator{
		step: func(cur, prev trace.Frame) string {
			mid, hasMid := cur.Int("mid")
			if cur.Bool(trace.FieldFound) && hasMid {
				return fmt.Sprintf("Found %s at index %d!", target, mid)
			}
			if !hasMid || mid < 0 {
				return Fallback
			}

			a := values(cur, prev, inst.Array)
			mv, ok := num(a, mid)
			if !ok {
				return Fallback
			}
			left, _ := cur.Int("left")
			right, _ := cur.Int("right")

			switch {
			case t < mv:
				return fmt.Sprintf("%s < %s, searching left half [%d...%d]", target, trace.Format(mv), left, mid-1)
			case t > mv:
				return fmt.Sprintf("%s > %s, searching right half [%d...%d]", target, trace.Format(mv), mid+1, right)
			}
			return fmt.Sprintf("Checking middle element %s at index %d.", trace.Format(mv), mid)
		},
		summary: func(tr trace.Trace) string {
			last := tr.Frames[len(tr.Frames)-1]
			if last.Bool(trace.FieldFound) {
				return ""
			}
			return fmt.Sprintf("%s is not in the array.", target)
		},
	}
}
