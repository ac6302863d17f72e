// Package algo is the catalog of algorithms the trace service can compute.
//
// Each [Algorithm] ties together everything the rest of the system needs to
// know about one page of the original visualizer: which kind of problem
// instance it takes, where the trace service computes it, which response
// field holds the frames, and how long each frame stays on screen.
//
//	a, err := algo.Lookup("bubble")
//	if err != nil {
//	    return err // UNKNOWN_ALGORITHM
//	}
//	fmt.Println(a.Endpoint, a.Interval) // sortingalgo/bubblesort 2s
package algo

import (
	"sort"
	"time"

	"github.com/matzehuels/algotrace/pkg/errors"
)

// Family groups algorithms that share a frame vocabulary and narration.
type Family string

const (
	FamilySort   Family = "sort"
	FamilySearch Family = "search"
	FamilyGraph  Family = "graph"
	FamilyPath   Family = "path"
	FamilyTree   Family = "tree"
	FamilyStack  Family = "stack"
	FamilyQueue  Family = "queue"
	FamilyList   Family = "list"
	FamilyDP     Family = "dp"
)

// Kind identifies the shape of problem instance an algorithm consumes.
type Kind string

const (
	KindArray    Kind = "array"
	KindGraph    Kind = "graph"
	KindWeighted Kind = "weighted"
	KindTree     Kind = "tree"
	KindList     Kind = "list"
	KindDP       Kind = "dp"
)

// Response field names holding the frame array.
const (
	FramesArr   = "arr"
	FramesSteps = "steps"
)

// Algorithm describes one traceable algorithm.
type Algorithm struct {
	Name      string        `json:"name"`
	Title     string        `json:"title"`
	Family    Family        `json:"family"`
	Kind      Kind          `json:"kind"`
	Endpoint  string        `json:"endpoint"`
	FramesKey string        `json:"frames_key"`
	Interval  time.Duration `json:"interval"`
}

var catalog = map[string]Algorithm{}

func register(a Algorithm) {
	catalog[a.Name] = a
}

func init() {
	for _, a := range []Algorithm{
		{"bubble", "Bubble Sort", FamilySort, KindArray, "sortingalgo/bubblesort", FramesArr, 2000 * time.Millisecond},
		{"insertion", "Insertion Sort", FamilySort, KindArray, "sortingalgo/insertionsort", FramesArr, 1800 * time.Millisecond},
		{"selection", "Selection Sort", FamilySort, KindArray, "sortingalgo/selectionsort", FramesArr, 1800 * time.Millisecond},
		{"quick", "Quick Sort", FamilySort, KindArray, "sortingalgo/quicksort", FramesArr, 1800 * time.Millisecond},
		{"merge", "Merge Sort", FamilySort, KindArray, "sortingalgo/mergesort", FramesArr, 1800 * time.Millisecond},
		{"heap", "Heap Sort", FamilySort, KindArray, "sortingalgo/heapsort", FramesArr, 1800 * time.Millisecond},
		{"binary-search", "Binary Search", FamilySearch, KindArray, "searchingalgo/binarysearch", FramesArr, 1500 * time.Millisecond},
		{"bfs", "Breadth First Search", FamilyGraph, KindGraph, "graphalgo/breadthfirstsearch", FramesArr, 1800 * time.Millisecond},
		{"dfs", "Depth First Search", FamilyGraph, KindGraph, "graphalgo/depthfirstsearch", FramesArr, 1800 * time.Millisecond},
		{"dijkstra", "Dijkstra's Algorithm", FamilyPath, KindWeighted, "shortestpathrouter/dijkstrasalgo", FramesArr, 1800 * time.Millisecond},
		{"astar", "A* Search", FamilyPath, KindWeighted, "shortestpathrouter/astaralgo", FramesArr, 1800 * time.Millisecond},
		{"inorder", "Inorder Traversal", FamilyTree, KindTree, "treealgo/inorder", FramesArr, 1200 * time.Millisecond},
		{"postorder", "Postorder Traversal", FamilyTree, KindTree, "treealgo/postorder", FramesArr, 1200 * time.Millisecond},
		{"stack-push", "Stack Push", FamilyStack, KindList, "stackalgo/push", FramesSteps, 1500 * time.Millisecond},
		{"stack-pop", "Stack Pop", FamilyStack, KindList, "stackalgo/stackpop", FramesSteps, 1500 * time.Millisecond},
		{"queue-dequeue", "Queue Dequeue", FamilyQueue, KindList, "queuealgo/dequeue", FramesSteps, 1500 * time.Millisecond},
		{"singly-insert", "Singly Linked List Insertion", FamilyList, KindList, "linkedlist/singlyinsertion", FramesSteps, 1500 * time.Millisecond},
		{"singly-reverse", "Singly Linked List Reversal", FamilyList, KindList, "linkedlist/singlyreversal", FramesSteps, 1500 * time.Millisecond},
		{"doubly-insert", "Doubly Linked List Insertion", FamilyList, KindList, "linkedlist/doublyinsertion", FramesSteps, 1500 * time.Millisecond},
		{"doubly-delete", "Doubly Linked List Deletion", FamilyList, KindList, "linkedlist/doublydeletion", FramesSteps, 1500 * time.Millisecond},
		{"doubly-reverse", "Doubly Linked List Reversal", FamilyList, KindList, "linkedlist/doublyreversal", FramesSteps, 1500 * time.Millisecond},
		{"fibonacci", "Fibonacci (DP)", FamilyDP, KindDP, "dynamicalgo/fibonacci", FramesSteps, 1000 * time.Millisecond},
		{"coin-change", "Coin Change (DP)", FamilyDP, KindDP, "dynamicalgo/coinchange", FramesSteps, 900 * time.Millisecond},
	} {
		register(a)
	}
}

// Lookup returns the named algorithm.
func Lookup(name string) (Algorithm, error) {
	if err := errors.ValidateAlgorithmName(name); err != nil {
		return Algorithm{}, err
	}
	a, ok := catalog[name]
	if !ok {
		return Algorithm{}, errors.New(errors.ErrCodeUnknownAlgorithm, "unknown algorithm %q", name).WithField(name)
	}
	return a, nil
}

// MustLookup is like Lookup but panics on unknown names. Intended for tests
// and package-level declarations.
func MustLookup(name string) Algorithm {
	a, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return a
}

// All returns every algorithm sorted by family, then name.
func All() []Algorithm {
	out := make([]Algorithm, 0, len(catalog))
	for _, a := range catalog {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Family != out[j].Family {
			return out[i].Family < out[j].Family
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Names returns all algorithm names in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Scaled returns the tick interval adjusted by a speed multiplier. A speed of
// 2 plays twice as fast. Non-positive speeds leave the interval unchanged.
func (a Algorithm) Scaled(speed float64) time.Duration {
	if speed <= 0 {
		return a.Interval
	}
	return time.Duration(float64(a.Interval) / speed)
}
