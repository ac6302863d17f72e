package narrate

import (
	"fmt"
	"strings"

	"github.com/matzehuels/algotrace/pkg/instance"
	"github.com/matzehuels/algotrace/pkg/trace"
)

func frontier(kind string, items []string) string {
	if len(items) == 0 {
		return kind + " is empty."
	}
	return fmt.Sprintf("%s: [%s].", kind, joinList(items))
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

func searchFound(node, target string) string {
	if target == "" {
		target = node
	}
	return fmt.Sprintf("Target %s found at node %s!", target, node)
}

func bfs(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		node, ok := cur.String("num")
		if !ok {
			return Fallback
		}
		if cur.Bool(trace.FieldFound) {
			return searchFound(node, inst.TargetNode)
		}
		queue, _ := cur.Strings("queue")
		return fmt.Sprintf("Visiting node %s. %s", node, frontier("Queue", queue))
	}}
}

func dfs(inst instance.Instance) *Narrator {
	return &Narrator{step: func(cur, prev trace.Frame) string {
		node, ok := cur.String(trace.FieldCurrent)
		if !ok {
			return Fallback
		}
		if cur.Bool(trace.FieldFound) {
			return searchFound(node, inst.TargetNode)
		}
		stack, _ := cur.Strings("stack")
		return fmt.Sprintf("Visiting node %s. %s", node, frontier("Stack", stack))
	}}
}

func shortestPath(inst instance.Instance) *Narrator {
	informed := inst.Algorithm == "astar"

	return &Narrator{step: func(cur, prev trace.Frame) string {
		dist, _ := cur.Object("distances")

		if cur.Bool(trace.FieldFound) {
			if informed {
				return fmt.Sprintf("Target %q reached using A* algorithm", inst.End)
			}
			if d, ok := dist.String(inst.End); ok {
				return fmt.Sprintf("Target %q reached with shortest distance %s", inst.End, d)
			}
			return fmt.Sprintf("Target %q reached", inst.End)
		}

		node, ok := cur.String("currentNode")
		if !ok {
			return Fallback
		}
		if informed {
			return fmt.Sprintf("Visiting %s, evaluating neighbors", node)
		}
		if d, ok := dist.String(node); ok {
			return fmt.Sprintf("Visiting %s at distance %s, relaxing its edges", node, d)
		}
		return fmt.Sprintf("Visiting %s, relaxing its edges", node)
	}}
}

func traversal(inst instance.Instance) *Narrator {
	intro := "Starting Inorder Traversal (Left → Root → Right)"
	if inst.Algorithm == "postorder" {
		intro = "Starting Postorder Traversal (Left → Right → Root)"
	}

	return &Narrator{
		intro: intro,
		step: func(cur, prev trace.Frame) string {
			node, ok := cur.String(trace.FieldNode)
			if !ok {
				return Fallback
			}
			return "Visiting node " + node
		},
		summary: func(t trace.Trace) string {
			order := make([]string, 0, t.Len())
			for _, f := range t.Frames {
				if n, ok := f.String(trace.FieldNode); ok {
					order = append(order, n)
				}
			}
			return fmt.Sprintf("Traversal complete: [%s]", joinList(order))
		},
	}
}
