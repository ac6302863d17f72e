package layout

import "math"

// Circle places nodes evenly around a circle.
type Circle struct {
	CX, CY float64
	R      float64
}

// Circle presets for traversal and shortest-path graphs.
var (
	TraversalCircle = Circle{CX: 260, CY: 220, R: 160}
	PathCircle      = Circle{CX: 280, CY: 240, R: 170}
)

// Place assigns ids[i] the point at angle 2*pi*i/len(ids). Duplicate
// identifiers keep their first position.
func (c Circle) Place(ids []string) Map {
	m := make(Map, len(ids))
	if len(ids) == 0 {
		return m
	}

	step := 2 * math.Pi / float64(len(ids))
	for i, id := range ids {
		if _, ok := m[id]; ok {
			continue
		}
		angle := step * float64(i)
		m[id] = Point{
			X: c.CX + c.R*math.Cos(angle),
			Y: c.CY + c.R*math.Sin(angle),
		}
	}
	return m
}
