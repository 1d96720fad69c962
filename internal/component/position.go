package component

import "math"

// Position is a point on the battle map, in feet.
type Position struct {
	X float32
	Y float32
}

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) Distance(o Position) float32 {
	dx, dy := float64(p.X-o.X), float64(p.Y-o.Y)
	return float32(math.Hypot(dx, dy))
}
