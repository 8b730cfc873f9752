package world

import "github.com/l1jgo/bombarena/internal/component"

// Grid holds the static terrain: the border and the interior pillar
// pattern. It never changes after setup.
type Grid struct {
	Width  int
	Height int
	walls  []bool // row-major, walls[y*Width+x]
}

func NewGrid(width, height int) *Grid {
	g := &Grid{Width: width, Height: height, walls: make([]bool, width*height)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			border := x == 0 || y == 0 || x == width-1 || y == height-1
			pillar := x%2 == 0 && y%2 == 0
			g.walls[y*width+x] = border || pillar
		}
	}
	return g
}

func (g *Grid) InBounds(p component.Position) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < g.Width && p.Y < g.Height
}

// IsWall reports indestructible terrain. Out-of-bounds counts as wall.
func (g *Grid) IsWall(p component.Position) bool {
	if !g.InBounds(p) {
		return true
	}
	return g.walls[p.Y*g.Width+p.X]
}

// Walls lists every indestructible tile in row-major order.
func (g *Grid) Walls() []component.Position {
	var out []component.Position
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			if g.walls[y*g.Width+x] {
				out = append(out, component.Position{X: x, Y: y})
			}
		}
	}
	return out
}

// spawnCorners are the spawn slots in assignment order, relative to the
// inner playable corners.
var spawnCorners = [4]struct{ right, bottom bool }{
	{false, false},
	{true, true},
	{true, false},
	{false, true},
}

// Spawns returns the four spawn tiles in assignment order.
func (g *Grid) Spawns() []component.Position {
	out := make([]component.Position, 0, len(spawnCorners))
	for _, c := range spawnCorners {
		p := component.Position{X: 1, Y: 1}
		if c.right {
			p.X = g.Width - 2
		}
		if c.bottom {
			p.Y = g.Height - 2
		}
		out = append(out, p)
	}
	return out
}

// spawnProtected reports the spawn tiles and their orthogonal neighbours,
// which setup never fills with soft blocks.
func (g *Grid) spawnProtected(p component.Position) bool {
	for _, s := range g.Spawns() {
		if s == p {
			return true
		}
		for _, d := range component.Directions {
			if s.Step(d) == p {
				return true
			}
		}
	}
	return false
}
