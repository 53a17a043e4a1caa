package topology

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/activecm/trafficlens/pkg/packet"
)

const (
	// DefaultIterations is the number of layout rounds used when none is set
	DefaultIterations = 50
	// DefaultSeed seeds the initial node placement
	DefaultSeed int64 = 42

	initialTemperature = 0.1
	minDistance        = 0.01
)

// LayoutOptions control the force directed layout. A zero Iterations uses
// DefaultIterations.
type LayoutOptions struct {
	Iterations int
	Seed       int64
}

// DefaultLayoutOptions returns the default iteration count and seed
func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{Iterations: DefaultIterations, Seed: DefaultSeed}
}

type vec struct{ x, y float64 }

// Layout assigns every node of g a position in [-1, 1] x [-1, 1] using a
// Fruchterman-Reingold spring layout. Nodes repel each other with force k²/d
// and edges pull their endpoints together with force d²/k, while the maximum
// displacement cools linearly to zero. Self-loops exert no force.
func Layout(g *Graph, opts LayoutOptions) error {
	if opts.Iterations < 0 {
		return fmt.Errorf("layout: iterations must not be negative, got %d: %w", opts.Iterations, packet.ErrInvalidArgument)
	}
	if opts.Iterations == 0 {
		opts.Iterations = DefaultIterations
	}

	n := len(g.Nodes)
	switch n {
	case 0:
		return nil
	case 1:
		g.Nodes[0].X, g.Nodes[0].Y = 0, 0
		return nil
	}

	index := make(map[string]int, n)
	for i, node := range g.Nodes {
		index[node.ID] = i
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	pos := make([]vec, n)
	for i := range pos {
		pos[i] = vec{rng.Float64(), rng.Float64()}
	}

	k := 1 / math.Sqrt(float64(n))
	temp := initialTemperature
	cooling := temp / float64(opts.Iterations+1)
	disp := make([]vec, n)

	for iter := 0; iter < opts.Iterations; iter++ {
		for i := range disp {
			disp[i] = vec{}
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				dx, dy := pos[i].x-pos[j].x, pos[i].y-pos[j].y
				d := math.Max(math.Hypot(dx, dy), minDistance)
				f := k * k / d
				disp[i].x += dx / d * f
				disp[i].y += dy / d * f
				disp[j].x -= dx / d * f
				disp[j].y -= dy / d * f
			}
		}

		for _, e := range g.Edges {
			u, v := index[e.Source], index[e.Target]
			if u == v {
				continue
			}
			dx, dy := pos[u].x-pos[v].x, pos[u].y-pos[v].y
			d := math.Max(math.Hypot(dx, dy), minDistance)
			f := d * d / k
			disp[u].x -= dx / d * f
			disp[u].y -= dy / d * f
			disp[v].x += dx / d * f
			disp[v].y += dy / d * f
		}

		for i := range pos {
			l := math.Hypot(disp[i].x, disp[i].y)
			if l == 0 {
				continue
			}
			s := math.Min(l, temp) / l
			pos[i].x += disp[i].x * s
			pos[i].y += disp[i].y * s
		}
		temp -= cooling
	}

	rescale(pos)
	for i := range g.Nodes {
		g.Nodes[i].X, g.Nodes[i].Y = pos[i].x, pos[i].y
	}
	return nil
}

// rescale centers the positions on the origin and scales the largest
// coordinate to 1
func rescale(pos []vec) {
	var center vec
	for _, p := range pos {
		center.x += p.x
		center.y += p.y
	}
	center.x /= float64(len(pos))
	center.y /= float64(len(pos))

	var extent float64
	for i := range pos {
		pos[i].x -= center.x
		pos[i].y -= center.y
		extent = math.Max(extent, math.Max(math.Abs(pos[i].x), math.Abs(pos[i].y)))
	}
	if extent == 0 {
		return
	}
	for i := range pos {
		pos[i].x /= extent
		pos[i].y /= extent
	}
}
