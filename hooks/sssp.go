package hooks

import "code.hybscloud.com/atomix"

// GridTask is the unit of work for SSSPGrid: a candidate distance to a
// vertex on the toroidal grid.
type GridTask struct {
	Dist   int64
	Vertex int
}

// SSSPGrid realises single-source-shortest-paths relaxation on a 3-D
// toroidal grid of side L (L*L*L vertices, vertex index k + j*L + i*L^2).
// The atomic distance vector is allocated by NewSSSPGrid with every entry
// at the sentinel Inf; processing the Seed task sets vertex 0 to 0 and
// starts the relaxation from there.
type SSSPGrid struct {
	l         int
	distances []atomix.Int64
}

// Inf is the sentinel "not yet reached" distance.
const Inf = int64(1) << 62

// NewSSSPGrid allocates the distance vector for an L*L*L toroidal grid,
// with every entry at Inf.
func NewSSSPGrid(l int) *SSSPGrid {
	g := &SSSPGrid{l: l, distances: make([]atomix.Int64, l*l*l)}
	for i := range g.distances {
		g.distances[i].StoreRelease(Inf)
	}
	return g
}

// Distance returns the settled (or still-relaxing) distance to vertex v.
func (g *SSSPGrid) Distance(v int) int64 { return g.distances[v].LoadAcquire() }

// Seed returns the initial task to push into worker 0 before processing
// starts.
func (g *SSSPGrid) Seed() GridTask { return GridTask{Dist: 0, Vertex: 0} }

func (g *SSSPGrid) coords(v int) (i, j, k int) {
	l := g.l
	k = v % l
	j = (v / l) % l
	i = v / (l * l)
	return
}

func (g *SSSPGrid) index(i, j, k int) int {
	l := g.l
	i = ((i % l) + l) % l
	j = ((j % l) + l) % l
	k = ((k % l) + l) % l
	return k + j*l + i*l*l
}

// Hook returns the relaxation hook; it is worker-agnostic since all state
// lives in the shared atomic distance vector.
func (g *SSSPGrid) Hook() Func[GridTask] {
	return func(v GridTask, enqueue func(GridTask)) {
		cur := g.distances[v.Vertex].LoadAcquire()
		if v.Dist >= cur {
			return
		}
		if !g.distances[v.Vertex].CompareAndSwapAcqRel(cur, v.Dist) {
			return
		}
		i, j, k := g.coords(v.Vertex)
		next := v.Dist + 1
		neighbours := [6]int{
			g.index(i+1, j, k), g.index(i-1, j, k),
			g.index(i, j+1, k), g.index(i, j-1, k),
			g.index(i, j, k+1), g.index(i, j, k-1),
		}
		for _, nb := range neighbours {
			if next < g.distances[nb].LoadAcquire() {
				enqueue(GridTask{Dist: next, Vertex: nb})
			}
		}
	}
}
