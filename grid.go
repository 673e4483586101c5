package fractal

import "slices"

// Grid holds one iteration count per pixel in row-major order.
//
// A grid is created fresh for every render and is owned exclusively by the
// caller once Compute returns. During a render each task writes a disjoint
// range of rows and nothing reads the grid until all tasks have joined.
type Grid struct {
	Width         int
	Height        int
	MaxIterations uint32

	// Counts has Width*Height entries; pixel (x, y) is at y*Width + x.
	Counts []uint32
}

// NewGrid allocates a zeroed grid.
func NewGrid(width, height int, maxIterations uint32) *Grid {
	return &Grid{
		Width:         width,
		Height:        height,
		MaxIterations: maxIterations,
		Counts:        make([]uint32, width*height),
	}
}

// At returns the count for pixel (x, y).
func (g *Grid) At(x, y int) uint32 {
	return g.Counts[y*g.Width+x]
}

// Set stores the count for pixel (x, y).
func (g *Grid) Set(x, y int, n uint32) {
	g.Counts[y*g.Width+x] = n
}

// Row returns the counts for row y. The slice aliases the grid.
func (g *Grid) Row(y int) []uint32 {
	return g.Counts[y*g.Width : (y+1)*g.Width]
}

// Rows returns the contiguous counts for rows [y0, y1). The slice aliases
// the grid; it is the unit of work handed to a single task.
func (g *Grid) Rows(y0, y1 int) []uint32 {
	return g.Counts[y0*g.Width : y1*g.Width]
}

// Equal reports whether two grids have identical dimensions and counts.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.Width == o.Width && g.Height == o.Height &&
		g.MaxIterations == o.MaxIterations && slices.Equal(g.Counts, o.Counts)
}

// InSetCount returns the number of pixels whose orbit stayed bounded.
func (g *Grid) InSetCount() int {
	n := 0
	for _, c := range g.Counts {
		if c == g.MaxIterations {
			n++
		}
	}
	return n
}

// Histogram returns a slice of MaxIterations+1 buckets counting how many
// pixels reported each iteration count.
func (g *Grid) Histogram() []int {
	h := make([]int, int(g.MaxIterations)+1)
	for _, c := range g.Counts {
		if int(c) < len(h) {
			h[c]++
		}
	}
	return h
}
