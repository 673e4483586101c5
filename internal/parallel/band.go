// Package parallel provides the schedulers behind the parallel grid
// computation strategies.
//
// A grid is partitioned into horizontal bands of whole rows. Because the
// grid is stored row-major, a band is a contiguous sub-slice of the count
// buffer, so every task owns a disjoint slice and no locking is needed on
// the grid itself. Two schedulers are provided:
//
//   - WorkerPool: a fixed set of goroutines with per-worker queues and work
//     stealing, used for static band partitions.
//   - ForkJoin: recursive midpoint splitting of a row range, forking onto a
//     bounded number of slots and running inline when none is free.
//
// Both recover panics in tasks and report them as errors, and both accept
// a context that tasks poll between rows.
package parallel

// Band is a half-open range of rows [Y0, Y1).
type Band struct {
	Y0, Y1 int
}

// Rows returns the number of rows in the band.
func (b Band) Rows() int {
	return b.Y1 - b.Y0
}

// Empty reports whether the band contains no rows.
func (b Band) Empty() bool {
	return b.Y1 <= b.Y0
}

// RowBands divides height rows into exactly n contiguous bands of
// height/n rows each, with the last band absorbing the remainder. When
// height < n the leading bands are empty. n <= 0 is treated as 1.
func RowBands(height, n int) []Band {
	if n <= 0 {
		n = 1
	}
	if height < 0 {
		height = 0
	}

	per := height / n
	bands := make([]Band, n)
	for i := range n {
		y0 := i * per
		y1 := y0 + per
		if i == n-1 {
			y1 = height
		}
		bands[i] = Band{Y0: y0, Y1: y1}
	}
	return bands
}
