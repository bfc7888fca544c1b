package main

import "math"

// Each terminal cell stands for a cellW x cellH px patch of the play
// surface. Row 0 is the HUD.
const (
	cellW   = 8
	cellH   = 16
	hudRows = 1
)

// surfaceSize is the play surface in px for a terminal of cols x rows.
func surfaceSize(cols, rows int) (float64, float64) {
	return float64(max(cols, 0) * cellW), float64(max(rows-hudRows, 0) * cellH)
}

// cellToSurface maps a cell to the px at its center. ok is false for HUD
// cells.
func cellToSurface(col, row int) (x, y float64, ok bool) {
	if row < hudRows || col < 0 {
		return 0, 0, false
	}
	return (float64(col) + 0.5) * cellW, (float64(row-hudRows) + 0.5) * cellH, true
}

// coveredCells calls fn for every cell whose center lies within r of (x, y).
func coveredCells(x, y, r float64, cols, rows int, fn func(col, row int)) {
	if r <= 0 {
		return
	}
	c0 := max(0, int(math.Floor((x-r)/cellW)))
	c1 := min(cols-1, int(math.Floor((x+r)/cellW)))
	r0 := max(0, int(math.Floor((y-r)/cellH)))
	r1 := min(rows-hudRows-1, int(math.Floor((y+r)/cellH)))
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			cx, cy, _ := cellToSurface(col, row+hudRows)
			if math.Hypot(cx-x, cy-y) <= r {
				fn(col, row+hudRows)
			}
		}
	}
}
