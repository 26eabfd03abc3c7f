package receptor

import (
	"math"

	"github.com/sarat-asymmetrica/jdock/backend/internal/geometry"
)

// cellHash buckets receptor atom indices into uniform cells so precise-mode
// scoring and grid population only visit nearby atoms instead of the whole
// receptor.
//
// Adapted from the teacher's backend/internal/physics/spatial_hash.go
// (SpatialHash.Insert/GetNeighbors/getCellID): a uniform grid over absolute
// coordinates, anchored at the origin, whose cell size (scoring.Cutoff, set
// by New) is independent of the box's voxel lattice.
type cellHash struct {
	cellSize float64
	cells    map[[3]int][]int
}

func newCellHash(cellSize float64) *cellHash {
	return &cellHash{cellSize: cellSize, cells: make(map[[3]int][]int)}
}

func (h *cellHash) cellOf(p geometry.Vector3) [3]int {
	return [3]int{
		int(floorDiv(p.X, h.cellSize)),
		int(floorDiv(p.Y, h.cellSize)),
		int(floorDiv(p.Z, h.cellSize)),
	}
}

func floorDiv(v, size float64) float64 {
	return math.Floor(v / size)
}

func (h *cellHash) Insert(idx int, p geometry.Vector3) {
	c := h.cellOf(p)
	h.cells[c] = append(h.cells[c], idx)
}

// Neighbors returns every inserted index whose cell is within the 3x3x3
// block of cells centered on p, a superset of every atom within cellSize of
// p (mirroring the teacher's GetNeighbors 27-cell query).
func (h *cellHash) Neighbors(p geometry.Vector3) []int {
	center := h.cellOf(p)
	var out []int
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				c := [3]int{center[0] + dx, center[1] + dy, center[2] + dz}
				out = append(out, h.cells[c]...)
			}
		}
	}
	return out
}
