package world

import "math/rand"

// Terrain is the walkability grid. The real game renders an isometric
// tilemap; this core only needs the solid mask for spawn placement and
// movement blocking. Out-of-bounds positions are solid.
type Terrain struct {
	W, H     int
	TileSize float64
	solid    []bool
}

func NewTerrain(w, h int, tileSize float64) *Terrain {
	return &Terrain{
		W:        w,
		H:        h,
		TileSize: tileSize,
		solid:    make([]bool, w*h),
	}
}

// GenerateTerrain builds an open field broken up by water blobs, the same
// scheme the original world builder used for unwalkable water.
func GenerateTerrain(w, h int, tileSize float64, seed int64) *Terrain {
	t := NewTerrain(w, h, tileSize)
	rng := rand.New(rand.NewSource(seed))

	blobs := w * h / 900
	for i := 0; i < blobs; i++ {
		cx := rng.Intn(w)
		cy := rng.Intn(h)
		r := rng.Intn(4) + 2
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy > r*r {
					continue
				}
				t.SetSolidCell(cx+dx, cy+dy, true)
			}
		}
	}
	// Keep the center spawn area clear.
	for dy := -6; dy <= 6; dy++ {
		for dx := -6; dx <= 6; dx++ {
			t.SetSolidCell(w/2+dx, h/2+dy, false)
		}
	}
	return t
}

// SetSolidCell marks one grid cell; out-of-range cells are ignored.
func (t *Terrain) SetSolidCell(cx, cy int, solid bool) {
	if cx < 0 || cy < 0 || cx >= t.W || cy >= t.H {
		return
	}
	t.solid[cy*t.W+cx] = solid
}

// SolidCell reports the solid mask of one grid cell.
func (t *Terrain) SolidCell(cx, cy int) bool {
	if cx < 0 || cy < 0 || cx >= t.W || cy >= t.H {
		return true
	}
	return t.solid[cy*t.W+cx]
}

// IsSolid reports walkability at a world position.
func (t *Terrain) IsSolid(x, y float64) bool {
	if x < 0 || y < 0 {
		return true
	}
	return t.SolidCell(int(x/t.TileSize), int(y/t.TileSize))
}

// CellToWorld returns the world-space center of a grid cell.
func (t *Terrain) CellToWorld(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * t.TileSize, (float64(cy) + 0.5) * t.TileSize
}

// Center returns the world-space center of the map (the player spawn).
func (t *Terrain) Center() (float64, float64) {
	return t.CellToWorld(t.W/2, t.H/2)
}
