package system

import "math"

// Facing is quantized into 8 sectors, boundaries centered on the cardinal
// and ordinal directions. Sector indices run counterclockwise from East
// (the math convention, with world Y growing downward), sprite rows run
// clockwise from North (the sheet layout). Both tables are fixed.

var sectorNames = [8]string{"E", "NE", "N", "NW", "W", "SW", "S", "SE"}

// sectorRows maps a facing sector to its sprite-sheet row.
var sectorRows = [8]int{2, 1, 0, 7, 6, 5, 4, 3}

// SectorFor quantizes a direction vector (world coordinates, Y down) into
// a facing sector. A zero vector faces East.
func SectorFor(dx, dy float64) int {
	if dx == 0 && dy == 0 {
		return 0
	}
	angle := math.Atan2(-dy, dx) // Y down → negate for math orientation
	sector := int(math.Round(angle / (math.Pi / 4)))
	return ((sector % 8) + 8) % 8
}

// SectorName returns the compass label of a sector ("E", "NE", ...).
func SectorName(sector int) string {
	return sectorNames[((sector%8)+8)%8]
}

// SpriteRow returns the sprite-sheet row for a facing sector.
func SpriteRow(sector int) int {
	return sectorRows[((sector%8)+8)%8]
}

// SectorVector returns the unit vector of a sector's center direction
// (world coordinates, Y down).
func SectorVector(sector int) (float64, float64) {
	angle := float64(sector) * math.Pi / 4
	return math.Cos(angle), -math.Sin(angle)
}
