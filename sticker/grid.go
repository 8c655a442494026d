package sticker

import "math"

const (
	GridCell     = 40
	StickerSize  = 60
	CanvasWidth  = 600
	CanvasHeight = 400
	SpawnWidth   = 500
	SpawnHeight  = 300
)

// maxCoord bounds the input of Snap so the result always fits an int.
const maxCoord = 1 << 30

// Geometry describes the canvas a store lives on.
type Geometry struct {
	Width       int `json:"width"`
	Height      int `json:"height"`
	Cell        int `json:"cell"`
	StickerSize int `json:"stickerSize"`
	SpawnWidth  int `json:"spawnWidth"`
	SpawnHeight int `json:"spawnHeight"`
}

func DefaultGeometry() Geometry {
	return Geometry{
		Width:       CanvasWidth,
		Height:      CanvasHeight,
		Cell:        GridCell,
		StickerSize: StickerSize,
		SpawnWidth:  SpawnWidth,
		SpawnHeight: SpawnHeight,
	}
}

// Snap rounds v to the nearest multiple of GridCell. Halves round up.
func Snap(v float64) int {
	return snapTo(v, GridCell)
}

// Snap rounds v to the nearest multiple of the geometry's cell.
func (g Geometry) Snap(v float64) int {
	return snapTo(v, g.Cell)
}

// Clamp snaps a raw position and keeps the sticker fully inside the canvas.
func (g Geometry) Clamp(rawX, rawY float64) (int, int) {
	x := clamp(g.Snap(rawX), 0, g.Width-g.StickerSize)
	y := clamp(g.Snap(rawY), 0, g.Height-g.StickerSize)
	return x, y
}

func snapTo(v float64, cell int) int {
	if math.IsNaN(v) {
		return 0
	}
	v = math.Max(-maxCoord, math.Min(maxCoord, v))
	c := float64(cell)
	return int(math.Floor(v/c+0.5)) * cell
}

func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
