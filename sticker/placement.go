package sticker

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rand is the source of initial sticker positions.
type Rand interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// Controller applies placement rules to a Store: random snapped spawn,
// snapped and clamped moves, deletes and clears.
type Controller struct {
	store *Store
	geo   Geometry
	rnd   Rand
	newID func() string
}

type Option func(*Controller)

// WithRand replaces the spawn position source.
func WithRand(r Rand) Option {
	return func(c *Controller) { c.rnd = r }
}

// WithIDFunc replaces the sticker id generator.
func WithIDFunc(f func() string) Option {
	return func(c *Controller) { c.newID = f }
}

func NewController(store *Store, geo Geometry, opts ...Option) *Controller {
	c := &Controller{
		store: store,
		geo:   geo,
		rnd:   globalRand{},
		newID: func() string { return "sticker-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Store() *Store { return c.store }
func (c *Controller) Geometry() Geometry { return c.geo }

// AddSticker stamps t at a random grid position inside the spawn area,
// clamped to the canvas when the spawn area is larger than it.
func (c *Controller) AddSticker(t Template) Sticker {
	x0 := c.rnd.Float64() * float64(c.geo.SpawnWidth)
	y0 := c.rnd.Float64() * float64(c.geo.SpawnHeight)
	x, y := c.geo.Clamp(x0, y0)
	st := c.newSticker(t, x, y)
	c.store.Add(st)
	return st
}

// PlaceSticker stamps t at an explicit position, snapped and clamped like a move.
func (c *Controller) PlaceSticker(t Template, rawX, rawY float64) Sticker {
	x, y := c.geo.Clamp(rawX, rawY)
	st := c.newSticker(t, x, y)
	c.store.Add(st)
	return st
}

// MoveSticker commits the end of a drag. Unknown ids are ignored.
func (c *Controller) MoveSticker(id string, rawX, rawY float64) bool {
	x, y := c.geo.Clamp(rawX, rawY)
	return c.store.Move(id, x, y)
}

func (c *Controller) DeleteSticker(id string) bool {
	return c.store.Remove(id)
}

func (c *Controller) ClearAll() {
	c.store.Clear()
}

func (c *Controller) newSticker(t Template, x, y int) Sticker {
	return Sticker{
		ID:     c.newID(),
		Glyph:  t.Glyph,
		X:      x,
		Y:      y,
		Width:  c.geo.StickerSize,
		Height: c.geo.StickerSize,
	}
}
