package scene

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"sticker-canvas/sticker"
)

var (
	ErrNotReady     = errors.New("scene: nothing drawn yet")
	ErrInvalidRatio = errors.New("scene: pixel ratio must be positive")
)

// Scene is a fixed-size drawing surface. It is safe for concurrent use.
type Scene struct {
	mu      sync.Mutex
	width   int
	height  int
	cell    int
	pending []Node
	frame   []Node
	drawn   bool
}

func New(geo sticker.Geometry) *Scene {
	return &Scene{width: geo.Width, height: geo.Height, cell: geo.Cell}
}

// Sync stages nodes for the next Redraw.
func (s *Scene) Sync(nodes []Node) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append([]Node(nil), nodes...)
}

// Redraw commits the staged nodes as the current frame. Once it returns, a
// following Encode sees exactly that frame regardless of later Syncs.
func (s *Scene) Redraw(ctx context.Context) error {
	if s == nil {
		return ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = append([]Node(nil), s.pending...)
	s.drawn = true
	return nil
}

// Frame returns a copy of the committed nodes.
func (s *Scene) Frame() []Node {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Node(nil), s.frame...)
}

// Encode rasterises the committed frame to PNG at ratio times the logical size.
func (s *Scene) Encode(ctx context.Context, ratio float64) ([]byte, error) {
	if s == nil {
		return nil, ErrNotReady
	}
	if ratio <= 0 {
		return nil, ErrInvalidRatio
	}
	s.mu.Lock()
	if !s.drawn {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	frame := append([]Node(nil), s.frame...)
	s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dc, err := rasterize(s.width, s.height, s.cell, frame, ratio)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
