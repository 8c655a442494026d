package session

import (
	"fmt"

	"sticker-canvas/scene"
	"sticker-canvas/sticker"
)

type CanvasInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Label  string `json:"label"`
}

// State is what clients render: the stickers, the drag in progress and the
// enabled state of the export and clear controls.
type State struct {
	Stickers  []sticker.Sticker `json:"stickers"`
	Dragging  *scene.DragState  `json:"dragging"`
	Count     int               `json:"count"`
	Canvas    CanvasInfo        `json:"canvas"`
	CanExport bool              `json:"canExport"`
	CanClear  bool              `json:"canClear"`
}

func (s *Session) State() State {
	geo := s.Stickers.Geometry()
	list := s.Stickers.Store().List()
	st := State{
		Stickers: list,
		Count:    len(list),
		Canvas: CanvasInfo{
			Width:  geo.Width,
			Height: geo.Height,
			Label:  fmt.Sprintf("%d×%dpx", geo.Width, geo.Height),
		},
		CanExport: len(list) > 0,
		CanClear:  len(list) > 0,
	}
	if s.Drag.Active() {
		d := s.Drag
		st.Dragging = &d
	}
	return st
}

// redraw stages the current store and drag state on the session scene.
func (s *Session) redraw() {
	s.Scene.Sync(scene.Nodes(s.Stickers.Store().List(), s.Drag))
}

// Payloads marshalling
type AddStickerPayload struct {
	Glyph string `json:"glyph"`
}

type StickerPayload struct {
	ID string `json:"id"`
}

type DragPayload struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}
