package scene

import "sticker-canvas/sticker"

const (
	FontSize      = 48
	ShadowOffset  = 2
	RestBlur      = 5
	DragBlur      = 15
	DragScale     = 1.1
	DragOpacity   = 0.8
	fallbackColor = "#9e9e9e"
)

// Node is one drawable sticker with its transient styling.
type Node struct {
	ID         string  `json:"id"`
	Glyph      string  `json:"glyph"`
	Label      string  `json:"label"`
	Color      string  `json:"color"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Size       float64 `json:"size"`
	FontSize   float64 `json:"fontSize"`
	Scale      float64 `json:"scale"`
	Opacity    float64 `json:"opacity"`
	ShadowBlur float64 `json:"shadowBlur"`
}

// DragState is the sticker currently under the cursor, if any.
type DragState struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

func (d DragState) Active() bool { return d.ID != "" }

func (d DragState) Is(id string) bool { return d.ID != "" && d.ID == id }

// Nodes builds one node per sticker, bottom first. The dragged sticker is
// drawn at the live drag position with emphasis.
func Nodes(stickers []sticker.Sticker, drag DragState) []Node {
	nodes := make([]Node, 0, len(stickers))
	for _, st := range stickers {
		n := Node{
			ID:         st.ID,
			Glyph:      st.Glyph,
			Label:      st.Glyph,
			Color:      fallbackColor,
			X:          float64(st.X),
			Y:          float64(st.Y),
			Size:       float64(st.Width),
			FontSize:   FontSize,
			Scale:      1,
			Opacity:    1,
			ShadowBlur: RestBlur,
		}
		if t, ok := sticker.Lookup(st.Glyph); ok {
			n.Label = t.Label
			n.Color = t.Color
		}
		if drag.Is(st.ID) {
			n.X, n.Y = drag.X, drag.Y
			n.Scale = DragScale
			n.Opacity = DragOpacity
			n.ShadowBlur = DragBlur
		}
		nodes = append(nodes, n)
	}
	return nodes
}
