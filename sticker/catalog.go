package sticker

// Template is a catalog entry stickers are stamped from.
type Template struct {
	Glyph string `json:"glyph"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var templates = []Template{
	{Glyph: "🌟", Label: "Star", Color: "#f5b301"},
	{Glyph: "🎈", Label: "Balloon", Color: "#e53935"},
	{Glyph: "🎨", Label: "Palette", Color: "#8e24aa"},
}

// Templates returns the catalog in display order.
func Templates() []Template {
	out := make([]Template, len(templates))
	copy(out, templates)
	return out
}

// Lookup finds a template by glyph.
func Lookup(glyph string) (Template, bool) {
	for _, t := range templates {
		if t.Glyph == glyph {
			return t, true
		}
	}
	return Template{}, false
}
