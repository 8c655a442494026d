package scene

import (
	"fmt"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	gridAlpha   = 0.05
	shadowAlpha = 0.2
	labelSize   = 14
	badgeInset  = 2
)

var (
	fontOnce sync.Once
	ttf      *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		ttf, fontErr = truetype.Parse(goregular.TTF)
	})
	return ttf, fontErr
}

func face(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{Size: size, Hinting: font.HintingFull})
}

// hasGlyphs reports whether every rune of s exists in f.
func hasGlyphs(f *truetype.Font, s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if f.Index(r) == 0 {
			return false
		}
	}
	return true
}

// rasterize draws the surface at ratio. Coordinates are scaled by hand
// rather than through the context matrix so text is rendered at full
// resolution.
func rasterize(width, height, cell int, nodes []Node, ratio float64) (*gg.Context, error) {
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	w := int(math.Round(float64(width) * ratio))
	h := int(math.Round(float64(height) * ratio))
	if w <= 0 || h <= 0 {
		return nil, ErrInvalidRatio
	}

	dc := gg.NewContext(w, h)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	drawGrid(dc, width, height, cell, ratio)
	for _, n := range nodes {
		drawNode(dc, f, n, ratio)
	}
	return dc, nil
}

func drawGrid(dc *gg.Context, width, height, cell int, ratio float64) {
	if cell <= 0 {
		return
	}
	dc.SetRGBA(0, 0, 0, gridAlpha)
	dc.SetLineWidth(ratio)
	for x := 0; x <= width; x += cell {
		px := float64(x) * ratio
		dc.DrawLine(px, 0, px, float64(height)*ratio)
		dc.Stroke()
	}
	for y := 0; y <= height; y += cell {
		py := float64(y) * ratio
		dc.DrawLine(0, py, float64(width)*ratio, py)
		dc.Stroke()
	}
}

func drawNode(dc *gg.Context, f *truetype.Font, n Node, ratio float64) {
	size := n.Size * n.Scale * ratio
	x := n.X * ratio
	y := n.Y * ratio
	cx, cy := x+size/2, y+size/2
	radius := size/2 - badgeInset*ratio

	drawShadow(dc, cx+ShadowOffset*ratio, cy+ShadowOffset*ratio, radius, n.ShadowBlur*ratio, n.Opacity)

	if hasGlyphs(f, n.Glyph) {
		dc.SetFontFace(face(f, n.FontSize*n.Scale*ratio))
		dc.SetRGBA(0, 0, 0, n.Opacity)
		dc.DrawStringAnchored(n.Glyph, cx, cy, 0.5, 0.5)
		return
	}

	c, err := colorful.Hex(n.Color)
	if err != nil {
		c, _ = colorful.Hex(fallbackColor)
	}
	dc.SetRGBA(c.R, c.G, c.B, n.Opacity)
	dc.DrawCircle(cx, cy, radius)
	dc.Fill()

	dc.SetFontFace(face(f, labelSize*n.Scale*ratio))
	dc.SetRGBA(1, 1, 1, n.Opacity)
	dc.DrawStringAnchored(n.Label, cx, cy, 0.5, 0.5)
}

// drawShadow approximates a blurred drop shadow with concentric rings of
// falling alpha.
func drawShadow(dc *gg.Context, cx, cy, radius, blur, opacity float64) {
	steps := int(math.Ceil(blur / 3))
	if steps < 1 {
		steps = 1
	}
	alpha := shadowAlpha * opacity / float64(steps)
	for i := steps; i >= 1; i-- {
		spread := blur * float64(i) / float64(steps) / 2
		dc.SetRGBA(0, 0, 0, alpha)
		dc.DrawCircle(cx, cy, radius+spread)
		dc.Fill()
	}
}
