package scene

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"testing"

	"sticker-canvas/sticker"
)

func decode(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid png: %v", err)
	}
	return img
}

func rgb(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -3 && d <= 3
}

func TestEncodeBeforeRedraw(t *testing.T) {
	s := New(sticker.DefaultGeometry())
	s.Sync(nil)

	if _, err := s.Encode(context.Background(), 2); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestNilScene(t *testing.T) {
	var s *Scene

	if err := s.Redraw(context.Background()); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady from Redraw, got %v", err)
	}
	if _, err := s.Encode(context.Background(), 2); !errors.Is(err, ErrNotReady) {
		t.Errorf("expected ErrNotReady from Encode, got %v", err)
	}
}

func TestEncodeInvalidRatio(t *testing.T) {
	s := New(sticker.DefaultGeometry())
	if err := s.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Encode(context.Background(), 0); !errors.Is(err, ErrInvalidRatio) {
		t.Errorf("expected ErrInvalidRatio, got %v", err)
	}
}

func TestRedrawCancelled(t *testing.T) {
	s := New(sticker.DefaultGeometry())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Redraw(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := s.Encode(context.Background(), 1); !errors.Is(err, ErrNotReady) {
		t.Errorf("cancelled redraw should not commit a frame, got %v", err)
	}
}

func TestRedrawCommitsPendingNodes(t *testing.T) {
	s := New(sticker.DefaultGeometry())
	s.Sync([]Node{{ID: "a"}})

	if len(s.Frame()) != 0 {
		t.Fatal("synced nodes should not be visible before redraw")
	}
	if err := s.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}
	s.Sync([]Node{{ID: "a"}, {ID: "b"}})

	frame := s.Frame()
	if len(frame) != 1 || frame[0].ID != "a" {
		t.Errorf("expected committed frame [a], got %+v", frame)
	}
}

func TestEncodeDoublesResolution(t *testing.T) {
	s := New(sticker.DefaultGeometry())
	stickers := []sticker.Sticker{{ID: "a", Glyph: "🌟", X: 0, Y: 0, Width: 60, Height: 60}}
	s.Sync(Nodes(stickers, DragState{}))
	if err := s.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := s.Encode(context.Background(), 2)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	img := decode(t, data)

	b := img.Bounds()
	if b.Dx() != 1200 || b.Dy() != 800 {
		t.Fatalf("expected 1200x800, got %dx%d", b.Dx(), b.Dy())
	}

	// Inside the star badge, above its label.
	r, g, bl := rgb(img, 60, 30)
	if !near(r, 0xf5) || !near(g, 0xb3) || !near(bl, 0x01) {
		t.Errorf("expected star badge colour at (60,30), got (%d,%d,%d)", r, g, bl)
	}

	// Empty cell away from grid lines.
	r, g, bl = rgb(img, 1190, 790)
	if r != 255 || g != 255 || bl != 255 {
		t.Errorf("expected white background, got (%d,%d,%d)", r, g, bl)
	}
}

func TestEncodeDrawsGrid(t *testing.T) {
	s := New(sticker.DefaultGeometry())
	if err := s.Redraw(context.Background()); err != nil {
		t.Fatal(err)
	}

	data, err := s.Encode(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	img := decode(t, data)

	onLine, _, _ := rgb(img, 40, 20)
	offLine, _, _ := rgb(img, 20, 20)
	if offLine != 255 {
		t.Errorf("expected white between grid lines, got %d", offLine)
	}
	if onLine >= offLine {
		t.Errorf("expected grid line at x=40 to be darker than background, got %d", onLine)
	}
}
