// Package export serialises a drawing surface to PNG and hands the result to
// a file-save collaborator.
//
// Export runs in two phases: the surface is asked to redraw and the call
// waits for that to finish, then the committed frame is encoded and
// validated. Nothing is retried; a failed attempt leaves no artifact behind
// and the caller may simply try again.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/charmbracelet/log"

	"sticker-canvas/logging"
	"sticker-canvas/scene"
)

const (
	DefaultPixelRatio = 2
	FilenamePrefix    = "sticker-canvas-"

	// NoticeEmpty is shown when an export is requested with nothing on the canvas.
	NoticeEmpty = "Please add some stickers before downloading!"
	// NoticeFailed is shown when serialising or saving fails.
	NoticeFailed = "Failed to download image. Please try again."
)

var (
	ErrSurfaceUnavailable = errors.New("export: surface unavailable")
	ErrSerialize          = errors.New("export: serialization failed")
	ErrSave               = errors.New("export: save failed")
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

// Surface is anything that can flush pending drawing and encode its frame.
type Surface interface {
	Redraw(ctx context.Context) error
	Encode(ctx context.Context, ratio float64) ([]byte, error)
}

// Artifact is an encoded image ready to be saved.
type Artifact struct {
	Filename string
	Data     []byte
}

// Saver triggers the save of an artifact.
type Saver interface {
	Save(ctx context.Context, a Artifact) error
}

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, a Artifact) error

func (f SaverFunc) Save(ctx context.Context, a Artifact) error { return f(ctx, a) }

// Chain saves to each saver in order and stops at the first failure.
type Chain []Saver

func (c Chain) Save(ctx context.Context, a Artifact) error {
	for _, s := range c {
		if err := s.Save(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

type Pipeline struct {
	ratio  float64
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Pipeline)

func WithPixelRatio(r float64) Option {
	return func(p *Pipeline) { p.ratio = r }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithLogger fixes the pipeline logger. Without it each call logs to the
// logger carried by its context.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		ratio: DefaultPixelRatio,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Filename returns the download name for an export made at t.
func Filename(t time.Time) string {
	return FilenamePrefix + t.UTC().Format("2006-01-02") + ".png"
}

// Export redraws the surface, waits for it, then encodes and validates the frame.
func (p *Pipeline) Export(ctx context.Context, s Surface) (Artifact, error) {
	logger := p.loggerFor(ctx)
	if s == nil {
		logger.Warn("export aborted", "err", "no surface")
		return Artifact{}, ErrSurfaceUnavailable
	}

	if err := s.Redraw(ctx); err != nil {
		logger.Warn("export aborted: redraw failed", "err", err)
		return Artifact{}, fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
	}

	data, err := s.Encode(ctx, p.ratio)
	if errors.Is(err, scene.ErrNotReady) {
		logger.Warn("export aborted: surface not ready")
		return Artifact{}, fmt.Errorf("%w: %w", ErrSurfaceUnavailable, err)
	}
	if err != nil {
		logger.Error("failed to serialize surface", "err", err)
		return Artifact{}, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	if err := validate(data); err != nil {
		logger.Error("failed to serialize surface", "err", err)
		return Artifact{}, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	a := Artifact{Filename: Filename(p.now()), Data: data}
	logger.Debug("surface exported", "file", a.Filename, "bytes", len(data))
	return a, nil
}

// Run exports the surface and passes the artifact to saver.
func (p *Pipeline) Run(ctx context.Context, s Surface, saver Saver) (Artifact, error) {
	logger := p.loggerFor(ctx)
	a, err := p.Export(ctx, s)
	if err != nil {
		return Artifact{}, err
	}
	if err := saver.Save(ctx, a); err != nil {
		logger.Error("failed to save export", "file", a.Filename, "err", err)
		return Artifact{}, fmt.Errorf("%w: %w", ErrSave, err)
	}
	logger.Info("export saved", "file", a.Filename)
	return a, nil
}

func (p *Pipeline) loggerFor(ctx context.Context) *log.Logger {
	if p.logger != nil {
		return p.logger
	}
	return logging.FromContext(ctx)
}

func validate(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty image data")
	}
	if !bytes.HasPrefix(data, pngMagic) {
		return errors.New("not a png")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode png header: %w", err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		return errors.New("zero-sized image")
	}
	return nil
}
