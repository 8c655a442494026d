package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"sticker-canvas/sticker"
)

type Config struct {
	ListenAddr           string  `json:"listenAddr"`
	MaxSessions          int     `json:"maxSessions"`
	MaxClientsPerSession int     `json:"maxClientsPerSession"`
	CanvasWidth          int     `json:"canvasWidth"`
	CanvasHeight         int     `json:"canvasHeight"`
	GridCell             int     `json:"gridCell"`
	StickerSize          int     `json:"stickerSize"`
	SpawnWidth           int     `json:"spawnWidth"`
	SpawnHeight          int     `json:"spawnHeight"`
	ExportPixelRatio     float64 `json:"exportPixelRatio"`
	ExportDir            string  `json:"exportDir"`
	LogLevel             string  `json:"logLevel"`
}

func DefaultConfig() Config {
	return Config{
		ListenAddr:           ":3000",
		MaxSessions:          5,
		MaxClientsPerSession: 10,
		CanvasWidth:          sticker.CanvasWidth,
		CanvasHeight:         sticker.CanvasHeight,
		GridCell:             sticker.GridCell,
		StickerSize:          sticker.StickerSize,
		SpawnWidth:           sticker.SpawnWidth,
		SpawnHeight:          sticker.SpawnHeight,
		ExportPixelRatio:     2,
		ExportDir:            "",
		LogLevel:             "info",
	}
}

// Load reads a JSON config file at path. If the file is missing or invalid,
// it logs a warning and returns DefaultConfig(). Partial JSON is merged with defaults.
func Load(path string) Config {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("could not read config file, using defaults", "path", path, "err", err)
		return cfg
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn("invalid JSON in config file, using defaults", "path", path, "err", err)
		return DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		log.Warn("invalid config file, using defaults", "path", path, "err", err)
		return DefaultConfig()
	}

	return cfg
}

// Validate checks that the canvas can hold at least one sticker.
func (c Config) Validate() error {
	var errs []error
	if c.MaxSessions <= 0 {
		errs = append(errs, errors.New("maxSessions must be positive"))
	}
	if c.MaxClientsPerSession <= 0 {
		errs = append(errs, errors.New("maxClientsPerSession must be positive"))
	}
	if c.GridCell <= 0 || c.StickerSize <= 0 {
		errs = append(errs, errors.New("gridCell and stickerSize must be positive"))
	}
	if c.StickerSize > c.CanvasWidth || c.StickerSize > c.CanvasHeight {
		errs = append(errs, fmt.Errorf("sticker size %d does not fit a %dx%d canvas", c.StickerSize, c.CanvasWidth, c.CanvasHeight))
	}
	if c.SpawnWidth <= 0 || c.SpawnHeight <= 0 {
		errs = append(errs, errors.New("spawnWidth and spawnHeight must be positive"))
	}
	if c.ExportPixelRatio <= 0 {
		errs = append(errs, errors.New("exportPixelRatio must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) Geometry() sticker.Geometry {
	return sticker.Geometry{
		Width:       c.CanvasWidth,
		Height:      c.CanvasHeight,
		Cell:        c.GridCell,
		StickerSize: c.StickerSize,
		SpawnWidth:  c.SpawnWidth,
		SpawnHeight: c.SpawnHeight,
	}
}
