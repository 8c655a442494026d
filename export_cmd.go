package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sticker-canvas/export"
	"sticker-canvas/logging"
	"sticker-canvas/scene"
	"sticker-canvas/sticker"
)

// layoutEntry is one sticker in a layout file.
type layoutEntry struct {
	Glyph string  `json:"glyph"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func readLayout(path string) ([]layoutEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	var entries []layoutEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse layout %q: %w", path, err)
	}
	return entries, nil
}

// buildScene places entries through the placement rules and stages them on
// a fresh scene.
func buildScene(geo sticker.Geometry, entries []layoutEntry) (*scene.Scene, int, error) {
	c := sticker.NewController(sticker.NewStore(), geo)
	for i, e := range entries {
		t, ok := sticker.Lookup(e.Glyph)
		if !ok {
			return nil, 0, fmt.Errorf("entry %d: unknown glyph %q", i, e.Glyph)
		}
		c.PlaceSticker(t, e.X, e.Y)
	}
	s := scene.New(geo)
	s.Sync(scene.Nodes(c.Store().List(), scene.DragState{}))
	return s, c.Store().Len(), nil
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var layoutPath, outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a layout file to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger := opts.load()
			if outDir == "" {
				outDir = cfg.ExportDir
			}
			if outDir == "" {
				outDir = "."
			}

			entries, err := readLayout(layoutPath)
			if err != nil {
				return err
			}
			surface, n, err := buildScene(cfg.Geometry(), entries)
			if err != nil {
				return err
			}
			if n == 0 {
				return errors.New(export.NoticeEmpty)
			}

			ctx := logging.WithLogger(cmd.Context(), logger)
			p := export.New(export.WithPixelRatio(cfg.ExportPixelRatio))
			a, err := p.Run(ctx, surface, export.DirSaver{Dir: outDir})
			if err != nil {
				return fmt.Errorf("%s: %w", export.NoticeFailed, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.Filename)
			return nil
		},
	}
	cmd.Flags().StringVarP(&layoutPath, "layout", "l", "", "JSON array of {glyph,x,y}")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to exportDir, then .)")
	_ = cmd.MarkFlagRequired("layout")
	return cmd
}
