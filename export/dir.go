package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DirSaver writes artifacts into a directory. A file only appears under its
// final name once it has been fully written.
type DirSaver struct {
	Dir string
}

func (d DirSaver) Save(ctx context.Context, a Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if a.Filename == "" || filepath.Base(a.Filename) != a.Filename {
		return fmt.Errorf("invalid filename %q", a.Filename)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	tmp, err := os.CreateTemp(d.Dir, ".export-*.png")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(a.Data); err != nil {
		tmp.Close()
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(d.Dir, a.Filename)); err != nil {
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}
