package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"github.com/ncruces/zenity"

	"twinconsole/internal/export"
	"twinconsole/internal/frame"
)

type saveResult struct {
	path string
	err  error
}

// saveFrame asks for a destination and writes the current frame there. The
// dialog blocks, so it runs off the update loop on a copy of the frame.
func (c *Console) saveFrame() {
	if c.saving {
		return
	}
	c.saving = true

	img := &image.RGBA{
		Pix:    append([]uint8(nil), c.frame.Pix...),
		Stride: c.frame.Stride,
		Rect:   c.frame.Rect,
	}
	p := c.state.Params
	name := fmt.Sprintf("giwaxs-%s.png", time.Now().Format("20060102-150405"))
	go func() {
		path, err := saveFrameDialog(c.exportDir, name, img, p)
		c.saved <- saveResult{path: path, err: err}
	}()
}

// collectSave reports a finished save, if any.
func (c *Console) collectSave() {
	select {
	case r := <-c.saved:
		c.saving = false
		switch {
		case r.err != nil:
			logger.Errorf("saving frame: %v", r.err)
			c.setStatus("Save failed.")
		case r.path == "":
			c.setStatus("Save canceled.")
		default:
			logger.Noticef("saved frame to %s", r.path)
			c.setStatus("Saved " + filepath.Base(r.path))
		}
	default:
	}
}

// saveFrameDialog returns the chosen path, or "" when the operator canceled.
func saveFrameDialog(dir, name string, img image.Image, p frame.Params) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.Warningf("creating export directory: %v", err)
	}
	path, err := zenity.SelectFileSave(
		zenity.Title("Save Frame"),
		zenity.Filename(filepath.Join(dir, name)),
		zenity.ConfirmOverwrite(),
		zenity.FileFilters{{
			Name:     "PNG image",
			Patterns: []string{"*.png"},
		}},
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", nil
		}
		return "", err
	}
	if filepath.Ext(path) == "" {
		path += ".png"
	}
	return path, writeFrameFile(context.Background(), path, img, p)
}

// writeFrameFile stores img at path through a local frame sink. Only the PNG
// lands on disk.
func writeFrameFile(ctx context.Context, path string, img image.Image, p frame.Params) error {
	sink, err := export.Open(ctx, filepath.Dir(path), export.WithoutSidecar())
	if err != nil {
		return err
	}
	defer sink.Close()
	return sink.WriteFrame(ctx, filepath.Base(path), img, p)
}
