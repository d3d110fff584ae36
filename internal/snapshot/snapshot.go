// Package snapshot writes rendered frames to PNG files.
package snapshot

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const labelMargin = 4

// Label stamps text in the top-left corner of a copy of img, on a dark
// backing strip so it stays readable over any clear color.
func Label(img *image.RGBA, text string) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	if text == "" {
		return out
	}

	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.White),
		Face: face,
	}
	width := d.MeasureString(text).Ceil()
	metrics := face.Metrics()
	height := (metrics.Ascent + metrics.Descent).Ceil()

	origin := out.Bounds().Min
	strip := image.Rect(origin.X, origin.Y, origin.X+width+2*labelMargin, origin.Y+height+2*labelMargin)
	draw.Draw(out, strip, image.NewUniform(color.RGBA{0, 0, 0, 160}), image.Point{}, draw.Over)

	d.Dot = fixed.Point26_6{
		X: fixed.I(origin.X + labelMargin),
		Y: fixed.I(origin.Y+labelMargin) + metrics.Ascent,
	}
	d.DrawString(text)
	return out
}

// WritePNG encodes img, labelled with text, to path, creating parent
// directories as needed.
func WritePNG(path string, img *image.RGBA, text string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, Label(img, text)); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// FramePath names the snapshot for a frame inside dir.
func FramePath(dir string, frame int) string {
	return filepath.Join(dir, fmt.Sprintf("frame-%05d.png", frame))
}
