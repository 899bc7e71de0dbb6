// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package linescope

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/gpio"
)

// PlotOpts represents the options available for Plot.
type PlotOpts struct {
	Fg, Bg color.NRGBA
	// Step is the width of one sample in pixels.
	Step int
	// Height of the image in pixels.
	Height int
	// Label is drawn in the top left corner when not empty.
	Label string

	_ struct{}
}

// DefaultPlotOpts is the recommended default options for Plot.
var DefaultPlotOpts = PlotOpts{
	Fg:     color.NRGBA{0x00, 0xff, 0x00, 0xff},
	Bg:     color.NRGBA{0x00, 0x00, 0x00, 0xff},
	Step:   8,
	Height: 48,
}

const margin = 4

// Plot draws levels as a logic analyzer trace. The Opts can be nil.
func Plot(levels []gpio.Level, opts *PlotOpts) (image.Image, error) {
	if opts == nil {
		opts = &DefaultPlotOpts
	}
	step, h := opts.Step, opts.Height
	if step <= 0 {
		step = DefaultPlotOpts.Step
	}
	if h <= 0 {
		h = DefaultPlotOpts.Height
	}
	dc := gg.NewContext(len(levels)*step+2*margin, h)
	dc.SetColor(opts.Bg)
	dc.Clear()

	yHigh, yLow := float64(h/3), float64(h-margin)
	if opts.Label != "" {
		f, err := truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, err
		}
		dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: float64(h / 4)}))
		dc.SetColor(opts.Fg)
		dc.DrawString(opts.Label, margin, yHigh-margin)
	}

	dc.SetColor(opts.Fg)
	dc.SetLineWidth(2)
	x := float64(margin)
	for i, l := range levels {
		y := yLow
		if l {
			y = yHigh
		}
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
		x += float64(step)
		dc.LineTo(x, y)
	}
	dc.Stroke()
	return dc.Image(), nil
}
