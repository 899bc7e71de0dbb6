// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package linescope renders sampled logic levels of a line to a terminal
// using ANSI color codes, one block per sample.
//
// Useful to eyeball a peer's waveform on a bench without a logic analyzer.
package linescope

import (
	"bytes"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/gpio"
)

// Opts represents the options available for the scope.
type Opts struct {
	// High and Low are the colors of the two levels.
	High color.NRGBA
	Low  color.NRGBA
	// Width wraps the trace every Width samples. 0 means no wrapping.
	Width   int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultOpts draws high in green and low in dark grey.
var DefaultOpts = Opts{
	High: color.NRGBA{R: 0x00, G: 0xd0, B: 0x00, A: 0xff},
	Low:  color.NRGBA{R: 0x30, G: 0x30, B: 0x30, A: 0xff},
}

// Dev is a terminal trace of line levels.
type Dev struct {
	w     io.Writer
	width int
	high  string
	low   string

	buf bytes.Buffer
}

// New returns a Dev that displays on stdout. The Opts can be nil.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter returns a Dev that writes to w. The Opts can be nil.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	if opts == nil {
		opts = &DefaultOpts
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Dev{
		w:     w,
		width: opts.Width,
		high:  p.Block(opts.High),
		low:   p.Block(opts.Low),
	}
}

func (d *Dev) String() string {
	return "LineScope"
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the console is not left colored.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Render draws one block per level and returns the number of levels drawn.
func (d *Dev) Render(levels []gpio.Level) (int, error) {
	// Build the whole trace first so the terminal receives a single write.
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i, l := range levels {
		if d.width > 0 && i != 0 && i%d.width == 0 {
			_, _ = d.buf.WriteString("\033[0m\n")
		}
		if l {
			_, _ = d.buf.WriteString(d.high)
		} else {
			_, _ = d.buf.WriteString(d.low)
		}
	}
	_, _ = d.buf.WriteString("\033[0m ")
	if _, err := d.buf.WriteTo(d.w); err != nil {
		return 0, err
	}
	return len(levels), nil
}
