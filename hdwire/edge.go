// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire

import "periph.io/x/conn/v3/gpio"

// EdgeDetector tracks the level of an input line and reports rising edges.
type EdgeDetector struct {
	in   Input
	last gpio.Level
	// lossy treats read failures as "no edge" instead of returning them.
	lossy bool
}

// NewEdgeDetector wraps in. The tracked level starts at the current level of
// the line, or low if it cannot be read.
func NewEdgeDetector(in Input) *EdgeDetector {
	l, err := in.Level()
	if err != nil {
		l = gpio.Low
	}
	return &EdgeDetector{in: in, last: l}
}

// RisingEdge reads the line and returns true if it went from low to high
// since the previous read. A falling edge updates the tracked level but
// returns false.
func (e *EdgeDetector) RisingEdge() (bool, error) {
	l, err := e.in.Level()
	if err != nil {
		if e.lossy {
			return false, nil
		}
		return false, err
	}
	if l == e.last {
		return false, nil
	}
	e.last = l
	return l == gpio.High, nil
}

// Level returns the current level of the line without touching the tracked
// level.
func (e *EdgeDetector) Level() (gpio.Level, error) {
	return e.in.Level()
}

// Release returns the wrapped line.
func (e *EdgeDetector) Release() Input {
	return e.in
}
