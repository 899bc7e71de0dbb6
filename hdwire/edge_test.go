// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire

import (
	"testing"

	"periph.io/x/conn/v3/gpio"
)

// levels is an Input playing back a fixed sequence. Reads past the end repeat
// the last level; fail lists the 0-based reads that fail.
type levels struct {
	seq  []gpio.Level
	fail map[int]bool
	n    int
}

func (l *levels) Level() (gpio.Level, error) {
	i := l.n
	l.n++
	if l.fail[i] {
		return gpio.High, errBoom
	}
	if i >= len(l.seq) {
		i = len(l.seq) - 1
	}
	return l.seq[i], nil
}

func TestEdgeDetector_RisingEdge(t *testing.T) {
	L, H := gpio.Low, gpio.High
	in := &levels{seq: []gpio.Level{L, L, H, H, L, L, H, H, H}}
	ed := NewEdgeDetector(in)
	want := []bool{false, true, false, false, false, true, false, false}
	for i, w := range want {
		got, err := ed.RisingEdge()
		if err != nil {
			t.Fatal(err)
		}
		if got != w {
			t.Fatalf("poll %d: RisingEdge() = %t, want %t", i, got, w)
		}
	}
	if ed.Release() != Input(in) {
		t.Fatal("Release() returned another line")
	}
}

func TestEdgeDetector_startsHigh(t *testing.T) {
	ed := NewEdgeDetector(&levels{seq: []gpio.Level{gpio.High}})
	for range 3 {
		if got, err := ed.RisingEdge(); got || err != nil {
			t.Fatalf("RisingEdge() = %t, %v", got, err)
		}
	}
}

func TestEdgeDetector_seedFailure(t *testing.T) {
	// The seed read fails and defaults to low, so a high line is an edge.
	ed := NewEdgeDetector(&levels{seq: []gpio.Level{gpio.High}, fail: map[int]bool{0: true}})
	if got, err := ed.RisingEdge(); !got || err != nil {
		t.Fatalf("RisingEdge() = %t, %v", got, err)
	}
}

func TestEdgeDetector_readFailure(t *testing.T) {
	L, H := gpio.Low, gpio.High
	in := &levels{seq: []gpio.Level{L, H, H}, fail: map[int]bool{1: true}}
	ed := NewEdgeDetector(in)
	if got, err := ed.RisingEdge(); got || err != errBoom {
		t.Fatalf("RisingEdge() = %t, %v", got, err)
	}
	// The failure did not touch the tracked level.
	if got, err := ed.RisingEdge(); !got || err != nil {
		t.Fatalf("RisingEdge() = %t, %v", got, err)
	}

	in = &levels{seq: []gpio.Level{L, H, H}, fail: map[int]bool{1: true}}
	ed = NewEdgeDetector(in)
	ed.lossy = true
	if got, err := ed.RisingEdge(); got || err != nil {
		t.Fatalf("lossy RisingEdge() = %t, %v", got, err)
	}
	if got, err := ed.RisingEdge(); !got || err != nil {
		t.Fatalf("lossy RisingEdge() = %t, %v", got, err)
	}
}

func TestEdgeDetector_Level(t *testing.T) {
	in := &levels{seq: []gpio.Level{gpio.Low, gpio.High, gpio.Low}}
	ed := NewEdgeDetector(in)
	if l, err := ed.Level(); l != gpio.High || err != nil {
		t.Fatalf("Level() = %s, %v", l, err)
	}
	// Level does not update the tracked level: still low, line now low.
	if got, err := ed.RisingEdge(); got || err != nil {
		t.Fatalf("RisingEdge() = %t, %v", got, err)
	}
}
