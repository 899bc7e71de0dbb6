// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package linescope

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/maruel/ansi256"
	"periph.io/x/conn/v3/gpio"
)

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriter(&buf, nil)
	levels := []gpio.Level{gpio.High, gpio.Low, gpio.Low, gpio.High}
	n, err := d.Render(levels)
	if err != nil || n != 4 {
		t.Fatalf("Render() = %d, %v", n, err)
	}
	high := ansi256.Default.Block(DefaultOpts.High)
	low := ansi256.Default.Block(DefaultOpts.Low)
	want := "\r\033[0m" + high + low + low + high + "\033[0m "
	if got := buf.String(); got != want {
		t.Errorf("Render() wrote %q, want %q", got, want)
	}
}

func TestRender_wrap(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOpts
	opts.Width = 2
	d := NewWriter(&buf, &opts)
	if _, err := d.Render([]gpio.Level{gpio.High, gpio.High, gpio.Low, gpio.Low, gpio.High}); err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(buf.String(), "\n"); n != 2 {
		t.Errorf("%d line breaks in %q", n, buf.String())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestRender_writeError(t *testing.T) {
	d := NewWriter(failWriter{}, nil)
	if n, err := d.Render([]gpio.Level{gpio.High}); n != 0 || err == nil {
		t.Fatalf("Render() = %d, %v", n, err)
	}
}

func TestHalt(t *testing.T) {
	var buf bytes.Buffer
	d := NewWriter(&buf, nil)
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "\n\033[0m" {
		t.Errorf("Halt() wrote %q", got)
	}
	if s := d.String(); s != "LineScope" {
		t.Errorf("String() = %q", s)
	}
}
