// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// NewPin returns a Line over a periph GPIO pin.
//
// p is switched to input with the given pull. The line must idle high, either
// through pull or an external resistor. The Opts can be nil.
func NewPin(p gpio.PinIO, pull gpio.Pull, unit time.Duration, opts *Opts) (*Line, error) {
	if err := p.In(pull, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("hdwire: %s: %w", p, err)
	}
	pl := &pinLine{p: p, pull: pull}
	return New(pl, pl.output, pl.input, unit, opts), nil
}

// pinLine is a gpio.PinIO seen as either capability. The pin itself changes
// direction on conversion.
type pinLine struct {
	p    gpio.PinIO
	pull gpio.Pull
	// err is the failure of the last switch back to input.
	err error
}

func (p *pinLine) Level() (gpio.Level, error) {
	if p.err != nil {
		if p.err = p.p.In(p.pull, gpio.NoEdge); p.err != nil {
			return gpio.Low, p.err
		}
	}
	return p.p.Read(), nil
}

func (p *pinLine) Out(l gpio.Level) error {
	return p.p.Out(l)
}

func (p *pinLine) String() string {
	return p.p.String()
}

func (p *pinLine) output(Input) Output {
	// Keep the idle level until the start condition pulls the line low.
	_ = p.p.Out(gpio.High)
	return p
}

func (p *pinLine) input(Output) Input {
	p.err = p.p.In(p.pull, gpio.NoEdge)
	return p
}
