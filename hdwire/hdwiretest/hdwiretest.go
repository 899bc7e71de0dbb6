// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hdwiretest simulates a half-duplex single-wire line in virtual time.
//
// A Bus is both the delay collaborator of the driver and the wire itself:
// every Delay advances the virtual clock by one unit and every level read by
// one tick, so a driver busy-polling the line sees time pass. A scripted peer
// waveform plays on the wire while the driver does not drive it, and what the
// driver drives is recorded.
package hdwiretest

import (
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// TicksPerUnit is the number of virtual clock ticks in one delay unit. Each
// level read costs one tick.
const TicksPerUnit = 8

// TerminatorUnits is how long EncodeFrame keeps the line high after a byte.
const TerminatorUnits = 8

// Segment is the line held at one level for a number of delay units.
type Segment struct {
	L     gpio.Level
	Units int
}

// Encode returns the waveform a sender emits for b: the start condition then
// one high/low pair per bit, most significant first. It does not include the
// trailing idle level that acts as terminator.
func Encode(b byte) []Segment {
	out := make([]Segment, 0, 17)
	out = append(out, Segment{gpio.Low, 4})
	for mask := byte(0x80); mask != 0; mask >>= 1 {
		if b&mask != 0 {
			out = append(out, Segment{gpio.High, 4}, Segment{gpio.Low, 4})
		} else {
			out = append(out, Segment{gpio.High, 2}, Segment{gpio.Low, 6})
		}
	}
	return out
}

// EncodeFrame returns the waveform for bs, each byte followed by a
// terminator.
func EncodeFrame(bs ...byte) []Segment {
	var out []Segment
	for _, b := range bs {
		out = append(out, Encode(b)...)
		out = append(out, Segment{gpio.High, TerminatorUnits})
	}
	return out
}

type event struct {
	at      int64
	driving bool
	l       gpio.Level
}

// Bus is a simulated line with its own virtual clock.
type Bus struct {
	// Idle is the level of the line when neither side drives it.
	Idle gpio.Level
	// OnDelay, if set, is called after every Delay.
	OnDelay func()

	mu      sync.Mutex
	now     int64
	delays  int
	reads   int
	peer    []Segment
	start   int64
	driving bool
	drive   gpio.Level
	events  []event
	pin     *Pin
}

// NewBus returns a Bus pulled up to high.
func NewBus() *Bus {
	return &Bus{Idle: gpio.High}
}

// Delay advances the clock by one unit. It implements hdwire.Delayer.
func (b *Bus) Delay(time.Duration) {
	b.mu.Lock()
	b.now += TicksPerUnit
	b.delays++
	f := b.OnDelay
	b.mu.Unlock()
	if f != nil {
		f()
	}
}

// Delays returns the number of Delay calls so far.
func (b *Bus) Delays() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.delays
}

// Reads returns the number of level reads so far.
func (b *Bus) Reads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reads
}

// Now returns the virtual time in ticks.
func (b *Bus) Now() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.now
}

// Send schedules the peer waveform to start now. It replaces any waveform
// still playing. After the last segment the peer releases the line.
func (b *Bus) Send(segs ...Segment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.peer = append([]Segment(nil), segs...)
	b.start = b.now
}

// Pin returns the driver side of the bus.
func (b *Bus) Pin() *Pin {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.pin == nil {
		b.pin = &Pin{Pin: gpiotest.Pin{N: "SIM", L: b.Idle, P: gpio.PullUp}, bus: b}
	}
	return b.pin
}

// Pulses returns what the driver drove as segments. Contiguous spans at the
// same level are merged and spans shorter than a unit are dropped.
func (b *Bus) Pulses() []Segment {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Segment
	last := int64(-1)
	for i, e := range b.events {
		if !e.driving {
			continue
		}
		end := b.now
		if i+1 < len(b.events) {
			end = b.events[i+1].at
		}
		units := int((end - e.at) / TicksPerUnit)
		if units == 0 {
			continue
		}
		if n := len(out); n != 0 && out[n-1].L == e.l && last == e.at {
			out[n-1].Units += units
		} else {
			out = append(out, Segment{e.l, units})
		}
		last = end
	}
	return out
}

// sample returns the level on the wire and advances the clock by one tick.
func (b *Bus) sample() (gpio.Level, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	l := b.levelLocked()
	b.now++
	b.reads++
	return l, b.reads
}

func (b *Bus) levelLocked() gpio.Level {
	if b.driving {
		return b.drive
	}
	off := b.now - b.start
	for _, s := range b.peer {
		d := int64(s.Units) * TicksPerUnit
		if off < d {
			return s.L
		}
		off -= d
	}
	return b.Idle
}

func (b *Bus) setDrive(driving bool, l gpio.Level) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.driving, b.drive = driving, l
	b.events = append(b.events, event{at: b.now, driving: driving, l: l})
}

// Pin is the driver's end of a Bus. It is a gpio.PinIO and also exposes a
// fallible Level read.
type Pin struct {
	gpiotest.Pin

	// FailLevel, if set, is called with the 1-based read count on every
	// Level call. A non-nil result fails that read.
	FailLevel func(n int) error
	// FailIn, if set, is returned by In.
	FailIn error

	bus *Bus
}

// In releases the line.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if p.FailIn != nil {
		return p.FailIn
	}
	p.Lock()
	p.P = pull
	p.Unlock()
	p.bus.setDrive(false, gpio.Low)
	return nil
}

// Read returns the level on the wire. It never fails.
func (p *Pin) Read() gpio.Level {
	l, _ := p.bus.sample()
	p.Lock()
	p.L = l
	p.Unlock()
	return l
}

// Level returns the level on the wire, failing as FailLevel dictates.
func (p *Pin) Level() (gpio.Level, error) {
	l, n := p.bus.sample()
	if p.FailLevel != nil {
		if err := p.FailLevel(n); err != nil {
			return gpio.Low, err
		}
	}
	return l, nil
}

// Out drives the line.
func (p *Pin) Out(l gpio.Level) error {
	p.Lock()
	p.L = l
	p.Unlock()
	p.bus.setDrive(true, l)
	return nil
}

var _ gpio.PinIO = &Pin{}
