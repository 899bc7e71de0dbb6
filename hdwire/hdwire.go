// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Timings, in delay units.
const (
	busyPhase   = 4 // between the two idle checks before writing
	startPhase  = 4 // start condition
	oneHigh     = 4
	oneLow      = 4
	zeroHigh    = 2
	zeroLow     = 6
	samplePhase = 3 // edge to bit sample, and bit sample to terminator sample

	symbolUnits = oneHigh + oneLow
)

// Input is the line in input capability.
type Input interface {
	// Level returns the current logic level of the line.
	Level() (gpio.Level, error)
}

// Output is the line in output capability. gpio.PinOut implements it.
//
// Drive failures are ignored by the Line.
type Output interface {
	Out(l gpio.Level) error
}

// Opts holds the configuration options for a Line.
type Opts struct {
	// Delay performs every timed wait. Default is Sleep.
	Delay Delayer
	// MaxPolls bounds the number of consecutive line reads without a rising
	// edge while receiving. When exceeded the read fails with ErrTimeout. 0
	// means no bound: a peer that never raises the line blocks forever.
	MaxPolls int
	// ByteOrder is the order Get decodes multi-byte values in. Default is
	// binary.NativeEndian.
	ByteOrder binary.ByteOrder
	// LossyEdges makes edge polling treat read failures as "no edge" rather
	// than failing the read with ErrIO.
	LossyEdges bool
}

// DefaultOpts holds the default configuration options for a Line.
var DefaultOpts = Opts{
	Delay:     Sleep,
	ByteOrder: binary.NativeEndian,
}

type mode uint8

const (
	absent mode = iota
	input
	output
)

// slot holds the line in exactly one capability, or nothing while it is lent
// to an operation.
type slot struct {
	mode mode
	in   Input
	out  Output
}

func (s *slot) toOutput(f func(Input) Output) Output {
	if s.mode == input {
		s.out, s.in, s.mode = f(s.in), nil, output
	}
	return s.out
}

func (s *slot) toInput(f func(Output) Input) Input {
	if s.mode == output {
		s.in, s.out, s.mode = f(s.out), nil, input
	}
	return s.in
}

// Line owns one GPIO line and talks the half-duplex protocol on it.
//
// Every operation takes the line for its duration and gives it back as an
// input before returning, on success and failure alike. An operation started
// while another one holds the line fails with ErrUnavailable; a Line is not
// meant to be shared between goroutines.
type Line struct {
	toOutput func(Input) Output
	toInput  func(Output) Input
	unit     time.Duration
	opts     Opts

	mu   sync.Mutex
	slot slot
}

// New returns a Line owning in, which must already be in input capability.
//
// toOutput and toInput convert the line between its two capabilities. unit is
// handed to opts.Delay for every wait. The Opts can be nil. No I/O is done.
//
// A nil in yields a Line that holds nothing; every operation on it fails with
// ErrUnavailable.
func New(in Input, toOutput func(Input) Output, toInput func(Output) Input, unit time.Duration, opts *Opts) *Line {
	if opts == nil {
		opts = &DefaultOpts
	}
	l := &Line{toOutput: toOutput, toInput: toInput, unit: unit, opts: *opts}
	if l.opts.Delay == nil {
		l.opts.Delay = Sleep
	}
	if l.opts.ByteOrder == nil {
		l.opts.ByteOrder = binary.NativeEndian
	}
	if in != nil {
		l.slot = slot{mode: input, in: in}
	}
	return l
}

func (l *Line) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.slot.in.(fmt.Stringer); ok {
		return "hdwire{" + s.String() + "}"
	}
	return "hdwire"
}

// Halt implements conn.Resource.
//
// Between operations the line is always an input, so there is nothing to
// stop.
func (l *Line) Halt() error {
	return nil
}

// Duplex implements conn.Conn.
func (l *Line) Duplex() conn.Duplex {
	return conn.Half
}

// Tx implements conn.Conn. It sends w, then receives len(r) bytes.
func (l *Line) Tx(w, r []byte) error {
	if _, err := l.Write(w); err != nil {
		return err
	}
	_, err := l.Read(r)
	return err
}

// StreamRequest reports whether a peer is asserting the start condition,
// without taking the line.
//
// It returns nil if the line is low. Otherwise it waits one unit and returns
// ErrNoResponse, or ErrUnavailable if the Line does not hold the pin.
func (l *Line) StreamRequest() error {
	l.mu.Lock()
	if l.slot.mode == absent {
		l.mu.Unlock()
		l.skipPhase(1)
		return ErrUnavailable
	}
	lvl, err := l.slot.in.Level()
	l.mu.Unlock()
	if err != nil {
		return ioError(err)
	}
	if lvl == gpio.High {
		l.skipPhase(1)
		return ErrNoResponse
	}
	return nil
}

// Release hands the line back to the caller as an input. The Line holds
// nothing afterwards.
func (l *Line) Release() (Input, error) {
	s, err := l.take()
	if err != nil {
		return nil, err
	}
	return s.in, nil
}

// WriteByte implements io.ByteWriter. It sends one byte.
//
// It returns ErrBusy without driving the line if the peer holds it low at
// either of the two idle checks.
func (l *Line) WriteByte(c byte) error {
	s, err := l.take()
	if err != nil {
		return err
	}
	defer l.restore(&s)

	if err := checkIdle(s.in); err != nil {
		return err
	}
	l.skipPhase(busyPhase)
	if err := checkIdle(s.in); err != nil {
		return err
	}

	out := s.toOutput(l.toOutput)
	_ = out.Out(gpio.Low)
	l.skipPhase(startPhase)
	for mask := byte(0x80); mask != 0; mask >>= 1 {
		high, low := zeroHigh, zeroLow
		if c&mask != 0 {
			high, low = oneHigh, oneLow
		}
		_ = out.Out(gpio.High)
		l.skipPhase(high)
		_ = out.Out(gpio.Low)
		l.skipPhase(low)
	}
	return nil
}

// Write implements io.Writer. It sends p one byte at a time and stops at the
// first failure.
func (l *Line) Write(p []byte) (int, error) {
	for i, c := range p {
		if err := l.WriteByte(c); err != nil {
			return i, err
		}
	}
	return len(p), nil
}

// ReadByte implements io.ByteReader. It receives one byte.
//
// Bits are shifted in until the peer sends the terminator, so a peer sending
// more than 8 bits leaves only the last 8. Unless Opts.MaxPolls is set it
// spins until the terminator arrives.
func (l *Line) ReadByte() (byte, error) {
	return l.readByte(context.Background())
}

// ReadByteContext is ReadByte with cancellation. ctx is checked on every poll
// for a rising edge; once it is done the read returns ctx.Err().
func (l *Line) ReadByteContext(ctx context.Context) (byte, error) {
	return l.readByte(ctx)
}

// Read implements io.Reader. It fills p with consecutive bytes and stops at
// the first failure.
func (l *Line) Read(p []byte) (int, error) {
	return l.readFull(context.Background(), p)
}

// Sample reads the line n times, one unit apart.
func (l *Line) Sample(n int) ([]gpio.Level, error) {
	s, err := l.take()
	if err != nil {
		return nil, err
	}
	defer l.restore(&s)
	levels := make([]gpio.Level, 0, n)
	for range n {
		lvl, err := s.in.Level()
		if err != nil {
			return levels, ioError(err)
		}
		levels = append(levels, lvl)
		l.skipPhase(1)
	}
	return levels, nil
}

func (l *Line) readFull(ctx context.Context, p []byte) (int, error) {
	for i := range p {
		c, err := l.readByte(ctx)
		if err != nil {
			return i, err
		}
		p[i] = c
	}
	return len(p), nil
}

func (l *Line) readByte(ctx context.Context) (byte, error) {
	s, err := l.take()
	if err != nil {
		return 0, err
	}
	defer l.restore(&s)

	ed := NewEdgeDetector(s.in)
	ed.lossy = l.opts.LossyEdges
	done := ctx.Done()
	var data byte
	polls := 0
	for {
		rising, err := ed.RisingEdge()
		if err != nil {
			return 0, ioError(err)
		}
		if !rising {
			if done != nil {
				select {
				case <-done:
					return 0, ctx.Err()
				default:
				}
			}
			if polls++; l.opts.MaxPolls > 0 && polls > l.opts.MaxPolls {
				return 0, ErrTimeout
			}
			continue
		}
		polls = 0

		l.skipPhase(samplePhase)
		bit, err := ed.Level()
		if err != nil {
			return 0, ioError(err)
		}
		l.skipPhase(samplePhase)
		lvl, err := ed.Level()
		if err != nil {
			return 0, ioError(err)
		}
		if lvl == gpio.High {
			return data, nil
		}
		data <<= 1
		if bit == gpio.High {
			data |= 1
		}
	}
}

// take moves the line out of the Line.
func (l *Line) take() (slot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slot.mode == absent {
		return slot{}, ErrUnavailable
	}
	s := l.slot
	l.slot = slot{}
	return s, nil
}

// restore gives the line back to the Line as an input.
func (l *Line) restore(s *slot) {
	s.toInput(l.toInput)
	l.mu.Lock()
	l.slot = *s
	l.mu.Unlock()
}

func (l *Line) skipPhase(n int) {
	for range n {
		l.opts.Delay.Delay(l.unit)
	}
}

// checkIdle fails with ErrBusy if the peer holds the line low.
func checkIdle(in Input) error {
	lvl, err := in.Level()
	if err != nil {
		return ioError(err)
	}
	if lvl == gpio.Low {
		return ErrBusy
	}
	return nil
}

var _ conn.Conn = &Line{}
var _ conn.Resource = &Line{}
var _ io.ByteReader = &Line{}
var _ io.ByteWriter = &Line{}
var _ io.ReadWriter = &Line{}
