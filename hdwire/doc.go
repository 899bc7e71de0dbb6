// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package hdwire drives a half-duplex single-wire link bit-banged over one
// GPIO line.
//
// The same line is used to send and to receive. It idles high through a
// pull-up; each side only drives it while transmitting and otherwise leaves
// it as an input.
//
// # Protocol
//
// All timings are multiples of a delay unit chosen by the caller.
//
// A byte is sent as a start condition (line low for 4 units) followed by 8
// bits, most significant first. A 1 is high for 4 units then low for 4; a 0
// is high for 2 units then low for 6. Before driving the line the sender
// samples it twice, 4 units apart, and backs off if the peer holds it low.
//
// The receiver waits for a rising edge, samples 3 units later to get the bit
// and 3 units after that to look for the terminator: a line still high 6
// units after the edge ends the byte. A sender releasing the line after its
// last bit produces exactly that terminator.
package hdwire
