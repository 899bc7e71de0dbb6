// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package halfduplex is a container for the half-duplex single-wire driver
// and its tooling.
//
// The driver itself lives in package hdwire; hdwire/hdwiretest simulates a
// line in virtual time for tests, linescope renders sampled levels to a
// terminal and cmd/hdwire is a bench tool built on top of them.
package halfduplex
