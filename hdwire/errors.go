// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire

import (
	"errors"
	"fmt"
	"strconv"
)

// Error is a failure reported by a Line.
type Error uint8

const (
	// ErrBusy means the peer held the line low during the write handshake.
	// It is transient; retry after a backoff.
	ErrBusy Error = iota + 1
	// ErrUnavailable means the Line does not hold the pin: it was released or
	// another operation is in progress. Retrying does not help.
	ErrUnavailable
	// ErrIO means reading the line level failed. Errors of this kind wrap the
	// underlying cause.
	ErrIO
	// ErrNoResponse means no peer asserted the start condition.
	ErrNoResponse
	// ErrTimeout means Opts.MaxPolls was exceeded while waiting for an edge.
	ErrTimeout
)

// ErrTargetSize is returned by Get when the target type is not a fixed-size
// value of 1 to 8 bytes.
var ErrTargetSize = errors.New("hdwire: unsupported target size")

var errorStrings = [...]string{
	ErrBusy:        "busy",
	ErrUnavailable: "unavailable",
	ErrIO:          "io",
	ErrNoResponse:  "no response",
	ErrTimeout:     "timeout",
}

// String returns the short human readable name of the error.
func (e Error) String() string {
	if int(e) < len(errorStrings) && errorStrings[e] != "" {
		return errorStrings[e]
	}
	return "Error(" + strconv.Itoa(int(e)) + ")"
}

func (e Error) Error() string {
	return "hdwire: " + e.String()
}

// ioError wraps a failed level read so that it matches both ErrIO and err.
func ioError(err error) error {
	return fmt.Errorf("%w: %w", ErrIO, err)
}
