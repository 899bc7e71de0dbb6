// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire

import (
	"time"

	"periph.io/x/conn/v3/physic"
)

// Delayer suspends the caller for one delay unit.
//
// The unit is opaque to the driver; it is only ever passed back to the
// Delayer, which may interpret it as wall time, ticks or anything else.
type Delayer interface {
	Delay(unit time.Duration)
}

// DelayFunc adapts a function to the Delayer interface.
type DelayFunc func(unit time.Duration)

// Delay implements Delayer.
func (f DelayFunc) Delay(unit time.Duration) {
	f(unit)
}

// Sleep waits with time.Sleep. It lets the Go scheduler run other work but
// its accuracy depends on the OS timer resolution.
var Sleep Delayer = DelayFunc(time.Sleep)

// Spin busy-waits on the monotonic clock without yielding. It is accurate to
// a few microseconds at the cost of a fully used CPU.
var Spin Delayer = DelayFunc(spin)

func spin(d time.Duration) {
	for end := time.Now().Add(d); time.Now().Before(end); {
	}
}

// UnitFor returns the delay unit matching a nominal bit rate. Every bit
// symbol lasts symbolUnits units.
func UnitFor(f physic.Frequency) time.Duration {
	if f <= 0 {
		return 0
	}
	return f.Period() / symbolUnits
}
