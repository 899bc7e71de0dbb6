// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire_test

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/halfduplex/hdwire"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	p := gpioreg.ByName("GPIO4")
	if p == nil {
		log.Fatal("no GPIO4")
	}

	// A 1 kHz bit rate gives a unit of 125µs; spin to keep the timing tight.
	opts := hdwire.DefaultOpts
	opts.Delay = hdwire.Spin
	l, err := hdwire.NewPin(p, gpio.PullUp, hdwire.UnitFor(physic.KiloHertz), &opts)
	if err != nil {
		log.Fatal(err)
	}

	// Send a command, backing off while the sensor holds the line.
	for {
		err := l.WriteByte(0x01)
		if err == nil {
			break
		}
		if !errors.Is(err, hdwire.ErrBusy) {
			log.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	// Wait for the answer and read it as a 16 bit value.
	for {
		err := l.StreamRequest()
		if err == nil {
			break
		}
		if !errors.Is(err, hdwire.ErrNoResponse) {
			log.Fatal(err)
		}
	}
	v, err := hdwire.Get[uint16](l)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("0x%04x\n", v)
}
