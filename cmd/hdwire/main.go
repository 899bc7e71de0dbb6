// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// hdwire talks to a peer over a half-duplex single-wire GPIO line.
//
// Usage:
//
//	hdwire [flags] probe
//	hdwire [flags] write BYTE...
//	hdwire [flags] read [N]
//	hdwire [flags] get TYPE
//	hdwire [flags] scope [N [FILE.png]]
//
// Timing comes from a TOML profile, see ex.profile.toml.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/GermanBionicSystems/halfduplex/hdwire"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

func mainImpl() error {
	profilePath := flag.String("profile", "", "TOML timing profile")
	pinName := flag.String("pin", "", "GPIO pin to use, overrides the profile")
	logLevel := flag.Int("loglevel", int(logrus.InfoLevel), "log level, 0 (panic) to 6 (trace)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: hdwire [flags] probe|write|read|get|scope [args]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	log := newLogger(logrus.Level(*logLevel))
	prof, err := loadProfile(*profilePath)
	if err != nil {
		return err
	}
	if *pinName != "" {
		prof.Pin = *pinName
	}

	if _, err := host.Init(); err != nil {
		return err
	}
	p := gpioreg.ByName(prof.Pin)
	if p == nil {
		return fmt.Errorf("no pin named %q", prof.Pin)
	}
	line, err := hdwire.NewPin(p, prof.Pull, prof.Unit, &prof.Opts)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"pin": p.String(), "unit": prof.Unit}).Debug("line ready")

	cmd := flag.Arg(0)
	c := &cli{log: log.WithField("prefix", cmd), line: line, prof: prof, out: os.Stdout}
	return c.run(cmd, flag.Args()[1:])
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "hdwire: %s.\n", err)
		os.Exit(1)
	}
}
