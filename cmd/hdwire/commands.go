// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/GermanBionicSystems/halfduplex/hdwire"
	"github.com/GermanBionicSystems/halfduplex/linescope"
	"github.com/fogleman/gg"
	"github.com/sirupsen/logrus"
)

// cli runs one command against a line.
type cli struct {
	log  *logrus.Entry
	line *hdwire.Line
	prof profile
	out  io.Writer
	// sleep waits between retries.
	sleep func(time.Duration)
}

func (c *cli) run(cmd string, args []string) error {
	if c.sleep == nil {
		c.sleep = time.Sleep
	}
	switch cmd {
	case "probe":
		return c.probe()
	case "write":
		return c.write(args)
	case "read":
		return c.read(args)
	case "get":
		return c.get(args)
	case "scope":
		return c.scope(args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// retry calls f until it succeeds, fails with an error that is not transient
// or the profile's retries are exhausted.
func (c *cli) retry(op string, f func() error) error {
	for attempt := 0; ; attempt++ {
		err := f()
		if err == nil {
			return nil
		}
		if attempt >= c.prof.BusyRetries || !(errors.Is(err, hdwire.ErrBusy) || errors.Is(err, hdwire.ErrNoResponse)) {
			return fmt.Errorf("%s: %w", op, err)
		}
		c.log.WithError(err).WithField("attempt", attempt+1).Debugf("%s: retrying in %s", op, c.prof.RetryBackoff)
		c.sleep(c.prof.RetryBackoff)
	}
}

func (c *cli) probe() error {
	if err := c.retry("probe", c.line.StreamRequest); err != nil {
		return err
	}
	c.log.Info("peer is asserting the start condition")
	return nil
}

func (c *cli) write(args []string) error {
	if len(args) == 0 {
		return errors.New("write: no bytes given")
	}
	data, err := parseBytes(args)
	if err != nil {
		return err
	}
	for i, b := range data {
		if err := c.retry("write", func() error { return c.line.WriteByte(b) }); err != nil {
			return fmt.Errorf("byte %d: %w", i, err)
		}
	}
	c.log.WithField("bytes", len(data)).Info("sent")
	return nil
}

func (c *cli) read(args []string) error {
	n, err := countArg(args, 1)
	if err != nil {
		return err
	}
	buf := make([]byte, n)
	got, err := c.line.Read(buf)
	if got != 0 {
		fmt.Fprint(c.out, hex.Dump(buf[:got]))
	}
	if err != nil {
		return fmt.Errorf("read: byte %d: %w", got, err)
	}
	return nil
}

func (c *cli) get(args []string) error {
	if len(args) != 1 {
		return errors.New("get: want exactly one type")
	}
	var v any
	var err error
	switch args[0] {
	case "u8":
		v, err = hdwire.Get[uint8](c.line)
	case "i8":
		v, err = hdwire.Get[int8](c.line)
	case "u16":
		v, err = hdwire.Get[uint16](c.line)
	case "i16":
		v, err = hdwire.Get[int16](c.line)
	case "u32":
		v, err = hdwire.Get[uint32](c.line)
	case "i32":
		v, err = hdwire.Get[int32](c.line)
	case "u64":
		v, err = hdwire.Get[uint64](c.line)
	case "i64":
		v, err = hdwire.Get[int64](c.line)
	case "f32":
		v, err = hdwire.Get[float32](c.line)
	case "f64":
		v, err = hdwire.Get[float64](c.line)
	default:
		return fmt.Errorf("get: unknown type %q", args[0])
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", args[0], err)
	}
	fmt.Fprintln(c.out, v)
	return nil
}

func (c *cli) scope(args []string) error {
	var png string
	if len(args) == 2 {
		args, png = args[:1], args[1]
		if !strings.HasSuffix(png, ".png") {
			return fmt.Errorf("scope: %q is not a .png file", png)
		}
	}
	n, err := countArg(args, 80)
	if err != nil {
		return err
	}
	levels, err := c.line.Sample(n)
	if err != nil {
		return fmt.Errorf("scope: %w", err)
	}
	if png != "" {
		img, err := linescope.Plot(levels, &linescope.PlotOpts{
			Fg:     linescope.DefaultPlotOpts.Fg,
			Bg:     linescope.DefaultPlotOpts.Bg,
			Label:  fmt.Sprintf("%d x %s", n, c.prof.Unit),
			Height: linescope.DefaultPlotOpts.Height,
		})
		if err != nil {
			return err
		}
		if err := gg.SavePNG(png, img); err != nil {
			return err
		}
		c.log.WithField("file", png).Info("trace saved")
		return nil
	}
	d := linescope.NewWriter(c.out, &linescope.Opts{
		High:  linescope.DefaultOpts.High,
		Low:   linescope.DefaultOpts.Low,
		Width: 80,
	})
	if _, err := d.Render(levels); err != nil {
		return err
	}
	return d.Halt()
}

// parseBytes accepts decimal, 0x hex, 0b binary and 0o octal literals.
func parseBytes(args []string) ([]byte, error) {
	out := make([]byte, 0, len(args))
	for _, a := range args {
		v, err := strconv.ParseUint(a, 0, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q: %w", a, err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

func countArg(args []string, def int) (int, error) {
	switch len(args) {
	case 0:
		return def, nil
	case 1:
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return 0, fmt.Errorf("invalid count %q", args[0])
		}
		return n, nil
	}
	return 0, errors.New("too many arguments")
}
