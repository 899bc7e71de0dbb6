// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/GermanBionicSystems/halfduplex/hdwire"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// profile is the timing and retry configuration of one peer.
type profile struct {
	Pin          string
	Pull         gpio.Pull
	Unit         time.Duration
	Opts         hdwire.Opts
	BusyRetries  int
	RetryBackoff time.Duration
}

func defaultProfile() profile {
	return profile{
		Pin:          "GPIO4",
		Pull:         gpio.PullUp,
		Unit:         time.Millisecond,
		Opts:         hdwire.DefaultOpts,
		BusyRetries:  3,
		RetryBackoff: 10 * time.Millisecond,
	}
}

type fileConfig struct {
	Pin          string `toml:"pin"`
	Pull         string `toml:"pull"`
	Unit         string `toml:"unit"`
	BitRate      string `toml:"bit_rate"`
	Delay        string `toml:"delay"`
	MaxPolls     int    `toml:"max_polls"`
	ByteOrder    string `toml:"byte_order"`
	LossyEdges   bool   `toml:"lossy_edges"`
	BusyRetries  int    `toml:"busy_retries"`
	RetryBackoff string `toml:"retry_backoff"`
}

// loadProfile reads a TOML profile. Keys that are absent keep their default.
// bit_rate wins over unit when both are set.
func loadProfile(path string) (profile, error) {
	p := defaultProfile()
	if path == "" {
		return p, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return profile{}, fmt.Errorf("load profile: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return profile{}, fmt.Errorf("load profile: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("pin") {
		p.Pin = strings.TrimSpace(raw.Pin)
	}
	if meta.IsDefined("pull") {
		if p.Pull, err = parsePull(raw.Pull); err != nil {
			return profile{}, err
		}
	}
	if meta.IsDefined("unit") {
		if p.Unit, err = time.ParseDuration(strings.TrimSpace(raw.Unit)); err != nil {
			return profile{}, fmt.Errorf("parse unit: %w", err)
		}
	}
	if meta.IsDefined("bit_rate") {
		var f physic.Frequency
		if err := f.Set(strings.TrimSpace(raw.BitRate)); err != nil {
			return profile{}, fmt.Errorf("parse bit_rate: %w", err)
		}
		p.Unit = hdwire.UnitFor(f)
	}
	if p.Unit <= 0 {
		return profile{}, fmt.Errorf("unit must be positive, got %s", p.Unit)
	}
	if meta.IsDefined("delay") {
		switch strings.TrimSpace(raw.Delay) {
		case "sleep":
			p.Opts.Delay = hdwire.Sleep
		case "spin":
			p.Opts.Delay = hdwire.Spin
		default:
			return profile{}, fmt.Errorf("parse delay: want sleep or spin, got %q", raw.Delay)
		}
	}
	if meta.IsDefined("max_polls") {
		if raw.MaxPolls < 0 {
			return profile{}, fmt.Errorf("max_polls must not be negative, got %d", raw.MaxPolls)
		}
		p.Opts.MaxPolls = raw.MaxPolls
	}
	if meta.IsDefined("byte_order") {
		switch strings.TrimSpace(raw.ByteOrder) {
		case "native":
			p.Opts.ByteOrder = binary.NativeEndian
		case "little":
			p.Opts.ByteOrder = binary.LittleEndian
		case "big":
			p.Opts.ByteOrder = binary.BigEndian
		default:
			return profile{}, fmt.Errorf("parse byte_order: want native, little or big, got %q", raw.ByteOrder)
		}
	}
	if meta.IsDefined("lossy_edges") {
		p.Opts.LossyEdges = raw.LossyEdges
	}
	if meta.IsDefined("busy_retries") {
		p.BusyRetries = raw.BusyRetries
	}
	if meta.IsDefined("retry_backoff") {
		if p.RetryBackoff, err = time.ParseDuration(strings.TrimSpace(raw.RetryBackoff)); err != nil {
			return profile{}, fmt.Errorf("parse retry_backoff: %w", err)
		}
	}
	return p, nil
}

func parsePull(s string) (gpio.Pull, error) {
	switch strings.TrimSpace(s) {
	case "up":
		return gpio.PullUp, nil
	case "down":
		return gpio.PullDown, nil
	case "float":
		return gpio.Float, nil
	case "nochange":
		return gpio.PullNoChange, nil
	}
	return 0, fmt.Errorf("parse pull: want up, down, float or nochange, got %q", s)
}
