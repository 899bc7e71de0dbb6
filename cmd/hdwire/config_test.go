// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/GermanBionicSystems/halfduplex/hdwire"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write profile: %v", err)
	}
	return path
}

func TestLoadProfileDefaults(t *testing.T) {
	p, err := loadProfile("")
	if err != nil {
		t.Fatal(err)
	}
	if p.Pin != "GPIO4" || p.Pull != gpio.PullUp || p.Unit != time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	if p.Opts.ByteOrder != binary.NativeEndian || p.Opts.MaxPolls != 0 {
		t.Fatalf("unexpected driver defaults: %+v", p.Opts)
	}
}

func TestLoadProfileExample(t *testing.T) {
	p, err := loadProfile("ex.profile.toml")
	if err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if p.Pin != "GPIO4" {
		t.Fatalf("unexpected pin: %q", p.Pin)
	}
	if p.Pull != gpio.Float {
		t.Fatalf("unexpected pull: %s", p.Pull)
	}
	if want := hdwire.UnitFor(2 * physic.KiloHertz); p.Unit != want {
		t.Fatalf("unexpected unit: %s, want %s", p.Unit, want)
	}
	if p.Opts.MaxPolls != 200000 {
		t.Fatalf("unexpected max polls: %d", p.Opts.MaxPolls)
	}
	if p.Opts.ByteOrder != binary.LittleEndian {
		t.Fatalf("unexpected byte order: %s", p.Opts.ByteOrder)
	}
	if p.BusyRetries != 5 || p.RetryBackoff != 5*time.Millisecond {
		t.Fatalf("unexpected retry policy: %d, %s", p.BusyRetries, p.RetryBackoff)
	}
}

func TestLoadProfileUnit(t *testing.T) {
	p, err := loadProfile(writeProfile(t, `unit = "250us"`))
	if err != nil {
		t.Fatal(err)
	}
	if p.Unit != 250*time.Microsecond {
		t.Fatalf("unexpected unit: %s", p.Unit)
	}
}

func TestLoadProfileErrors(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		want    string
	}{
		{"pull", `pull = "sideways"`, "parse pull"},
		{"unit", `unit = "soon"`, "parse unit"},
		{"zero unit", `unit = "0s"`, "unit must be positive"},
		{"bit rate", `bit_rate = "fast"`, "parse bit_rate"},
		{"delay", `delay = "nap"`, "parse delay"},
		{"byte order", `byte_order = "middle"`, "parse byte_order"},
		{"max polls", `max_polls = -1`, "max_polls"},
		{"backoff", `retry_backoff = "x"`, "parse retry_backoff"},
		{"unknown", `pins = "GPIO4"`, "unknown key"},
		{"syntax", `pin = `, "load profile"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadProfile(writeProfile(t, tc.content))
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("loadProfile() = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestLoadProfileMissing(t *testing.T) {
	if _, err := loadProfile(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected an error")
	}
}
