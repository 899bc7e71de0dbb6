// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package hdwire

import (
	"context"
	"encoding/binary"
	"fmt"
	"reflect"
)

// bufSize is the largest value Get can decode.
const bufSize = 8

// Get receives a fixed-size value of type T, one byte per ReadByte, and
// decodes it in Opts.ByteOrder.
//
// T must have a fixed encoded size of 1 to 8 bytes as defined by
// encoding/binary: sized integers, floats, bools, and arrays or structs of
// them. Struct fields must be exported or blank. Other types fail with
// ErrTargetSize before the line is touched.
//
// Reception stops at the first failing byte and its error is returned.
func Get[T any](l *Line) (T, error) {
	var v T
	n := binary.Size(v)
	if n < 1 || n > bufSize || !settable(reflect.TypeFor[T]()) {
		return v, fmt.Errorf("%w: %T (%d bytes)", ErrTargetSize, v, n)
	}
	var buf [bufSize]byte
	if _, err := l.readFull(context.Background(), buf[:n]); err != nil {
		return v, err
	}
	if _, err := binary.Decode(buf[:n], l.opts.ByteOrder, &v); err != nil {
		return v, fmt.Errorf("hdwire: decode %T: %w", v, err)
	}
	return v, nil
}

// settable reports whether encoding/binary can decode into every field of t.
func settable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Array:
		return settable(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.Name == "_" {
				continue
			}
			if !f.IsExported() || !settable(f.Type) {
				return false
			}
		}
	}
	return true
}
