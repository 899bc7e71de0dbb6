// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	prefixed "github.com/BertoldVdb/logrus-prefixed-formatter"
	"github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// newLogger returns the tool's root logger writing to stderr.
func newLogger(level logrus.Level) *logrus.Entry {
	logrus.ErrorKey = "$error"
	logger := logrus.New()
	logger.SetOutput(colorable.NewColorableStderr())
	logger.SetLevel(level)
	f := new(prefixed.TextFormatter)
	f.TimestampFormat = "2006-01-02 15:04:05.000"
	f.FullTimestamp = true
	f.PrefixPadding = 8
	logger.SetFormatter(f)
	return logrus.NewEntry(logger)
}
