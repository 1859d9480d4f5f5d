// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger wraps logrus behind a small package-level API. Progress
// output meant for the user goes to an io.Writer in the stage packages;
// this logger carries diagnostics (request traces, timings, failures).
package logger

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the log level and text formatter. Level is a logrus level
// name: panic, fatal, error, warn, info, debug, trace.
func Init(level string) error {
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)

	return nil
}

// Debug logs a debug message with optional structured fields.
func Debug(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		log.WithFields(fields[0]).Debug(msg)
	} else {
		log.Debug(msg)
	}
}

// Info logs an info message with optional structured fields.
func Info(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		log.WithFields(fields[0]).Info(msg)
	} else {
		log.Info(msg)
	}
}

// Warn logs a warning message with optional structured fields.
func Warn(msg string, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		log.WithFields(fields[0]).Warn(msg)
	} else {
		log.Warn(msg)
	}
}

// Error logs an error with a message and optional structured fields.
func Error(msg string, err error, fields ...map[string]interface{}) {
	if len(fields) > 0 {
		log.WithFields(fields[0]).WithError(err).Error(msg)
	} else {
		log.WithError(err).Error(msg)
	}
}
