// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Opticworks

package huskylens

import "time"

// Config holds the device configuration.
type Config struct {
	// ResyncLimit is the number of garbage bytes tolerated while hunting
	// for a frame header before a read fails with *SyncError
	ResyncLimit int

	// PollInterval is the delay between fetches in WaitForBlocks and
	// WaitForArrows
	PollInterval time.Duration

	// Logger receives debug traces of transactions (optional)
	Logger Logger
}

// Logger is an optional logging interface. It allows integration with any
// logging framework; log/slog satisfies it directly.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
}

func defaultConfig() Config {
	return Config{
		ResyncLimit:  DefaultResyncLimit,
		PollInterval: 20 * time.Millisecond,
	}
}

// Option is a functional option for configuring the Device.
type Option func(*Config)

// WithResyncLimit sets the resynchronization byte budget.
//
// Example:
//
//	dev := huskylens.New(bus, huskylens.WithResyncLimit(1024))
func WithResyncLimit(limit int) Option {
	return func(c *Config) {
		if limit > 0 {
			c.ResyncLimit = limit
		}
	}
}

// WithPollInterval sets the delay between fetches in the WaitFor helpers.
func WithPollInterval(interval time.Duration) Option {
	return func(c *Config) {
		if interval >= 0 {
			c.PollInterval = interval
		}
	}
}

// WithLogger sets a logger for transaction traces.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
