// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// I2C connection flags
	i2cPath string
	i2cAddr uint16

	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Driver flags
	resyncLimit int
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "lenshound",
	Short: "HuskyLens vision sensor tool",
	Long: `Lenshound - A CLI tool for driving the HuskyLens vision sensor.

Fetches detected blocks and arrows, switches algorithms, trains and names
objects, draws UI overlays, and records detection streams for replay.

Connection modes:
  I2C:       --i2c /dev/i2c-1 [--addr 0x32]
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the LENSHOUND_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version: "1.2.0",
}

func init() {
	// I2C connection flags
	rootCmd.PersistentFlags().StringVarP(&i2cPath, "i2c", "i", "", "I2C adapter device (e.g. /dev/i2c-1)")
	rootCmd.PersistentFlags().Uint16Var(&i2cAddr, "addr", 0x32, "I2C peripheral address")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device (UART mode)")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	// Driver flags
	rootCmd.PersistentFlags().IntVar(&resyncLimit, "resync-limit", 0, "Resynchronization byte budget (0 = default)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Trace protocol transactions")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
