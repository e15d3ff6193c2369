// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opticworks/lenshound/pkg/huskylens"
)

var knockCmd = &cobra.Command{
	Use:   "knock",
	Short: "Check that the sensor is responsive",
	Long: `Probe the bus, perform a protocol knock round-trip, and report the
device model tier and learned-object count.`,
	RunE: runKnock,
}

func init() {
	rootCmd.AddCommand(knockCmd)
}

func runKnock(cmd *cobra.Command, args []string) error {
	dev, bus, info, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	fmt.Printf("Connection: %s\n", info)

	if err := dev.Begin(); err != nil {
		if errors.Is(err, huskylens.ErrNotConnected) {
			return fmt.Errorf("no device: %w", err)
		}
		return err
	}
	fmt.Println("Knock acknowledged")

	pro, err := dev.IsPro()
	switch {
	case err != nil:
		fmt.Printf("Model tier: unknown (%v)\n", err)
	case pro:
		fmt.Println("Model tier: pro")
	default:
		fmt.Println("Model tier: standard")
	}

	fmt.Printf("Learned objects: %d\n", dev.LearnedCount())
	return nil
}
