// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	textX     uint16
	textY     uint8
	textClear bool
)

var textCmd = &cobra.Command{
	Use:   "text [message]",
	Short: "Draw a text overlay on the sensor UI",
	Long: `Draw a text overlay (up to 20 characters) on the sensor screen at the
given coordinates, or clear all overlays with --clear.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runText,
}

func init() {
	textCmd.Flags().Uint16Var(&textX, "x", 0, "X coordinate of the overlay")
	textCmd.Flags().Uint8Var(&textY, "y", 0, "Y coordinate of the overlay")
	textCmd.Flags().BoolVar(&textClear, "clear", false, "Clear all overlays instead of drawing")
	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	if textClear && len(args) > 0 {
		return fmt.Errorf("--clear takes no message")
	}
	if !textClear && len(args) == 0 {
		return fmt.Errorf("either a message or --clear is required")
	}

	dev, bus, _, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	if textClear {
		if err := dev.ClearText(); err != nil {
			return err
		}
		fmt.Println("Cleared overlays")
		return nil
	}

	if err := dev.WriteText(args[0], textX, textY); err != nil {
		return err
	}
	fmt.Printf("Drew %q at (%d,%d)\n", args[0], textX, textY)
	return nil
}
