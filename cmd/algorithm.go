// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opticworks/lenshound/pkg/huskylens"
)

var algorithmCmd = &cobra.Command{
	Use:   "algorithm <name>",
	Short: "Switch the active vision algorithm",
	Long: `Switch the sensor to one of its on-board algorithms:

  face_recognition, object_tracking, object_recognition, line_tracking,
  color_recognition, tag_recognition, object_classification

Short forms (face, tracking, object, line, color, tag, classification) are
also accepted.`,
	Args: cobra.ExactArgs(1),
	RunE: runAlgorithm,
}

func init() {
	rootCmd.AddCommand(algorithmCmd)
}

func runAlgorithm(cmd *cobra.Command, args []string) error {
	algo, err := huskylens.ParseAlgorithm(args[0])
	if err != nil {
		return err
	}

	dev, bus, _, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	if err := dev.SetAlgorithm(algo); err != nil {
		return fmt.Errorf("set algorithm: %w", err)
	}

	fmt.Printf("Algorithm set to %s\n", huskylens.FormatAlgorithm(algo))
	return nil
}
