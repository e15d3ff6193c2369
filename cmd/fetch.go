// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opticworks/lenshound/pkg/huskylens"
)

var (
	fetchBlocksOnly bool
	fetchArrowsOnly bool
	fetchLearned    bool
	fetchID         int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the currently detected blocks and arrows once",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchBlocksOnly, "blocks", false, "Fetch blocks only")
	fetchCmd.Flags().BoolVar(&fetchArrowsOnly, "arrows", false, "Fetch arrows only")
	fetchCmd.Flags().BoolVar(&fetchLearned, "learned", false, "Restrict to learned objects")
	fetchCmd.Flags().IntVar(&fetchID, "id", 0, "Restrict to one learned id (0 = all)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if fetchBlocksOnly && fetchArrowsOnly {
		return fmt.Errorf("--blocks and --arrows are mutually exclusive")
	}
	if fetchLearned && fetchID != 0 {
		return fmt.Errorf("--learned and --id are mutually exclusive")
	}

	dev, bus, _, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	switch {
	case fetchID != 0 && fetchBlocksOnly:
		err = dev.RequestBlocksByID(uint16(fetchID))
	case fetchID != 0 && fetchArrowsOnly:
		err = dev.RequestArrowsByID(uint16(fetchID))
	case fetchID != 0:
		err = dev.RequestByID(uint16(fetchID))
	case fetchLearned && fetchBlocksOnly:
		err = dev.RequestBlocksLearned()
	case fetchLearned && fetchArrowsOnly:
		err = dev.RequestArrowsLearned()
	case fetchLearned:
		err = dev.RequestLearned()
	case fetchBlocksOnly:
		err = dev.RequestBlocks()
	case fetchArrowsOnly:
		err = dev.RequestArrows()
	default:
		err = dev.RequestAll()
	}
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}

	fmt.Printf("Frame %d, %d learned id(s)\n", dev.Frame(), dev.LearnedCount())

	if !fetchArrowsOnly {
		for _, b := range dev.Blocks() {
			line := huskylens.FormatBlock(b)
			if name, ok := dev.NameForID(b.ID); ok {
				line += fmt.Sprintf(" (%s)", name)
			}
			fmt.Println(line)
		}
	}
	if !fetchBlocksOnly {
		for _, a := range dev.Arrows() {
			fmt.Println(huskylens.FormatArrow(a))
		}
	}
	if len(dev.Blocks()) == 0 && len(dev.Arrows()) == 0 {
		fmt.Println("Nothing detected")
	}
	return nil
}
