// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var learnSame bool

var learnCmd = &cobra.Command{
	Use:   "learn [id]",
	Short: "Train the on-screen object",
	Long: `Train the object currently centered on the sensor screen.

With an explicit id that id is used; without one the next consecutive id is
assigned. --same trains another sample of the most recently learned id.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLearn,
}

var forgetCmd = &cobra.Command{
	Use:   "forget",
	Short: "Forget all learned objects for the running algorithm",
	RunE:  runForget,
}

var nameCmd = &cobra.Command{
	Use:   "name <id> <name>",
	Short: "Assign a display name to a learned id",
	Long: `Assign a display name to a learned id. The device shows the name on its
screen but offers no readback, so the association is also kept in this
session for labeling fetched results.`,
	Args: cobra.ExactArgs(2),
	RunE: runName,
}

func init() {
	learnCmd.Flags().BoolVar(&learnSame, "same", false, "Train another sample of the last learned id")
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(forgetCmd)
	rootCmd.AddCommand(nameCmd)
}

func runLearn(cmd *cobra.Command, args []string) error {
	dev, bus, _, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	// Seed the learned-id counter so consecutive assignment continues from
	// the device's numbering.
	if err := dev.Begin(); err != nil {
		return err
	}

	switch {
	case len(args) == 1:
		id, err := strconv.ParseUint(args[0], 10, 16)
		if err != nil {
			return fmt.Errorf("invalid id %q: %v", args[0], err)
		}
		if err := dev.Learn(uint16(id)); err != nil {
			return err
		}
		fmt.Printf("Learning under id %d\n", id)
	case learnSame:
		if err := dev.LearnSame(); err != nil {
			return err
		}
		fmt.Printf("Learning another sample of id %d\n", dev.LearnedCount())
	default:
		id, err := dev.LearnNew()
		if err != nil {
			return err
		}
		fmt.Printf("Learning under new id %d\n", id)
	}
	return nil
}

func runForget(cmd *cobra.Command, args []string) error {
	dev, bus, _, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	if err := dev.Forget(); err != nil {
		return err
	}
	fmt.Println("Forgot all learned objects")
	return nil
}

func runName(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid id %q: %v", args[0], err)
	}

	dev, bus, _, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	if err := dev.SetName(uint16(id), args[1]); err != nil {
		return err
	}
	fmt.Printf("Named id %d %q\n", id, args[1])
	return nil
}
