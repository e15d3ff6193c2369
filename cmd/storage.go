// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var photoCmd = &cobra.Command{
	Use:   "photo",
	Short: "Save a camera photo to the sensor SD card",
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, bus, _, err := OpenDevice()
		if err != nil {
			return err
		}
		defer bus.Close()

		if err := dev.SavePhoto(); err != nil {
			return err
		}
		fmt.Println("Photo requested")
		return nil
	},
}

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Save a UI screenshot to the sensor SD card",
	RunE: func(cmd *cobra.Command, args []string) error {
		dev, bus, _, err := OpenDevice()
		if err != nil {
			return err
		}
		defer bus.Close()

		if err := dev.SaveScreenshot(); err != nil {
			return err
		}
		fmt.Println("Screenshot requested")
		return nil
	},
}

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Save or load algorithm models on the sensor SD card",
}

var knowledgeSaveCmd = &cobra.Command{
	Use:   "save <file-number>",
	Short: "Save the running algorithm's model to the SD card",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKnowledge(args[0], true)
	},
}

var knowledgeLoadCmd = &cobra.Command{
	Use:   "load <file-number>",
	Short: "Load a model file from the SD card into the running algorithm",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKnowledge(args[0], false)
	},
}

func init() {
	knowledgeCmd.AddCommand(knowledgeSaveCmd)
	knowledgeCmd.AddCommand(knowledgeLoadCmd)
	rootCmd.AddCommand(photoCmd)
	rootCmd.AddCommand(screenshotCmd)
	rootCmd.AddCommand(knowledgeCmd)
}

func runKnowledge(arg string, save bool) error {
	fileNum, err := strconv.ParseUint(arg, 10, 16)
	if err != nil {
		return fmt.Errorf("invalid file number %q: %v", arg, err)
	}

	dev, bus, _, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	if save {
		if err := dev.SaveKnowledge(uint16(fileNum)); err != nil {
			return err
		}
		fmt.Printf("Model save to file %d requested\n", fileNum)
		return nil
	}

	if err := dev.LoadKnowledge(uint16(fileNum)); err != nil {
		return err
	}
	fmt.Printf("Model load from file %d requested\n", fileNum)
	return nil
}
