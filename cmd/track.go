// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/opticworks/lenshound/pkg/huskylens"
)

// Sensor image resolution in pixels
const (
	frameWidth  = 320.0
	frameHeight = 240.0
)

var (
	trackID       int
	trackDeadzone float64
	trackInterval time.Duration
)

var trackCmd = &cobra.Command{
	Use:   "track",
	Short: "Print steering corrections that keep a learned object centered",
	Long: `Continuously fetch blocks for one learned id and print the proportional
yaw/size corrections a drivetrain would apply to keep the object centered
and at constant distance. A guidance demo: it drives nothing itself.`,
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackID, "id", 1, "Learned id to track")
	trackCmd.Flags().Float64Var(&trackDeadzone, "deadzone", 0.05, "Normalized horizontal deadzone around center")
	trackCmd.Flags().DurationVar(&trackInterval, "interval", 100*time.Millisecond, "Delay between fetches")
	rootCmd.AddCommand(trackCmd)
}

// pickTarget selects the largest block carrying the tracked id
func pickTarget(blocks []huskylens.Block, id uint16) (huskylens.Block, bool) {
	var best huskylens.Block
	found := false
	for _, b := range blocks {
		if b.ID != id {
			continue
		}
		if !found || int(b.Width)*int(b.Height) > int(best.Width)*int(best.Height) {
			best = b
			found = true
		}
	}
	return best, found
}

func runTrack(cmd *cobra.Command, args []string) error {
	dev, bus, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	if err := dev.Begin(); err != nil {
		return err
	}

	fmt.Printf("Lenshound - Object Tracking Guidance\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Tracking id %d, press Ctrl+C to exit\n\n", trackID)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	// Reference area is captured the first time the object is seen; the
	// distance correction keeps the apparent size near it.
	referenceArea := 0.0

	for {
		select {
		case <-interrupt:
			fmt.Println()
			return nil
		default:
		}

		if err := dev.RequestBlocks(); err != nil {
			return fmt.Errorf("fetch: %w", err)
		}

		target, found := pickTarget(dev.Blocks(), uint16(trackID))
		if !found {
			fmt.Println("searching: object not visible, rotate to scan")
			time.Sleep(trackInterval)
			continue
		}

		// Horizontal error, normalized to -0.5..0.5 around frame center
		xErr := float64(target.XCenter)/frameWidth - 0.5

		area := float64(target.Width) * float64(target.Height) / (frameWidth * frameHeight)
		if referenceArea == 0 {
			referenceArea = area
		}
		sizeErr := area/referenceArea - 1.0

		switch {
		case xErr < -trackDeadzone:
			fmt.Printf("yaw left  %.2f  (x=%d)\n", -xErr, target.XCenter)
		case xErr > trackDeadzone:
			fmt.Printf("yaw right %.2f  (x=%d)\n", xErr, target.XCenter)
		case sizeErr > 0.15:
			fmt.Printf("back off  %.2f  (area=%.3f)\n", sizeErr, area)
		case sizeErr < -0.15:
			fmt.Printf("advance   %.2f  (area=%.3f)\n", -sizeErr, area)
		default:
			fmt.Printf("centered  (x=%d area=%.3f)\n", target.XCenter, area)
		}

		time.Sleep(trackInterval)
	}
}
