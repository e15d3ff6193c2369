// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/opticworks/lenshound/pkg/capture"
	"github.com/opticworks/lenshound/pkg/huskylens"
)

var (
	recordOutput   string
	recordInterval time.Duration
	recordCount    int
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Poll the sensor and record detections to a CBOR log",
	Long: `Continuously fetch blocks and arrows and append one CBOR record per
fetch to the output file. Stop with Ctrl+C or after --count fetches.

Replay a log with 'lenshound replay'.`,
	RunE: runRecord,
}

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Print a recorded detection log",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func init() {
	recordCmd.Flags().StringVarP(&recordOutput, "output", "o", "detections.cbor", "Output file")
	recordCmd.Flags().DurationVar(&recordInterval, "interval", 100*time.Millisecond, "Delay between fetches")
	recordCmd.Flags().IntVar(&recordCount, "count", 0, "Stop after this many fetches (0 = until interrupted)")
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(replayCmd)
}

func runRecord(cmd *cobra.Command, args []string) error {
	dev, bus, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	f, err := os.Create(recordOutput)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("Lenshound - Detection Recorder\n")
	fmt.Printf("Connection: %s\n", connInfo)
	fmt.Printf("Recording to %s, press Ctrl+C to stop\n\n", recordOutput)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	w := capture.NewWriter(f)
	written := 0

	for {
		select {
		case <-interrupt:
			fmt.Printf("\n%d record(s) written\n", written)
			return nil
		default:
		}

		if err := dev.RequestAll(); err != nil {
			// Transient bus noise is expected; log and keep polling.
			if errors.Is(err, huskylens.ErrBusy) || errors.Is(err, huskylens.ErrInvalidResponse) {
				log.Printf("fetch: %v", err)
				time.Sleep(recordInterval)
				continue
			}
			return fmt.Errorf("fetch: %w", err)
		}

		if err := w.Write(capture.Snapshot(dev)); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		written++

		if recordCount > 0 && written >= recordCount {
			fmt.Printf("%d record(s) written\n", written)
			return nil
		}
		time.Sleep(recordInterval)
	}
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	r := capture.NewReader(f)
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read record: %w", err)
		}

		fmt.Printf("[%s] frame=%d learned=%d\n",
			rec.Time.Format("15:04:05.000"), rec.Frame, rec.Learned)
		for _, b := range rec.Blocks {
			fmt.Printf("  %s\n", huskylens.FormatBlock(b))
		}
		for _, a := range rec.Arrows {
			fmt.Printf("  %s\n", huskylens.FormatArrow(a))
		}
	}
}
