// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/opticworks/lenshound/pkg/huskylens"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live detection view",
	Long: `Continuously fetch blocks and arrows and render them in a live terminal
view, with session statistics.

Keys:
  t  draw a text overlay on the sensor screen
  c  clear overlays
  l  learn the on-screen object under the next id
  f  forget all learned objects
  q  quit`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 100*time.Millisecond, "Delay between fetches")
	rootCmd.AddCommand(watchCmd)
}

//////////////////////////////////////////////////////////////
// Messages
//////////////////////////////////////////////////////////////

type fetchDoneMsg struct {
	blocks  []huskylens.Block
	arrows  []huskylens.Arrow
	learned uint16
	frame   uint16
	stats   huskylens.Statistics
	err     error
}

type actionDoneMsg struct {
	note string
	err  error
}

//////////////////////////////////////////////////////////////
// Model
//////////////////////////////////////////////////////////////

// deviceAction is applied between fetches, when the bus is quiet
type deviceAction func(*huskylens.Device) (string, error)

type watchModel struct {
	dev      *huskylens.Device
	connInfo string
	interval time.Duration

	blocks  []huskylens.Block
	arrows  []huskylens.Arrow
	learned uint16
	frame   uint16
	stats   huskylens.Statistics

	lastErr   error
	lastNote  string
	width     int
	height    int
	quitting  bool
	textMode  bool
	textInput textinput.Model
	pending   []deviceAction
}

func newWatchModel(dev *huskylens.Device, connInfo string, interval time.Duration) watchModel {
	ti := textinput.New()
	ti.Placeholder = "overlay text"
	ti.CharLimit = huskylens.MaxOverlayTextLen

	return watchModel{
		dev:       dev,
		connInfo:  connInfo,
		interval:  interval,
		textInput: ti,
	}
}

// fetchCmd runs one fetch plus any queued device actions. The driver is
// single-threaded by contract, so all bus traffic stays inside this one
// command; at most one instance is in flight at a time.
func (m watchModel) fetchCmd() tea.Cmd {
	dev := m.dev
	pending := m.pending
	interval := m.interval

	return func() tea.Msg {
		var lastNote string
		for _, action := range pending {
			note, err := action(dev)
			if err != nil {
				return actionDoneMsg{note: note, err: err}
			}
			lastNote = note
		}
		if lastNote != "" {
			return actionDoneMsg{note: lastNote}
		}

		time.Sleep(interval)
		err := dev.RequestAll()
		return fetchDoneMsg{
			blocks:  dev.Blocks(),
			arrows:  dev.Arrows(),
			learned: dev.LearnedCount(),
			frame:   dev.Frame(),
			stats:   dev.Stats(),
			err:     err,
		}
	}
}

func (m watchModel) Init() tea.Cmd {
	return m.fetchCmd()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case fetchDoneMsg:
		m.pending = nil
		if msg.err != nil {
			m.lastErr = msg.err
		} else {
			m.lastErr = nil
			m.blocks = msg.blocks
			m.arrows = msg.arrows
			m.learned = msg.learned
			m.frame = msg.frame
		}
		m.stats = msg.stats
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.fetchCmd()

	case actionDoneMsg:
		m.pending = nil
		m.lastErr = msg.err
		m.lastNote = msg.note
		if m.quitting {
			return m, tea.Quit
		}
		return m, m.fetchCmd()

	case tea.KeyMsg:
		if m.textMode {
			return m.updateTextMode(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			// Let the in-flight fetch drain before quitting
			return m, nil
		case "t":
			m.textMode = true
			m.textInput.Focus()
			return m, textinput.Blink
		case "c":
			m.pending = append(m.pending, func(dev *huskylens.Device) (string, error) {
				return "overlays cleared", dev.ClearText()
			})
			return m, nil
		case "l":
			m.pending = append(m.pending, func(dev *huskylens.Device) (string, error) {
				id, err := dev.LearnNew()
				return fmt.Sprintf("learning id %d", id), err
			})
			return m, nil
		case "f":
			m.pending = append(m.pending, func(dev *huskylens.Device) (string, error) {
				return "forgot all learned objects", dev.Forget()
			})
			return m, nil
		}
	}

	return m, nil
}

func (m watchModel) updateTextMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := m.textInput.Value()
		m.textMode = false
		m.textInput.Reset()
		if text == "" {
			return m, nil
		}
		m.pending = append(m.pending, func(dev *huskylens.Device) (string, error) {
			return fmt.Sprintf("drew %q", text), dev.WriteText(text, 0, 0)
		})
		return m, nil
	case "esc":
		m.textMode = false
		m.textInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

//////////////////////////////////////////////////////////////
// View
//////////////////////////////////////////////////////////////

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))
)

func (m watchModel) View() string {
	if m.quitting {
		return "Closing session...\n"
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Lenshound - Live Detections"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%s | frame %d | %d learned id(s)", m.connInfo, m.frame, m.learned)))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("Blocks (%d)", len(m.blocks))))
	b.WriteString("\n")
	if len(m.blocks) == 0 {
		b.WriteString(dimStyle.Render("  none\n"))
	}
	for _, blk := range m.blocks {
		line := fmt.Sprintf("  id=%-3d center=(%3d,%3d) size=%3dx%-3d", blk.ID, blk.XCenter, blk.YCenter, blk.Width, blk.Height)
		if name, ok := m.dev.NameForID(blk.ID); ok {
			line += " " + name
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n")

	b.WriteString(headerStyle.Render(fmt.Sprintf("Arrows (%d)", len(m.arrows))))
	b.WriteString("\n")
	if len(m.arrows) == 0 {
		b.WriteString(dimStyle.Render("  none\n"))
	}
	for _, arw := range m.arrows {
		b.WriteString(fmt.Sprintf("  id=%-3d (%3d,%3d) -> (%3d,%3d)\n", arw.ID, arw.XOrigin, arw.YOrigin, arw.XTarget, arw.YTarget))
	}
	b.WriteString("\n")

	b.WriteString(dimStyle.Render(m.stats.Summary()))
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("error: %v", m.lastErr)))
		b.WriteString("\n")
	} else if m.lastNote != "" {
		b.WriteString(noteStyle.Render(m.lastNote))
		b.WriteString("\n")
	}

	if m.textMode {
		b.WriteString("\n" + m.textInput.View() + dimStyle.Render("  (enter to send, esc to cancel)"))
	} else {
		b.WriteString("\n" + dimStyle.Render("t text | c clear | l learn | f forget | q quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func runWatch(cmd *cobra.Command, args []string) error {
	dev, bus, connInfo, err := OpenDevice()
	if err != nil {
		return err
	}
	defer bus.Close()

	if err := dev.Begin(); err != nil {
		return err
	}

	p := tea.NewProgram(newWatchModel(dev, connInfo, watchInterval))
	_, err = p.Run()
	return err
}
