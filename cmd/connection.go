// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2026 Opticworks

package cmd

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/opticworks/lenshound/pkg/huskylens"
	"github.com/opticworks/lenshound/pkg/i2cdev"
)

// BusCloser is a huskylens bus that owns an underlying connection
type BusCloser interface {
	huskylens.Bus
	io.Closer
}

// streamBus adapts a byte-stream transport (serial port, WebSocket bridge)
// to the huskylens.Bus interface. The device speaks the identical packet
// format in UART mode; the register byte is simply the first wire byte.
type streamBus struct {
	r io.Reader
	w io.Writer
	c io.Closer

	br *bufio.Reader
}

func newStreamBus(rwc io.ReadWriteCloser) *streamBus {
	return &streamBus{r: rwc, w: rwc, c: rwc, br: bufio.NewReader(rwc)}
}

func (s *streamBus) ReadByte() (byte, error) {
	return s.br.ReadByte()
}

func (s *streamBus) ReadBlock(p []byte) error {
	_, err := io.ReadFull(s.br, p)
	return err
}

func (s *streamBus) WriteBlock(reg byte, data []byte) error {
	buf := make([]byte, 0, 1+len(data))
	buf = append(buf, reg)
	buf = append(buf, data...)
	_, err := s.w.Write(buf)
	return err
}

// Probe is a no-op on stream transports: there is no address ACK to check,
// so liveness comes from the protocol knock instead.
func (s *streamBus) Probe() bool {
	return true
}

func (s *streamBus) Close() error {
	return s.c.Close()
}

// serialPort wraps a serial.Port as an io.ReadWriteCloser
type serialPort struct {
	port serial.Port
}

func (s *serialPort) Read(p []byte) (int, error)  { return s.port.Read(p) }
func (s *serialPort) Write(p []byte) (int, error) { return s.port.Write(p) }
func (s *serialPort) Close() error                { return s.port.Close() }

// ErrConnectionClosed is returned when reading from a closed WebSocket connection
var ErrConnectionClosed = fmt.Errorf("websocket connection closed")

// webSocketConn adapts a WebSocket connection to an io.ReadWriteCloser
// carrying raw bus bytes in binary messages
type webSocketConn struct {
	conn      *websocket.Conn
	buf       []byte
	bufOffset int
	closed    bool
}

func (w *webSocketConn) Read(p []byte) (int, error) {
	if w.closed {
		return 0, ErrConnectionClosed
	}

	// Drain buffered data first
	if w.bufOffset < len(w.buf) {
		n := copy(p, w.buf[w.bufOffset:])
		w.bufOffset += n
		return n, nil
	}

	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.closed = true
			return 0, err
		}

		// Only binary messages carry bus bytes
		if messageType != websocket.BinaryMessage {
			continue
		}

		w.buf = data
		w.bufOffset = 0
		n := copy(p, w.buf)
		w.bufOffset = n
		return n, nil
	}
}

func (w *webSocketConn) Write(p []byte) (int, error) {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *webSocketConn) Close() error {
	return w.conn.Close()
}

// openSerialBus opens a serial port in the device's UART framing (8N1)
func openSerialBus(portName string, baudRate int) (BusCloser, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %v", portName, err)
	}

	return newStreamBus(&serialPort{port: port}), nil
}

// openWebSocketBus opens a WebSocket bus bridge with HTTP Basic auth
func openWebSocketBus(wsURL, username, password string, skipSSLVerify bool) (BusCloser, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %v", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: skipSSLVerify,
		}
	}

	headers := http.Header{}
	if username != "" && password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, wsURL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %v", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %v", err)
	}

	return newStreamBus(&webSocketConn{conn: conn}), nil
}

// getPassword retrieves the WebSocket password from environment or prompts
func getPassword() (string, error) {
	if pw := os.Getenv("LENSHOUND_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Fallback to regular input if terminal functions fail
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %v", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// OpenBus opens an I2C, serial, or WebSocket bus based on flags
func OpenBus() (BusCloser, string, error) {
	if i2cPath != "" {
		bus, err := i2cdev.Open(i2cPath, i2cAddr)
		if err != nil {
			return nil, "", err
		}
		return bus, fmt.Sprintf("I2C: %s @ 0x%02X", i2cPath, i2cAddr), nil
	}

	if portName != "" {
		bus, err := openSerialBus(portName, baudRate)
		if err != nil {
			return nil, "", err
		}
		return bus, fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate), nil
	}

	if wsURL != "" {
		password := ""
		if wsUsername != "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, "", err
			}
		}

		bus, err := openWebSocketBus(wsURL, wsUsername, password, wsNoSSLVerify)
		if err != nil {
			return nil, "", err
		}
		return bus, fmt.Sprintf("WebSocket: %s", wsURL), nil
	}

	return nil, "", fmt.Errorf("one of --i2c, --port or --url must be specified")
}

// debugLogger traces driver transactions to stderr when --verbose is set
type debugLogger struct{}

func (debugLogger) Debug(msg string, keysAndValues ...interface{}) {
	log.Printf("debug: %s %v", msg, keysAndValues)
}

// OpenDevice opens the bus and wraps it in a driver session
func OpenDevice() (*huskylens.Device, BusCloser, string, error) {
	bus, info, err := OpenBus()
	if err != nil {
		return nil, nil, "", err
	}

	opts := []huskylens.Option{}
	if resyncLimit > 0 {
		opts = append(opts, huskylens.WithResyncLimit(resyncLimit))
	}
	if verbose {
		opts = append(opts, huskylens.WithLogger(debugLogger{}))
	}

	return huskylens.New(bus, opts...), bus, info, nil
}
