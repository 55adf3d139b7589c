//go:build linux

package source

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/dshills/keyscope/internal/hotkey/key"
)

// inputEvent matches the Linux input_event struct.
type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Linux input event constants.
const (
	evKey = 1

	valueRelease = 0
	valuePress   = 1
	valueRepeat  = 2
)

// Evdev reads raw key transitions from a Linux input device. Unlike
// the terminal source it sees true key-up events and auto-repeat, so
// sequences like "hold ctrl, tap k, tap d" work exactly as typed.
//
// Reading /dev/input requires membership in the input group or root.
type Evdev struct {
	device string

	mu      sync.Mutex
	file    *os.File
	handler func(key.Event)
	closed  bool
}

// NewEvdev creates an evdev source. An empty device path autodetects
// the first readable keyboard.
func NewEvdev(device string) *Evdev {
	return &Evdev{device: device}
}

// Attach opens the input device and starts delivering transitions.
func (e *Evdev) Attach(handler func(key.Event)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrSourceClosed
	}
	if e.handler != nil {
		return ErrAlreadyAttached
	}

	file, err := e.openDevice()
	if err != nil {
		return err
	}

	e.file = file
	e.handler = handler
	go e.readLoop(file)

	return nil
}

// Detach stops delivery and closes the device. Closing the file
// unblocks the read loop, which exits on its own.
func (e *Evdev) Detach() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handler = nil
	if e.file != nil {
		err := e.file.Close()
		e.file = nil
		return err
	}
	return nil
}

// Close detaches and marks the source unusable.
func (e *Evdev) Close() error {
	err := e.Detach()
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return err
}

// openDevice opens the configured device, or the first readable
// keyboard found by discovery.
func (e *Evdev) openDevice() (*os.File, error) {
	if e.device != "" {
		file, err := os.OpenFile(e.device, os.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			return nil, fmt.Errorf("open input device %s: %w", e.device, err)
		}
		return file, nil
	}

	devices, err := findKeyboardDevices()
	if err != nil {
		return nil, fmt.Errorf("find keyboard devices: %w", err)
	}
	for _, dev := range devices {
		file, err := os.OpenFile(dev, os.O_RDONLY|unix.O_NONBLOCK, 0)
		if err == nil {
			return file, nil
		}
	}
	return nil, ErrNoKeyboard
}

// readLoop parses input events until the device is closed.
func (e *Evdev) readLoop(file *os.File) {
	eventSize := binary.Size(inputEvent{})
	buf := make([]byte, eventSize)

	for {
		if _, err := io.ReadFull(file, buf); err != nil {
			return
		}

		var ev inputEvent
		if err := binary.Read(bytes.NewReader(buf), binary.LittleEndian, &ev); err != nil {
			continue
		}
		if ev.Type != evKey {
			continue
		}

		name, ok := keyCodeName(ev.Code)
		if !ok {
			continue
		}

		e.mu.Lock()
		handler := e.handler
		e.mu.Unlock()
		if handler == nil {
			return
		}

		switch ev.Value {
		case valuePress:
			handler(key.Down(name))
		case valueRelease:
			handler(key.Up(name))
		case valueRepeat:
			handler(key.Event{Name: name, Kind: key.KeyDown, Repeat: true, When: time.Now()})
		}
	}
}

// findKeyboardDevices finds /dev/input devices that look like keyboards.
func findKeyboardDevices() ([]string, error) {
	f, err := os.Open("/proc/bus/input/devices")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	devices := parseKeyboardDevices(f)

	// Stable fallback names exposed by udev.
	matches, _ := filepath.Glob("/dev/input/by-id/*-kbd")
	devices = append(devices, matches...)

	return devices, nil
}

// parseKeyboardDevices scans /proc/bus/input/devices output for
// devices with key capabilities and an event handler.
func parseKeyboardDevices(r io.Reader) []string {
	var devices []string

	scanner := bufio.NewScanner(r)
	var currentHandler string
	isKeyboard := false

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "H: Handlers=") {
			for _, part := range strings.Fields(line) {
				if strings.HasPrefix(part, "event") {
					currentHandler = "/dev/input/" + part
				}
			}
		}

		if strings.HasPrefix(line, "B: KEY=") {
			// A long key bitmap means real keys rather than a power
			// button or mouse, which report only a few bits.
			if len(line) > 40 {
				isKeyboard = true
			}
		}

		if line == "" {
			if isKeyboard && currentHandler != "" {
				devices = append(devices, currentHandler)
			}
			currentHandler = ""
			isKeyboard = false
		}
	}

	if isKeyboard && currentHandler != "" {
		devices = append(devices, currentHandler)
	}

	return devices
}
