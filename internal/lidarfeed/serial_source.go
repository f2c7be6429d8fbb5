package lidarfeed

import (
	"bufio"
	"fmt"
	"sync"

	"go.bug.st/serial"
)

// SerialLineSource reads lines directly from a serial port the sensor is
// wired to. Grounded on radar.RadarPort's Events()/Monitor() shape
// (radar/serial.go), adapted here to the synchronous LineSource contract.
type SerialLineSource struct {
	port  serial.Port
	lines chan string

	mu  sync.Mutex
	err error
}

// NewSerialLineSource opens portName at baud and begins streaming its lines.
func NewSerialLineSource(portName string, baud int) (*SerialLineSource, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: 1,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("lidarfeed: open serial port %s: %w", portName, err)
	}

	s := &SerialLineSource{
		port:  port,
		lines: make(chan string),
	}
	go s.scan()
	return s, nil
}

func (s *SerialLineSource) scan() {
	defer close(s.lines)

	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		s.lines <- scanner.Text()
	}

	if err := scanner.Err(); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
	}
}

func (s *SerialLineSource) Lines() <-chan string {
	return s.lines
}

func (s *SerialLineSource) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *SerialLineSource) Close() error {
	return s.port.Close()
}
