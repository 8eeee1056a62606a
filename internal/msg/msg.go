// internal/msg/msg.go

// Package msg holds the fixed-size frame exchanged between the scheduler
// and the owner of a task.
package msg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Request identifies what a frame is about.
type Request uint32

const (
	RequestNone Request = iota
	// RequestDone tells the client its task has consumed all of its runtime.
	RequestDone
)

func (r Request) String() string {
	switch r {
	case RequestNone:
		return "None"
	case RequestDone:
		return "Done"
	default:
		return "Unknown"
	}
}

// Size is the length in bytes of every frame on the wire.
const Size = 12

var (
	ErrShortWrite = errors.New("msg: short write")
	ErrBadRequest = errors.New("msg: unknown request kind")
)

// Message is one frame: pid, request kind and a millisecond timestamp,
// each a little-endian uint32.
type Message struct {
	PID     uint32
	Request Request
	TimeMS  uint32
}

// Done builds the completion frame for pid stamped at now.
func Done(pid, now uint32) Message {
	return Message{PID: pid, Request: RequestDone, TimeMS: now}
}

// MarshalBinary encodes m into a Size-byte frame.
func (m Message) MarshalBinary() ([]byte, error) {
	buf := make([]byte, Size)
	binary.LittleEndian.PutUint32(buf[0:4], m.PID)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(m.Request))
	binary.LittleEndian.PutUint32(buf[8:12], m.TimeMS)
	return buf, nil
}

// UnmarshalBinary decodes a frame produced by MarshalBinary.
func (m *Message) UnmarshalBinary(data []byte) error {
	if len(data) != Size {
		return fmt.Errorf("msg: frame is %d bytes, want %d", len(data), Size)
	}
	m.PID = binary.LittleEndian.Uint32(data[0:4])
	m.Request = Request(binary.LittleEndian.Uint32(data[4:8]))
	m.TimeMS = binary.LittleEndian.Uint32(data[8:12])
	if m.Request != RequestDone {
		return fmt.Errorf("%w: %d", ErrBadRequest, uint32(m.Request))
	}
	return nil
}

// Write sends m over w with a single write call. Anything less than a full
// frame is reported as ErrShortWrite; the caller decides what to do with it.
func Write(w io.Writer, m Message) error {
	if w == nil {
		return fmt.Errorf("msg: pid %d: no channel", m.PID)
	}
	buf, _ := m.MarshalBinary()
	n, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("msg: pid %d: %w", m.PID, err)
	}
	if n != Size {
		return fmt.Errorf("%w: pid %d wrote %d of %d bytes", ErrShortWrite, m.PID, n, Size)
	}
	return nil
}

// Read blocks until one full frame is available on r.
func Read(r io.Reader) (Message, error) {
	var m Message
	buf := make([]byte, Size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return m, err
	}
	err := m.UnmarshalBinary(buf)
	return m, err
}
