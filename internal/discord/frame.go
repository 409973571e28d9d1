package discord

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Opcode identifies the kind of IPC frame.
type Opcode uint32

const (
	OpHandshake Opcode = 0
	OpFrame     Opcode = 1
	OpClose     Opcode = 2
	OpPing      Opcode = 3
	OpPong      Opcode = 4
)

func (o Opcode) String() string {
	switch o {
	case OpHandshake:
		return "handshake"
	case OpFrame:
		return "frame"
	case OpClose:
		return "close"
	case OpPing:
		return "ping"
	case OpPong:
		return "pong"
	default:
		return fmt.Sprintf("opcode(%d)", uint32(o))
	}
}

const (
	headerSize   = 8
	maxFrameSize = 1 << 20
)

var errFrameTooLarge = errors.New("frame exceeds maximum size")

// writeFrame marshals v and writes it as a single frame.
func writeFrame(w io.Writer, op Opcode, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s frame: %w", op, err)
	}
	return writeRaw(w, op, body)
}

// writeRaw writes header and body in one call so concurrent frames never
// interleave on the wire when the caller holds the write lock.
func writeRaw(w io.Writer, op Opcode, body []byte) error {
	if len(body) > maxFrameSize {
		return errFrameTooLarge
	}

	buf := make([]byte, headerSize+len(body))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(op))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(body)))
	copy(buf[headerSize:], body)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write %s frame: %w", op, err)
	}
	return nil
}

// readFrame reads one frame and returns its opcode and raw JSON body.
func readFrame(r io.Reader) (Opcode, []byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}

	op := Opcode(binary.LittleEndian.Uint32(header[0:4]))
	size := binary.LittleEndian.Uint32(header[4:8])
	if size > maxFrameSize {
		return op, nil, errFrameTooLarge
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return op, nil, fmt.Errorf("read %s body: %w", op, err)
	}

	return op, body, nil
}
