package iso7816

import (
	"bytes"
	"fmt"
)

// COMMAND APDU (C-APDU), ISO/IEC 7816-3 and 7816-4:
//
//	CLA INS P1 P2 [Lc Data] [Le]
//
// Case 1: header only. Case 2: header + Le. Case 3: header + Lc + Data.
// Case 4: header + Lc + Data + Le.
//
// Lc/Le are short (1 byte) unless Nc > 255 or Ne > 256, in which case the
// extended form is used.
//
// The token protocol also carries an explicit "response expected" flag: when
// SendLe is set the Le field is always emitted, even when Ne is 0. A short Le
// of 00 then asks the token for whatever it has (up to 256 bytes) and is used
// by commands that only check the status word.
//
// RESPONSE APDU (R-APDU): [Data] SW1 SW2.

// APDU length limits.
const (
	MaxShortLc    = 255
	MaxShortLe    = 256
	MaxExtendedLc = 65535
	MaxExtendedLe = 65536
)

// CommandAPDU represents a command sent to the token.
type CommandAPDU struct {
	Class       Class
	Instruction Instruction
	P1, P2      byte
	Data        []byte
	Ne          int  // Expected response length (0 means none)
	SendLe      bool // Emit Le even when Ne is 0
}

// NewCommandAPDU creates a command. SendLe is left unset.
func NewCommandAPDU(cla Class, ins Instruction, p1, p2 byte, data []byte, ne int) *CommandAPDU {
	return &CommandAPDU{
		Class:       cla,
		Instruction: ins,
		P1:          p1,
		P2:          p2,
		Data:        data,
		Ne:          ne,
	}
}

// Bytes encodes the command, choosing short or extended length fields.
func (c *CommandAPDU) Bytes() ([]byte, error) {
	nc := len(c.Data)
	ne := c.Ne

	if nc > MaxExtendedLc {
		return nil, fmt.Errorf("command data too long: %d bytes", nc)
	}
	if ne < 0 || ne > MaxExtendedLe {
		return nil, fmt.Errorf("invalid expected length: %d", ne)
	}

	class, err := c.Class.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode Class: %w", err)
	}

	buf := new(bytes.Buffer)
	buf.Write([]byte{class, byte(c.Instruction.Raw), c.P1, c.P2})

	isExtended := nc > MaxShortLc || ne > MaxShortLe

	if nc > 0 {
		if isExtended {
			buf.Write([]byte{0x00, byte(nc >> 8), byte(nc)})
		} else {
			buf.WriteByte(byte(nc))
		}
		buf.Write(c.Data)
	}

	if ne == 0 && !c.SendLe {
		return buf.Bytes(), nil
	}

	if !isExtended {
		// 0x00 stands for 256, or "anything" when Ne is 0
		buf.WriteByte(byte(ne))
		return buf.Bytes(), nil
	}

	// Case 2 extended needs the leading 00 that Lc would otherwise carry.
	if nc == 0 {
		buf.WriteByte(0x00)
	}
	// 0x0000 stands for 65536
	buf.Write([]byte{byte(ne >> 8), byte(ne)})

	return buf.Bytes(), nil
}

// String returns a readable representation of the command meta-data.
// The data field is never printed: it may carry key material.
func (c *CommandAPDU) String() string {
	return fmt.Sprintf("%s | P1: %02X, P2: %02X | Lc: %d | Le: %d",
		c.Instruction.Verbose(), c.P1, c.P2, len(c.Data), c.Ne)
}

// ResponseAPDU represents the reply from the token.
type ResponseAPDU struct {
	Data   []byte
	Status StatusWord
}

// ParseResponseAPDU splits raw bytes into data and status word.
// The input must contain at least SW1 and SW2.
func ParseResponseAPDU(raw []byte) (*ResponseAPDU, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("response too short: length %d", len(raw))
	}

	indexSW1 := len(raw) - 2
	return &ResponseAPDU{
		Data:   raw[:indexSW1],
		Status: NewStatusWord(raw[indexSW1], raw[indexSW1+1]),
	}, nil
}

// Len returns the response payload length.
func (r *ResponseAPDU) Len() int {
	return len(r.Data)
}

// String returns a readable representation of the response.
func (r *ResponseAPDU) String() string {
	return fmt.Sprintf("Data (%d bytes) | Status: %s", len(r.Data), r.Status.Verbose())
}
