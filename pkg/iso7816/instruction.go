package iso7816

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/bits"
)

// Instruction Byte (INS) according to ISO/IEC 7816-4.
//
// Bit 1 of an interindustry INS selects BER-TLV formatting of the data field
// (e.g. GET DATA 0xCA vs 0xCB). INS values whose upper nibble is '6' or '9' are
// invalid: they collide with SW1 values and T=0 procedure bytes.

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Interindustry instruction codes used on the token.
const (
	INS_MANAGE_SECURITY_ENVIRONMENT InsCode = 0x22
	INS_EXTERNAL_AUTHENTICATE       InsCode = 0x82
	INS_GET_CHALLENGE               InsCode = 0x84
	INS_INTERNAL_AUTHENTICATE       InsCode = 0x88
	INS_SELECT                      InsCode = 0xA4
	INS_GET_RESPONSE                InsCode = 0xC0
	INS_ENVELOPE                    InsCode = 0xC2
	INS_GET_DATA                    InsCode = 0xCA
	INS_PUT_DATA                    InsCode = 0xDA
)

var insNames = map[InsCode]string{
	INS_MANAGE_SECURITY_ENVIRONMENT: "INS_MANAGE_SECURITY_ENVIRONMENT",
	INS_EXTERNAL_AUTHENTICATE:       "INS_EXTERNAL_AUTHENTICATE",
	INS_GET_CHALLENGE:               "INS_GET_CHALLENGE",
	INS_INTERNAL_AUTHENTICATE:       "INS_INTERNAL_AUTHENTICATE",
	INS_SELECT:                      "INS_SELECT",
	INS_GET_RESPONSE:                "INS_GET_RESPONSE",
	INS_ENVELOPE:                    "INS_ENVELOPE",
	INS_GET_DATA:                    "INS_GET_DATA",
	INS_PUT_DATA:                    "INS_PUT_DATA",
}

func (i InsCode) String() string {
	if name, ok := insNames[i]; ok {
		return name
	}
	return fmt.Sprintf("InsCode(0x%02X)", byte(i))
}

// Instruction represents a validated INS byte.
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction validates ins and returns the parsed Instruction.
// '6X' and '9X' values are rejected.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble := byte(ins) & 0xF0
	if highNibble == 0x60 || highNibble == 0x90 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{
		Raw:      ins,
		IsBERTLV: bits.IsSet(byte(ins), 1),
	}, nil
}

// MustInstruction is NewInstruction for compile-time constants.
// It panics if ins is reserved.
func MustInstruction(ins InsCode) Instruction {
	i, err := NewInstruction(ins)
	if err != nil {
		panic(err)
	}
	return i
}

// Verbose returns a human-readable description of the instruction.
func (i Instruction) Verbose() string {
	return fmt.Sprintf("INS: 0x%02X | Command: %s", byte(i.Raw), i.Raw.String())
}
