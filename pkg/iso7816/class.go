package iso7816

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/bits"
)

// Class Byte (CLA) according to ISO/IEC 7816-4.
//
// Bit 8: Proprietary (1) or Interindustry (0).
// Bit 7: First (0) or Further (1) interindustry range.
// Bit 5: Command Chaining (1 = more commands follow).
//
// First interindustry (00xx xxxx): SM on bits 4-3, logical channel 0-3 on bits 2-1.
// Further interindustry (01xx xxxx): SM on bit 6, logical channel 4-19 on bits 4-1 (offset 4).

// SecureMessaging is the SM indication carried by the CLA byte.
type SecureMessaging int

const (
	SMNone         SecureMessaging = 0
	SMProprietary  SecureMessaging = 1
	SMHeaderNoProc SecureMessaging = 2
	SMHeaderAuth   SecureMessaging = 3
)

// Class represents a decoded CLA byte.
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsChained       bool
	SecureMessaging SecureMessaging
	Channel         uint8
}

// NewClass decodes a raw CLA byte. 0xFF is reserved for PPS and rejected.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla}

	if bits.IsSet(cla, 8) {
		c.IsProprietary = true
		return c, nil
	}

	c.IsChained = bits.IsSet(cla, 5)

	if !bits.IsSet(cla, 7) {
		c.SecureMessaging = SecureMessaging(bits.GetRange(cla, 4, 3))
		c.Channel = bits.GetRange(cla, 2, 1)
		return c, nil
	}

	if bits.IsSet(cla, 6) {
		c.SecureMessaging = SMHeaderNoProc
	}
	c.Channel = bits.GetRange(cla, 4, 1) + 4

	return c, nil
}

// Encode converts the Class back to its byte representation.
func (c *Class) Encode() (byte, error) {
	if c.IsProprietary {
		return c.Raw, nil
	}
	if c.Channel > 19 {
		return 0, fmt.Errorf("channel %d out of range (max 19)", c.Channel)
	}

	var res byte
	if c.IsChained {
		res = bits.Set(res, 5)
	}

	if c.Channel <= 3 {
		res |= byte(c.SecureMessaging) << 2
		res |= c.Channel
		return res, nil
	}

	if c.SecureMessaging == SMProprietary || c.SecureMessaging == SMHeaderAuth {
		return 0, fmt.Errorf("SM indicator %d not supported on channel %d", c.SecureMessaging, c.Channel)
	}

	res = bits.Set(res, 7)
	if c.SecureMessaging != SMNone {
		res = bits.Set(res, 6)
	}
	res |= c.Channel - 4

	return res, nil
}

// Verbose returns a one-line description of the CLA byte.
func (c Class) Verbose() string {
	if c.IsProprietary {
		return fmt.Sprintf("CLA: 0x%02X | Proprietary", c.Raw)
	}
	return fmt.Sprintf("CLA: 0x%02X | Channel: %d | SM: %d | Chained: %t",
		c.Raw, c.Channel, c.SecureMessaging, c.IsChained)
}
