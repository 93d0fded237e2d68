package dfu

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/iso7816"
)

// SessionParameters open a decrypt session: the firmware IV and its HMAC.
type SessionParameters struct {
	IV  [IVSize]byte
	Tag [TagSize]byte
}

// NewSessionParameters copies iv and tag after checking their lengths.
func NewSessionParameters(iv, tag []byte) (SessionParameters, error) {
	var p SessionParameters
	if len(iv) != IVSize {
		return p, fmt.Errorf("%w: IV must be %d bytes, got %d", ErrInvalidArgument, IVSize, len(iv))
	}
	if len(tag) != TagSize {
		return p, fmt.Errorf("%w: IV tag must be %d bytes, got %d", ErrInvalidArgument, TagSize, len(tag))
	}
	copy(p.IV[:], iv)
	copy(p.Tag[:], tag)
	return p, nil
}

// DefaultSessionParameters returns the IV and HMAC provisioned with the
// platform firmware image.
func DefaultSessionParameters() SessionParameters {
	return SessionParameters{
		IV: [IVSize]byte{
			0xb9, 0xec, 0x9d, 0xce, 0x21, 0xf9, 0x3a, 0x68,
			0xc5, 0x47, 0x0e, 0x2a, 0x52, 0xc8, 0x9b, 0x9e,
		},
		Tag: [TagSize]byte{
			0xbb, 0x31, 0x52, 0x34, 0xdb, 0x3f, 0x87, 0x82,
			0x9c, 0x93, 0xc6, 0x56, 0x79, 0x71, 0x4d, 0x2c,
			0xe1, 0x52, 0xd1, 0xa6, 0x71, 0xc4, 0x50, 0x98,
			0x43, 0x7f, 0x7c, 0xba, 0x67, 0xeb, 0xe5, 0x3f,
		},
	}
}

// Command builds BEGIN DECRYPT SESSION: data = IV || tag, Le = 00 (status only).
func (p SessionParameters) Command() *iso7816.CommandAPDU {
	data := make([]byte, 0, IVSize+TagSize)
	data = append(data, p.IV[:]...)
	data = append(data, p.Tag[:]...)

	return &iso7816.CommandAPDU{
		Class:       tokenClass,
		Instruction: insBeginDecryptSession,
		Data:        data,
		SendLe:      true,
	}
}

// EncodeBeginSession builds BEGIN DECRYPT SESSION from raw slices.
func EncodeBeginSession(iv, tag []byte) (*iso7816.CommandAPDU, error) {
	p, err := NewSessionParameters(iv, tag)
	if err != nil {
		return nil, err
	}
	return p.Command(), nil
}

// EncodeDeriveKey builds DERIVE KEY, which returns exactly one AES key.
func EncodeDeriveKey() *iso7816.CommandAPDU {
	return &iso7816.CommandAPDU{
		Class:       tokenClass,
		Instruction: insDeriveKey,
		Ne:          DerivedKeySize,
		SendLe:      true,
	}
}

// ValidateResponse checks resp against the token contract: status exactly
// TokenRespOK and, when expectedLen is not zero, exactly expectedLen data bytes.
func ValidateResponse(resp *iso7816.ResponseAPDU, expectedLen int) error {
	if resp == nil {
		return fmt.Errorf("%w: no response", ErrTransport)
	}
	if resp.Status != TokenRespOK {
		return fmt.Errorf("%w: %s", ErrProtocolStatus, resp.Status.Verbose())
	}
	if expectedLen != 0 && resp.Len() != expectedLen {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrProtocolLength, resp.Len(), expectedLen)
	}
	return nil
}
