/*
Package dfu drives the DFU applet of a secure token from the host side.

A firmware update starts with the unlock sequence (applet selection, PET PIN,
secure channel, PET name confirmation, user PIN), then opens a decrypt session
with the session IV and its HMAC, and finally asks the token for one fresh AES
key per firmware chunk:

	ch := dfu.NewCardChannel(card)
	seq := dfu.NewSequencer(dfu.NewAPDUExecutor(handshaker), bag, iterations, dfu.CurveFRP256V1)
	tok := dfu.NewToken(ch, seq, dfu.SessionParameters{})

	sigPub, err := tok.Exchange(callbacks)
	if err != nil {
	    return err // the channel secrets are already wiped
	}

	var key [dfu.DerivedKeySize]byte
	for range chunks {
	    if err := tok.DeriveKey(key[:]); err != nil {
	        return err
	    }
	    // decrypt the chunk
	}

Every response must carry exactly SW 9000. Once the unlock sequence has
started, any failure zeroizes the channel before the error is returned.
*/
package dfu

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/iso7816"
)

// Fixed sizes of the DFU protocol.
const (
	AppletIDSize   = 10
	IVSize         = 16 // AES block
	TagSize        = 32 // HMAC-SHA256
	DerivedKeySize = 16 // AES-128 chunk key
)

// DFU applet instructions.
const (
	InsBeginDecryptSession iso7816.InsCode = 0x20
	InsDeriveKey           iso7816.InsCode = 0x21
)

// TokenRespOK is the only status word the token protocol accepts.
const TokenRespOK = iso7816.SW_NO_ERROR

// AppletID identifies an applet on the token.
type AppletID [AppletIDSize]byte

// DFUAppletID selects the firmware decryption applet.
var DFUAppletID = AppletID{0x45, 0x75, 0x74, 0x77, 0x74, 0x75, 0x36, 0x41, 0x70, 0x71}

// CurveID names the curve of the platform signature key.
type CurveID int

const (
	CurveFRP256V1 CurveID = iota + 1
	CurveSECP256R1
	CurveBrainpoolP256R1
)

func (c CurveID) String() string {
	switch c {
	case CurveFRP256V1:
		return "FRP256V1"
	case CurveSECP256R1:
		return "SECP256R1"
	case CurveBrainpoolP256R1:
		return "BRAINPOOLP256R1"
	default:
		return fmt.Sprintf("CurveID(%d)", int(c))
	}
}

// ParseCurveID maps a curve name, as printed by String, to its CurveID.
func ParseCurveID(name string) (CurveID, error) {
	for _, c := range []CurveID{CurveFRP256V1, CurveSECP256R1, CurveBrainpoolP256R1} {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown curve %q", ErrInvalidArgument, name)
}

// The token is addressed with CLA 00: first interindustry, channel 0, no SM
// indication (secure messaging is applied by the channel itself).
var tokenClass = iso7816.Class{}

var (
	insBeginDecryptSession = iso7816.MustInstruction(InsBeginDecryptSession)
	insDeriveKey           = iso7816.MustInstruction(InsDeriveKey)
)
