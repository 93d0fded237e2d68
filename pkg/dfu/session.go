package dfu

import (
	"fmt"
)

// BeginDecryptSession opens a firmware decrypt session on the token.
// Lengths are checked before anything is sent.
func BeginDecryptSession(ch Channel, iv, tag []byte) error {
	if ch == nil {
		return fmt.Errorf("%w: nil channel", ErrInvalidArgument)
	}
	p, err := NewSessionParameters(iv, tag)
	if err != nil {
		return err
	}
	return beginDecryptSession(ch, p)
}

func beginDecryptSession(ch Channel, p SessionParameters) error {
	resp, err := ch.SendReceive(p.Command())
	if err != nil {
		return fmt.Errorf("%w: begin decrypt session: %w", ErrTransport, err)
	}
	if err := ValidateResponse(resp, 0); err != nil {
		return fmt.Errorf("begin decrypt session: %w", err)
	}
	return nil
}

// DeriveKey asks the token for the key of the next firmware chunk and writes
// it to out[:DerivedKeySize]. out is left untouched on failure.
func DeriveKey(ch Channel, out []byte) error {
	if ch == nil {
		return fmt.Errorf("%w: nil channel", ErrInvalidArgument)
	}
	if len(out) < DerivedKeySize {
		return fmt.Errorf("%w: key buffer must hold %d bytes, got %d", ErrInvalidArgument, DerivedKeySize, len(out))
	}

	resp, err := ch.SendReceive(EncodeDeriveKey())
	if err != nil {
		return fmt.Errorf("%w: derive key: %w", ErrTransport, err)
	}
	if err := ValidateResponse(resp, DerivedKeySize); err != nil {
		if resp != nil {
			clear(resp.Data)
		}
		return fmt.Errorf("derive key: %w", err)
	}

	copy(out, resp.Data)
	clear(resp.Data)
	return nil
}
