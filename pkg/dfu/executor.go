package dfu

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/iso7816"
)

// Handshaker performs the cryptographic unlock steps: PET PIN based key bag
// unwrap, secure channel key agreement and the PIN exchanges that travel
// inside the secure channel. Implementations typically install the channel
// secrets through CardChannel.EstablishSession.
type Handshaker interface {
	// PresentPetPIN unwraps the key bag with the PET PIN and proves it to
	// the token. remaining is the number of tries left, -1 if unknown.
	PresentPetPIN(ch Channel, req *UnlockRequest, pin []byte) (remaining int, err error)
	// EstablishSecureChannel runs the key agreement and returns the
	// decrypted platform signature public key.
	EstablishSecureChannel(ch Channel, req *UnlockRequest) ([]byte, error)
	// PetName reads the PET name over the secure channel.
	PetName(ch Channel) (string, error)
	// PresentUserPIN unlocks the token with the user PIN.
	PresentUserPIN(ch Channel, pin []byte) (remaining int, err error)
}

// APDUExecutor runs the unlock steps against a real token. Applet selection
// and user interaction are handled here, cryptography by the Handshaker.
// An APDUExecutor serves one unlock sequence at a time.
type APDUExecutor struct {
	Handshaker Handshaker

	petPIN []byte
}

var _ Executor = (*APDUExecutor)(nil)

// NewAPDUExecutor returns an executor delegating cryptography to h.
func NewAPDUExecutor(h Handshaker) *APDUExecutor {
	return &APDUExecutor{Handshaker: h}
}

// Execute performs op.
func (e *APDUExecutor) Execute(ch Channel, op UnlockOperation, req *UnlockRequest) error {
	if op != InitToken && e.Handshaker == nil {
		return fmt.Errorf("%w: nil handshaker", ErrInvalidArgument)
	}
	cb := req.Callbacks

	switch op {
	case InitToken:
		e.forgetPIN()
		return SelectApplet(ch, req.AppletID)

	case AskPetPin:
		pin, err := cb.RequestPIN(PetPIN)
		if err != nil {
			return fmt.Errorf("request %s: %w", PetPIN, err)
		}
		if len(pin) == 0 {
			return fmt.Errorf("%w: empty %s", ErrInvalidArgument, PetPIN)
		}
		e.forgetPIN()
		e.petPIN = pin
		return nil

	case PresentPetPin:
		if e.petPIN == nil {
			return fmt.Errorf("%w: no %s to present", ErrInvalidState, PetPIN)
		}
		defer e.forgetPIN()

		remaining, err := e.Handshaker.PresentPetPIN(ch, req, e.petPIN)
		cb.acknowledge(PetPIN, err == nil, remaining)
		return err

	case EstablishSecureChannel:
		sigPub, err := e.Handshaker.EstablishSecureChannel(ch, req)
		if err != nil {
			return err
		}
		if len(sigPub) == 0 {
			return fmt.Errorf("%w: empty signature public key", ErrProtocolLength)
		}
		req.SignaturePublicKey = sigPub
		return nil

	case ConfirmPetName:
		name, err := e.Handshaker.PetName(ch)
		if err != nil {
			return err
		}
		ok, err := cb.ConfirmPetName(name)
		if err != nil {
			return fmt.Errorf("confirm pet name: %w", err)
		}
		if !ok {
			return ErrPetNameRejected
		}
		return nil

	case PresentUserPin:
		pin, err := cb.RequestPIN(UserPIN)
		if err != nil {
			return fmt.Errorf("request %s: %w", UserPIN, err)
		}
		defer clear(pin)
		if len(pin) == 0 {
			return fmt.Errorf("%w: empty %s", ErrInvalidArgument, UserPIN)
		}

		remaining, err := e.Handshaker.PresentUserPIN(ch, pin)
		cb.acknowledge(UserPIN, err == nil, remaining)
		return err

	default:
		return fmt.Errorf("%w: unknown unlock operation %s", ErrInvalidArgument, op)
	}
}

func (e *APDUExecutor) forgetPIN() {
	clear(e.petPIN)
	e.petPIN = nil
}

// SelectApplet issues SELECT by AID with the token class and requires SW 9000.
func SelectApplet(ch Channel, aid AppletID) error {
	if ch == nil {
		return fmt.Errorf("%w: nil channel", ErrInvalidArgument)
	}
	resp, err := ch.SendReceive(iso7816.SelectByAID(tokenClass, aid[:]))
	if err != nil {
		return fmt.Errorf("%w: select applet: %w", ErrTransport, err)
	}
	if err := ValidateResponse(resp, 0); err != nil {
		return fmt.Errorf("select applet %X: %w", aid[:], err)
	}
	return nil
}
