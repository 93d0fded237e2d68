package dfu

import (
	"bytes"
	"fmt"
)

// UnlockOperation is one step of the unlock sequence.
type UnlockOperation int

const (
	InitToken UnlockOperation = iota
	AskPetPin
	PresentPetPin
	EstablishSecureChannel
	ConfirmPetName
	PresentUserPin
)

func (op UnlockOperation) String() string {
	switch op {
	case InitToken:
		return "InitToken"
	case AskPetPin:
		return "AskPetPin"
	case PresentPetPin:
		return "PresentPetPin"
	case EstablishSecureChannel:
		return "EstablishSecureChannel"
	case ConfirmPetName:
		return "ConfirmPetName"
	case PresentUserPin:
		return "PresentUserPin"
	default:
		return fmt.Sprintf("UnlockOperation(%d)", int(op))
	}
}

// UnlockSequence is the order the token requires. It is never reordered and
// no step is ever skipped.
var UnlockSequence = [...]UnlockOperation{
	InitToken,
	AskPetPin,
	PresentPetPin,
	EstablishSecureChannel,
	ConfirmPetName,
	PresentUserPin,
}

// PINKind tells the PIN callbacks which PIN is involved.
type PINKind int

const (
	PetPIN PINKind = iota
	UserPIN
)

func (k PINKind) String() string {
	if k == PetPIN {
		return "PET PIN"
	}
	return "User PIN"
}

// Callbacks are the user interaction hooks of the unlock sequence.
type Callbacks struct {
	// RequestPIN asks the user for a PIN. The returned buffer is zeroed
	// once the PIN has been presented.
	RequestPIN func(kind PINKind) ([]byte, error)
	// ConfirmPetName shows the PET name read from the token and returns
	// whether the user recognizes it.
	ConfirmPetName func(name string) (bool, error)
	// AcknowledgePIN is optional. remaining is -1 when unknown.
	AcknowledgePIN func(kind PINKind, accepted bool, remaining int)
}

func (cb *Callbacks) validate() error {
	if cb == nil {
		return fmt.Errorf("%w: nil callbacks", ErrInvalidArgument)
	}
	if cb.RequestPIN == nil || cb.ConfirmPetName == nil {
		return fmt.Errorf("%w: PIN and PET name callbacks are mandatory", ErrInvalidArgument)
	}
	return nil
}

func (cb *Callbacks) acknowledge(kind PINKind, accepted bool, remaining int) {
	if cb.AcknowledgePIN != nil {
		cb.AcknowledgePIN(kind, accepted, remaining)
	}
}

// UnlockRequest carries the inputs of the unlock sequence to the executor.
type UnlockRequest struct {
	AppletID   AppletID
	KeyBag     KeyBag
	Iterations uint32
	Curve      CurveID
	Callbacks  *Callbacks

	// SignaturePublicKey is set by the executor when the secure channel
	// step recovers the platform signature public key.
	SignaturePublicKey []byte
}

// Executor performs one unlock step on the channel.
type Executor interface {
	Execute(ch Channel, op UnlockOperation, req *UnlockRequest) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ch Channel, op UnlockOperation, req *UnlockRequest) error

// Execute calls f.
func (f ExecutorFunc) Execute(ch Channel, op UnlockOperation, req *UnlockRequest) error {
	return f(ch, op, req)
}

// Sequencer runs UnlockSequence against one applet.
type Sequencer struct {
	Executor   Executor
	AppletID   AppletID
	KeyBag     KeyBag
	Iterations uint32
	Curve      CurveID
}

// NewSequencer returns a Sequencer for the DFU applet.
func NewSequencer(exec Executor, bag KeyBag, iterations uint32, curve CurveID) *Sequencer {
	return &Sequencer{
		Executor:   exec,
		AppletID:   DFUAppletID,
		KeyBag:     bag,
		Iterations: iterations,
		Curve:      curve,
	}
}

// Run executes the unlock steps in order and stops at the first failure.
// It returns a copy of the signature public key recovered by the sequence.
// Run never zeroizes the channel; see Token.Exchange.
func (s *Sequencer) Run(ch Channel, cb *Callbacks) ([]byte, error) {
	if err := s.check(ch, cb); err != nil {
		return nil, err
	}
	return s.run(ch, cb)
}

// check validates everything Run needs before the first step is attempted.
func (s *Sequencer) check(ch Channel, cb *Callbacks) error {
	if ch == nil {
		return fmt.Errorf("%w: nil channel", ErrInvalidArgument)
	}
	if s.Executor == nil {
		return fmt.Errorf("%w: nil executor", ErrInvalidArgument)
	}
	if err := cb.validate(); err != nil {
		return err
	}
	if err := s.KeyBag.Validate(); err != nil {
		return err
	}
	if s.Iterations == 0 {
		return fmt.Errorf("%w: zero PBKDF2 iterations", ErrInvalidArgument)
	}
	return nil
}

func (s *Sequencer) run(ch Channel, cb *Callbacks) ([]byte, error) {
	req := &UnlockRequest{
		AppletID:   s.AppletID,
		KeyBag:     s.KeyBag,
		Iterations: s.Iterations,
		Curve:      s.Curve,
		Callbacks:  cb,
	}

	for _, op := range UnlockSequence {
		if err := s.Executor.Execute(ch, op, req); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnlockFailed, op, err)
		}
	}

	if len(req.SignaturePublicKey) == 0 {
		return nil, fmt.Errorf("%w: no signature public key recovered", ErrUnlockFailed)
	}
	return bytes.Clone(req.SignaturePublicKey), nil
}
