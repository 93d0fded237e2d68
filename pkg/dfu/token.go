package dfu

import (
	"fmt"
)

// State tracks where a Token is in the DFU protocol.
//
//	Idle -> SequenceRunning -> Unlocked -> SessionActive -> KeyReady (per chunk)
//
// A failure from SequenceRunning onward moves to Zeroized, which is terminal:
// the channel has to be reopened to retry. Argument errors leave the state
// unchanged.
type State int

const (
	Idle State = iota
	SequenceRunning
	Unlocked
	SessionActive
	KeyReady
	Zeroized
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case SequenceRunning:
		return "SequenceRunning"
	case Unlocked:
		return "Unlocked"
	case SessionActive:
		return "SessionActive"
	case KeyReady:
		return "KeyReady"
	case Zeroized:
		return "Zeroized"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Token is one DFU session with one token. It is not safe for concurrent use.
type Token struct {
	ch     Channel
	seq    *Sequencer
	params SessionParameters
	state  State
}

// NewToken binds a channel, an unlock sequencer and the decrypt session
// parameters. The zero SessionParameters selects DefaultSessionParameters.
func NewToken(ch Channel, seq *Sequencer, params SessionParameters) *Token {
	if params == (SessionParameters{}) {
		params = DefaultSessionParameters()
	}
	return &Token{ch: ch, seq: seq, params: params}
}

// State returns the current protocol state.
func (t *Token) State() State {
	return t.state
}

// Exchange unlocks the token and opens the decrypt session. It returns the
// platform signature public key recovered during the unlock.
//
// If anything fails once the unlock sequence has started, the channel is
// zeroized exactly once before the error is returned. Every error wraps
// ErrExchangeFailed.
func (t *Token) Exchange(cb *Callbacks) (sigPub []byte, err error) {
	switch t.state {
	case Idle:
	case Zeroized:
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, ErrChannelZeroized)
	default:
		return nil, fmt.Errorf("%w: %w: exchange in state %s", ErrExchangeFailed, ErrInvalidState, t.state)
	}

	if t.seq == nil {
		return nil, fmt.Errorf("%w: %w: nil sequencer", ErrExchangeFailed, ErrInvalidArgument)
	}
	if err := t.seq.check(t.ch, cb); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExchangeFailed, err)
	}

	t.state = SequenceRunning
	defer func() {
		if err != nil {
			t.zeroize()
			err = fmt.Errorf("%w: %w", ErrExchangeFailed, err)
		}
	}()

	sigPub, err = t.seq.run(t.ch, cb)
	if err != nil {
		return nil, err
	}
	t.state = Unlocked

	if err = beginDecryptSession(t.ch, t.params); err != nil {
		return nil, err
	}
	t.state = SessionActive

	return sigPub, nil
}

// DeriveKey fetches the key of the next firmware chunk into out[:DerivedKeySize].
// Transport and protocol failures zeroize the channel.
func (t *Token) DeriveKey(out []byte) error {
	switch t.state {
	case SessionActive, KeyReady:
	case Zeroized:
		return ErrChannelZeroized
	default:
		return fmt.Errorf("%w: derive key in state %s", ErrInvalidState, t.state)
	}

	if len(out) < DerivedKeySize {
		return fmt.Errorf("%w: key buffer must hold %d bytes, got %d", ErrInvalidArgument, DerivedKeySize, len(out))
	}

	if err := DeriveKey(t.ch, out); err != nil {
		t.zeroize()
		return err
	}
	t.state = KeyReady
	return nil
}

// Close zeroizes the channel. Further calls fail with ErrChannelZeroized.
func (t *Token) Close() {
	t.zeroize()
}

func (t *Token) zeroize() {
	if t.state == Zeroized {
		return
	}
	if t.ch != nil {
		t.ch.Zeroize()
	}
	t.state = Zeroized
}
