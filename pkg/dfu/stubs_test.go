package dfu

import (
	"errors"

	"github.com/gregLibert/dfu-token/pkg/iso7816"
)

var errBoom = errors.New("boom")

// stubChannel answers through respond and counts traffic and zeroization.
type stubChannel struct {
	respond  func(cmd *iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error)
	sent     []*iso7816.CommandAPDU
	zeroized int
}

func (s *stubChannel) SendReceive(cmd *iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
	s.sent = append(s.sent, cmd)
	if s.respond == nil {
		return nil, errors.New("unexpected command")
	}
	return s.respond(cmd)
}

func (s *stubChannel) Zeroize() {
	s.zeroized++
}

// answer returns a fresh response on each call so callers may wipe it.
func answer(sw iso7816.StatusWord, data ...byte) func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
	return func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
		return &iso7816.ResponseAPDU{Data: append([]byte(nil), data...), Status: sw}, nil
	}
}

// byInstruction dispatches on the INS byte; unknown instructions fail.
func byInstruction(routes map[iso7816.InsCode]func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error)) func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
	return func(cmd *iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
		if route, ok := routes[cmd.Instruction.Raw]; ok {
			return route(cmd)
		}
		return nil, errors.New("no route for " + cmd.Instruction.Raw.String())
	}
}

// recordingExecutor records the operations it is asked to run and fails on failAt.
type recordingExecutor struct {
	ops    []UnlockOperation
	failAt UnlockOperation
	fail   bool
	sigPub []byte
}

func (r *recordingExecutor) Execute(_ Channel, op UnlockOperation, req *UnlockRequest) error {
	r.ops = append(r.ops, op)
	if r.fail && op == r.failAt {
		return errBoom
	}
	if op == EstablishSecureChannel {
		req.SignaturePublicKey = r.sigPub
	}
	return nil
}

func testCallbacks() *Callbacks {
	return &Callbacks{
		RequestPIN:     func(PINKind) ([]byte, error) { return []byte("1234"), nil },
		ConfirmPetName: func(string) (bool, error) { return true, nil },
	}
}

func testKeyBag() KeyBag {
	return KeyBag{KeyBlob{0x01, 0x02, 0x03}, KeyBlob{0x04}}
}

func seq(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}
