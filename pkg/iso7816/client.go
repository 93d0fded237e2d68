package iso7816

import (
	"fmt"
)

// The Client hides the T=0 transport procedures from the token protocol:
//
// 1. "61 XX": XX bytes are waiting. The client issues GET RESPONSE (Le = XX).
// 2. "6C XX": Le was wrong. The client re-sends the command with Le = XX.
//
// Send returns the Trace of every physical transaction that made up the
// logical exchange. Callers look at Trace.Last() for the final outcome.

// maxProcedureSteps bounds the 61XX/6CXX follow-ups of a single Send.
const maxProcedureSteps = 16

// Transmitter abstracts the physical connection (e.g. *scard.Card).
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Client drives a Transmitter with ISO 7816-4 procedure handling.
type Client struct {
	Card Transmitter
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// Send transmits a command and follows 61XX/6CXX procedures.
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	return c.send(cmd, 0)
}

func (c *Client) send(cmd *CommandAPDU, depth int) (Trace, error) {
	if depth > maxProcedureSteps {
		return nil, fmt.Errorf("too many chained responses (%d)", depth)
	}

	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("transmission error: %w", err)
	}

	resp, err := ParseResponseAPDU(rawResp)
	if err != nil {
		return nil, err
	}

	trace := Trace{{Command: cmd, Response: resp}}

	var next *CommandAPDU
	switch resp.Status.SW1() {
	case 0x61:
		// GET RESPONSE stays on the logical channel of the original command.
		respCls := cmd.Class
		respCls.IsChained = false
		next = NewCommandAPDU(respCls, MustInstruction(INS_GET_RESPONSE), 0x00, 0x00, nil, wantedLength(resp.Status))
	case 0x6C:
		retry := *cmd
		retry.Ne = wantedLength(resp.Status)
		next = &retry
	default:
		return trace, nil
	}

	subTrace, err := c.send(next, depth+1)
	if err != nil {
		return trace, err
	}

	return append(trace, subTrace...), nil
}

// wantedLength decodes the XX of 61XX/6CXX, where 00 stands for 256.
func wantedLength(sw StatusWord) int {
	if sw.SW2() == 0 {
		return MaxShortLe
	}
	return int(sw.SW2())
}
