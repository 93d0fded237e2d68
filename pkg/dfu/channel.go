package dfu

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/iso7816"
)

// Channel is an established connection with the token. It owns the session
// secrets and must be driven by a single caller at a time.
type Channel interface {
	// SendReceive transmits cmd and returns the final response.
	SendReceive(cmd *iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error)
	// Zeroize overwrites every session secret with zeros.
	Zeroize()
}

// SessionSecrets is the key material of the secure channel.
type SessionSecrets struct {
	AESKey  []byte
	HMACKey []byte
	IV      []byte
}

// SecureMessaging wraps and unwraps APDUs once the secure channel is up.
// Implementations may update the secrets in place (e.g. IV counters).
type SecureMessaging interface {
	Protect(cmd *iso7816.CommandAPDU, secrets *SessionSecrets) (*iso7816.CommandAPDU, error)
	Unprotect(resp *iso7816.ResponseAPDU, secrets *SessionSecrets) (*iso7816.ResponseAPDU, error)
}

// CardChannel is the Channel over a physical token. A nil *CardChannel
// behaves as a zeroized channel.
type CardChannel struct {
	client    *iso7816.Client
	secrets   SessionSecrets
	sm        SecureMessaging
	recording bool
	trace     iso7816.Trace
	zeroized  bool
}

var _ Channel = (*CardChannel)(nil)

// NewCardChannel wraps card, usually a *scard.Card.
func NewCardChannel(card iso7816.Transmitter) *CardChannel {
	return &CardChannel{client: iso7816.NewClient(card)}
}

// Record turns transaction recording on or off. Recorded responses include
// derived keys; the recording is wiped by Zeroize.
func (c *CardChannel) Record(on bool) {
	if c == nil {
		return
	}
	c.recording = on
}

// Trace returns the recorded transactions.
func (c *CardChannel) Trace() iso7816.Trace {
	if c == nil {
		return nil
	}
	return c.trace
}

// EstablishSession installs the secure channel. The secrets are copied into
// buffers owned by the channel.
func (c *CardChannel) EstablishSession(secrets SessionSecrets, sm SecureMessaging) error {
	if c == nil || c.zeroized {
		return ErrChannelZeroized
	}
	if sm == nil {
		return fmt.Errorf("%w: nil secure messaging", ErrInvalidArgument)
	}

	c.wipeSecrets()
	c.secrets = SessionSecrets{
		AESKey:  append([]byte(nil), secrets.AESKey...),
		HMACKey: append([]byte(nil), secrets.HMACKey...),
		IV:      append([]byte(nil), secrets.IV...),
	}
	c.sm = sm
	return nil
}

// Secure reports whether a secure channel is installed.
func (c *CardChannel) Secure() bool {
	return c != nil && c.sm != nil
}

// Zeroized reports whether the channel has been torn down.
func (c *CardChannel) Zeroized() bool {
	return c == nil || c.zeroized
}

// SendReceive protects cmd when a secure channel is installed, sends it and
// returns the unprotected final response.
func (c *CardChannel) SendReceive(cmd *iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
	if c == nil || c.zeroized {
		return nil, ErrChannelZeroized
	}

	wire := cmd
	if c.sm != nil {
		var err error
		if wire, err = c.sm.Protect(cmd, &c.secrets); err != nil {
			return nil, fmt.Errorf("secure messaging: %w", err)
		}
	}

	trace, err := c.client.Send(wire)
	if c.recording {
		c.trace = append(c.trace, trace...)
	}
	if err != nil {
		return nil, err
	}

	resp := trace.Final()
	if c.sm != nil {
		if resp, err = c.sm.Unprotect(resp, &c.secrets); err != nil {
			return nil, fmt.Errorf("secure messaging: %w", err)
		}
	}
	return resp, nil
}

// Zeroize wipes the session secrets and the recording, and disables the
// channel. It is safe to call more than once.
func (c *CardChannel) Zeroize() {
	if c == nil {
		return
	}
	c.wipeSecrets()
	for _, tx := range c.trace {
		if tx.Command != nil {
			clear(tx.Command.Data)
		}
		if tx.Response != nil {
			clear(tx.Response.Data)
		}
	}
	c.trace = nil
	c.sm = nil
	c.zeroized = true
}

func (c *CardChannel) wipeSecrets() {
	clear(c.secrets.AESKey)
	clear(c.secrets.HMACKey)
	clear(c.secrets.IV)
	c.secrets = SessionSecrets{}
}
