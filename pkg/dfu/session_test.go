package dfu

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gregLibert/dfu-token/pkg/iso7816"
)

func TestBeginDecryptSession(t *testing.T) {
	iv, tag := seq(IVSize, 0), seq(TagSize, 0x40)

	t.Run("Accepted", func(t *testing.T) {
		ch := &stubChannel{respond: answer(TokenRespOK)}
		if err := BeginDecryptSession(ch, iv, tag); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(ch.sent) != 1 || ch.sent[0].Instruction.Raw != InsBeginDecryptSession {
			t.Fatalf("expected exactly one BEGIN DECRYPT SESSION, got %v", ch.sent)
		}
	})

	t.Run("Bad lengths never reach the token", func(t *testing.T) {
		ch := &stubChannel{respond: answer(TokenRespOK)}
		if err := BeginDecryptSession(ch, iv[:15], tag); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("short IV: err = %v", err)
		}
		if err := BeginDecryptSession(ch, iv, append(tag, 0)); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("long tag: err = %v", err)
		}
		if len(ch.sent) != 0 {
			t.Errorf("%d commands sent", len(ch.sent))
		}
	})

	t.Run("Nil channel", func(t *testing.T) {
		if err := BeginDecryptSession(nil, iv, tag); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("Token refuses", func(t *testing.T) {
		ch := &stubChannel{respond: answer(iso7816.SW_ERR_SECURITY_STATUS)}
		if err := BeginDecryptSession(ch, iv, tag); !errors.Is(err, ErrProtocolStatus) {
			t.Errorf("err = %v, want ErrProtocolStatus", err)
		}
	})

	t.Run("Transport failure", func(t *testing.T) {
		ch := &stubChannel{respond: func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
			return nil, errBoom
		}}
		err := BeginDecryptSession(ch, iv, tag)
		if !errors.Is(err, ErrTransport) || !errors.Is(err, errBoom) {
			t.Errorf("err = %v, want ErrTransport wrapping the cause", err)
		}
	})
}

func TestDeriveKey(t *testing.T) {
	key := seq(DerivedKeySize, 0xA0)
	sentinel := bytes.Repeat([]byte{0x5A}, DerivedKeySize)

	tests := []struct {
		name    string
		respond func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error)
		wantErr error
	}{
		{"Success", answer(TokenRespOK, key...), nil},
		{"Status error", answer(iso7816.SW_ERR_COND_OF_USE, key...), ErrProtocolStatus},
		{"Short key", answer(TokenRespOK, key[:15]...), ErrProtocolLength},
		{"Long key", answer(TokenRespOK, append(append([]byte(nil), key...), 0x00)...), ErrProtocolLength},
		{"Transport", func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) { return nil, errBoom }, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &stubChannel{respond: tt.respond}
			out := bytes.Clone(sentinel)

			err := DeriveKey(ch, out)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !bytes.Equal(out, key) {
					t.Errorf("key = %X, want %X", out, key)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if !bytes.Equal(out, sentinel) {
				t.Errorf("output buffer modified on failure: %X", out)
			}
		})
	}
}

func TestDeriveKey_Buffer(t *testing.T) {
	ch := &stubChannel{respond: answer(TokenRespOK, seq(DerivedKeySize, 1)...)}

	if err := DeriveKey(ch, make([]byte, 15)); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
	if len(ch.sent) != 0 {
		t.Fatalf("a short buffer must not reach the token")
	}

	// Larger buffers are accepted; only the first 16 bytes are written.
	out := make([]byte, 20)
	out[19] = 0xFF
	if err := DeriveKey(ch, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[19] != 0xFF || out[0] != 1 {
		t.Errorf("unexpected buffer: %X", out)
	}
}

func TestDeriveKey_WipesResponse(t *testing.T) {
	resp := &iso7816.ResponseAPDU{Data: seq(DerivedKeySize, 1), Status: TokenRespOK}
	ch := &stubChannel{respond: func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) { return resp, nil }}

	if err := DeriveKey(ch, make([]byte, DerivedKeySize)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(resp.Data, make([]byte, DerivedKeySize)) {
		t.Errorf("response buffer still holds the key: %X", resp.Data)
	}
}

func TestDeriveKey_WipesRejectedResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *iso7816.ResponseAPDU
	}{
		{"Truncated key", &iso7816.ResponseAPDU{Data: seq(8, 1), Status: TokenRespOK}},
		{"Error status", &iso7816.ResponseAPDU{Data: seq(DerivedKeySize, 1), Status: iso7816.SW_ERR_COND_OF_USE}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &stubChannel{respond: func(*iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) { return tt.resp, nil }}

			if err := DeriveKey(ch, make([]byte, DerivedKeySize)); err == nil {
				t.Fatal("expected an error")
			}
			if !bytes.Equal(tt.resp.Data, make([]byte, len(tt.resp.Data))) {
				t.Errorf("rejected response still holds key material: %X", tt.resp.Data)
			}
		})
	}
}
