package iso7816

import (
	"testing"
)

func TestNewClass(t *testing.T) {
	tests := []struct {
		name    string
		cla     byte
		wantErr bool
		check   func(Class) bool
	}{
		{
			name:    "Reserved FF",
			cla:     0xFF,
			wantErr: true,
		},
		{
			name: "Token class 00",
			cla:  0x00,
			check: func(c Class) bool {
				return !c.IsProprietary && c.Channel == 0 && c.SecureMessaging == SMNone && !c.IsChained
			},
		},
		{
			name: "First interindustry - Ch 3, chaining, SM header auth",
			// 0b0(Prop)_0(First)_11(SM)_1(Chain)_11(Ch3)
			cla: 0b0_0_11_1_11,
			check: func(c Class) bool {
				return c.IsChained && c.Channel == 3 && c.SecureMessaging == SMHeaderAuth
			},
		},
		{
			name: "Further interindustry - Ch 19, SM",
			// 0b0(Prop)_1(Further)_1(SM)_0(Chain)_1111(Offset 15)
			cla: 0b0_1_1_0_1111,
			check: func(c Class) bool {
				return c.Channel == 19 && c.SecureMessaging == SMHeaderNoProc
			},
		},
		{
			name: "Proprietary class 80",
			cla:  0x80,
			check: func(c Class) bool {
				return c.IsProprietary
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewClass(tt.cla)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewClass() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !tt.check(got) {
				t.Errorf("NewClass(0x%02X) produced unexpected class: %+v", tt.cla, got)
			}
		})
	}
}

func TestClass_EncodeRoundTrip(t *testing.T) {
	for _, raw := range []byte{0x00, 0x03, 0x1C, 0x40, 0x6F, 0x80} {
		c, err := NewClass(raw)
		if err != nil {
			t.Fatalf("NewClass(0x%02X): %v", raw, err)
		}
		got, err := c.Encode()
		if err != nil {
			t.Fatalf("Encode(0x%02X): %v", raw, err)
		}
		if got != raw {
			t.Errorf("Encode() = 0x%02X, want 0x%02X", got, raw)
		}
	}
}

func TestClass_EncodeRejects(t *testing.T) {
	tests := []struct {
		name string
		c    Class
	}{
		{"Channel above 19", Class{Channel: 20}},
		{"Header auth SM on further channel", Class{Channel: 5, SecureMessaging: SMHeaderAuth}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.c.Encode(); err == nil {
				t.Error("expected an encoding error")
			}
		})
	}
}
