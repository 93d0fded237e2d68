package iso7816

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/gregLibert/dfu-token/pkg/tlv"
)

func TestNewSelectCommand(t *testing.T) {
	cls, _ := NewClass(0x00)

	tests := []struct {
		name     string
		cmd      *CommandAPDU
		expected []byte
	}{
		{
			name: "Select DFU applet by AID",
			cmd:  SelectByAID(cls, tlv.Hex("45 75 74 77 74 75 36 41 70 71")),
			expected: tlv.Hex(
				"00 A4 04 00",
				"0A",
				"45 75 74 77 74 75 36 41 70 71",
				// no Le, T=0
			),
		},
		{
			name:     "Select current DF, FCP, no data",
			cmd:      NewSelectCommand(cls, SelectByFileID, ReturnFCP, nil),
			expected: tlv.Hex("00 A4 00 04", "00"),
		},
		{
			name:     "Select without response data",
			cmd:      NewSelectCommand(cls, SelectByFileID, ReturnNoData, nil),
			expected: tlv.Hex("00 A4 00 0C"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cmd.Bytes()
			if err != nil {
				t.Fatalf("Failed to encode bytes: %v", err)
			}
			if !bytes.Equal(got, tt.expected) {
				t.Errorf("Mismatch:\nExpected: %s\nGot:      %s",
					hex.EncodeToString(tt.expected), hex.EncodeToString(got))
			}
		})
	}
}
