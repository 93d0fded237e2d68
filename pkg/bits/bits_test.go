package bits

import "testing"

func TestBit(t *testing.T) {
	tests := []struct {
		n        uint
		expected byte
	}{
		{1, 0x01}, {5, 0x10}, {8, 0x80},
		{0, 0x00}, {9, 0x00}, // out of range
	}

	for _, tt := range tests {
		if res := Bit(tt.n); res != tt.expected {
			t.Errorf("Bit(%d) = 0x%02X; want 0x%02X", tt.n, res, tt.expected)
		}
	}
}

func TestIsSet(t *testing.T) {
	val := byte(0b1010_0101)
	if !IsSet(val, 8) {
		t.Error("bit 8 should be set")
	}
	if IsSet(val, 7) {
		t.Error("bit 7 should not be set")
	}
	if !IsSet(val, 1) {
		t.Error("bit 1 should be set")
	}
}

func TestGetRange(t *testing.T) {
	tests := []struct {
		name     string
		input    byte
		high     uint
		low      uint
		expected byte
	}{
		{"SM bits of CLA 0x0C", 0b0000_1100, 4, 3, 3},
		{"Channel bits of CLA 0x03", 0b0000_0011, 2, 1, 3},
		{"Counter nibble of SW2 0xC5", 0xC5, 4, 1, 5},
		{"Upper nibble of SW2 0xC5", 0xC5, 8, 5, 0x0C},
		{"Whole byte", 0xAA, 8, 1, 0xAA},
		{"Inverted range", 0xFF, 1, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if res := GetRange(tt.input, tt.high, tt.low); res != tt.expected {
				t.Errorf("GetRange(0x%02X, %d, %d) = %d; want %d", tt.input, tt.high, tt.low, res, tt.expected)
			}
		})
	}
}

func TestSet(t *testing.T) {
	if b := Set(0, 5); b != 0x10 {
		t.Errorf("Set(0, 5) = 0b%08b; want 0b%08b", b, 0x10)
	}
	if b := Set(0x80, 8); b != 0x80 {
		t.Errorf("Set(0x80, 8) = 0x%02X; want 0x80", b)
	}
}
