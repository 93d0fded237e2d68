package iso7816

import (
	"testing"
)

func makeTx(sw StatusWord) Transaction {
	return Transaction{
		Command:  &CommandAPDU{},
		Response: &ResponseAPDU{Status: sw},
	}
}

func TestTransaction_IsSuccess(t *testing.T) {
	tests := []struct {
		name string
		tx   Transaction
		want bool
	}{
		{"9000", makeTx(SW_NO_ERROR), true},
		{"6110", makeTx(NewStatusWord(0x61, 0x10)), true},
		{"6982", makeTx(SW_ERR_SECURITY_STATUS), false},
		{"Nil response", Transaction{Command: &CommandAPDU{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tx.IsSuccess(); got != tt.want {
				t.Errorf("Transaction.IsSuccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrace_Logic(t *testing.T) {
	t.Run("Empty trace", func(t *testing.T) {
		var tr Trace
		if tr.Last() != nil || tr.Final() != nil {
			t.Error("empty trace should have no last transaction")
		}
		if tr.IsSuccess() {
			t.Error("empty trace should not be successful")
		}
	})

	t.Run("61XX then 9000", func(t *testing.T) {
		tr := Trace{makeTx(NewStatusWord(0x61, 0x10)), makeTx(SW_NO_ERROR)}
		if tr.Final().Status != SW_NO_ERROR {
			t.Errorf("Final() status = %04X", uint16(tr.Final().Status))
		}
		if !tr.IsSuccess() {
			t.Error("trace should be successful")
		}
	})

	t.Run("Failure at the end", func(t *testing.T) {
		tr := Trace{makeTx(SW_NO_ERROR), makeTx(SW_ERR_FILE_NOT_FOUND)}
		if tr.IsSuccess() {
			t.Error("trace should fail if the last transaction failed")
		}
	})
}
