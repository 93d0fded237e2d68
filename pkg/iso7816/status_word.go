package iso7816

import (
	"fmt"

	"github.com/gregLibert/dfu-token/pkg/bits"
)

// Dynamic Status Words (ISO 7816-4):
//
// 1. '61XX': process completed, XX bytes available through GET RESPONSE.
// 2. '6CXX': wrong Le, XX is the exact length to ask for.
// 3. '63CX': warning with counter, X is usually the remaining PIN tries.

// StatusWord represents the two-byte trailer (SW1-SW2) of a response.
type StatusWord uint16

// NewStatusWord builds a StatusWord from SW1 and SW2.
func NewStatusWord(sw1, sw2 byte) StatusWord {
	return StatusWord(uint16(sw1)<<8 | uint16(sw2))
}

// SW1 returns the high byte.
func (sw StatusWord) SW1() byte {
	return byte(sw >> 8)
}

// SW2 returns the low byte.
func (sw StatusWord) SW2() byte {
	return byte(sw)
}

// IsCounter reports a 63CX warning.
func (sw StatusWord) IsCounter() bool {
	return sw.SW1() == 0x63 && bits.GetRange(sw.SW2(), 8, 5) == 0x0C
}

// Counter returns X of a 63CX status, or -1 for any other status.
func (sw StatusWord) Counter() int {
	if !sw.IsCounter() {
		return -1
	}
	return int(bits.GetRange(sw.SW2(), 4, 1))
}

// IsSuccess returns true for 9000 and 61XX.
//
// Token commands must not rely on this: they only accept the exact 9000 sentinel.
func (sw StatusWord) IsSuccess() bool {
	return sw == SW_NO_ERROR || sw.SW1() == 0x61
}

// IsWarning returns true for 62XX and 63XX.
func (sw StatusWord) IsWarning() bool {
	sw1 := sw.SW1()
	return sw1 == 0x62 || sw1 == 0x63
}

// IsError returns true for 64XX to 6FXX.
func (sw StatusWord) IsError() bool {
	sw1 := sw.SW1()
	return sw1 >= 0x64 && sw1 <= 0x6F
}

// Verbose returns a human-readable description of the status word.
func (sw StatusWord) Verbose() string {
	sw1 := sw.SW1()
	sw2 := sw.SW2()

	switch {
	case sw.IsCounter():
		return fmt.Sprintf("Warning: State changed, counter = %d", sw.Counter())
	case sw1 == 0x61:
		return fmt.Sprintf("Process completed, %d bytes available", sw2)
	case sw1 == 0x6C:
		return fmt.Sprintf("Wrong length, correct Le is %d", sw2)
	}

	if name, ok := statusNames[sw]; ok {
		return fmt.Sprintf("[%04X] %s", uint16(sw), name)
	}
	return fmt.Sprintf("[%04X] %s", uint16(sw), sw.genericCategoryDescription())
}

func (sw StatusWord) String() string {
	if name, ok := statusNames[sw]; ok {
		return name
	}
	return fmt.Sprintf("StatusWord(0x%04X)", uint16(sw))
}

func (sw StatusWord) genericCategoryDescription() string {
	switch sw.SW1() {
	case 0x62:
		return "Warning: NV memory unchanged"
	case 0x63:
		return "Warning: NV memory changed"
	case 0x64:
		return "Execution Error: NV memory unchanged"
	case 0x65:
		return "Execution Error: NV memory changed"
	case 0x66:
		return "Execution Error: Security issue"
	case 0x68:
		return "Checking Error: Function not supported"
	case 0x69:
		return "Checking Error: Command not allowed"
	case 0x6A:
		return "Checking Error: Wrong parameters"
	default:
		return "Unknown Status"
	}
}

// Status Words the token is known to return.
const (
	SW_NO_ERROR StatusWord = 0x9000

	SW_WARN_NO_INFO            StatusWord = 0x6200
	SW_WARN_NV_CHANGED_NO_INFO StatusWord = 0x6300

	SW_ERR_EXEC_NO_INFO      StatusWord = 0x6400
	SW_ERR_MEMORY_FAILURE    StatusWord = 0x6581
	SW_ERR_SECURITY_ISSUE    StatusWord = 0x6600
	SW_ERR_WRONG_LENGTH      StatusWord = 0x6700
	SW_ERR_CHECKING_NO_INFO  StatusWord = 0x6800
	SW_ERR_SM_NOT_SUPPORTED  StatusWord = 0x6882
	SW_ERR_CMD_NOT_ALLOWED   StatusWord = 0x6900
	SW_ERR_SECURITY_STATUS   StatusWord = 0x6982
	SW_ERR_AUTH_BLOCKED      StatusWord = 0x6983
	SW_ERR_COND_OF_USE       StatusWord = 0x6985
	SW_ERR_SM_OBJ_INCORRECT  StatusWord = 0x6988
	SW_ERR_INCORRECT_DATA    StatusWord = 0x6A80
	SW_ERR_FUNC_NOT_SUPP     StatusWord = 0x6A81
	SW_ERR_FILE_NOT_FOUND    StatusWord = 0x6A82
	SW_ERR_WRONG_P1P2        StatusWord = 0x6B00
	SW_ERR_INS_INVALID       StatusWord = 0x6D00
	SW_ERR_CLA_NOT_SUPPORTED StatusWord = 0x6E00
	SW_ERR_UNKNOWN           StatusWord = 0x6F00
)

var statusNames = map[StatusWord]string{
	SW_NO_ERROR:                "SW_NO_ERROR",
	SW_WARN_NO_INFO:            "SW_WARN_NO_INFO",
	SW_WARN_NV_CHANGED_NO_INFO: "SW_WARN_NV_CHANGED_NO_INFO",
	SW_ERR_EXEC_NO_INFO:        "SW_ERR_EXEC_NO_INFO",
	SW_ERR_MEMORY_FAILURE:      "SW_ERR_MEMORY_FAILURE",
	SW_ERR_SECURITY_ISSUE:      "SW_ERR_SECURITY_ISSUE",
	SW_ERR_WRONG_LENGTH:        "SW_ERR_WRONG_LENGTH",
	SW_ERR_CHECKING_NO_INFO:    "SW_ERR_CHECKING_NO_INFO",
	SW_ERR_SM_NOT_SUPPORTED:    "SW_ERR_SM_NOT_SUPPORTED",
	SW_ERR_CMD_NOT_ALLOWED:     "SW_ERR_CMD_NOT_ALLOWED",
	SW_ERR_SECURITY_STATUS:     "SW_ERR_SECURITY_STATUS",
	SW_ERR_AUTH_BLOCKED:        "SW_ERR_AUTH_BLOCKED",
	SW_ERR_COND_OF_USE:         "SW_ERR_COND_OF_USE",
	SW_ERR_SM_OBJ_INCORRECT:    "SW_ERR_SM_OBJ_INCORRECT",
	SW_ERR_INCORRECT_DATA:      "SW_ERR_INCORRECT_DATA",
	SW_ERR_FUNC_NOT_SUPP:       "SW_ERR_FUNC_NOT_SUPP",
	SW_ERR_FILE_NOT_FOUND:      "SW_ERR_FILE_NOT_FOUND",
	SW_ERR_WRONG_P1P2:          "SW_ERR_WRONG_P1P2",
	SW_ERR_INS_INVALID:         "SW_ERR_INS_INVALID",
	SW_ERR_CLA_NOT_SUPPORTED:   "SW_ERR_CLA_NOT_SUPPORTED",
	SW_ERR_UNKNOWN:             "SW_ERR_UNKNOWN",
}
