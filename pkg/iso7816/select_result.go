package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/dfu-token/pkg/tlv"
)

// SelectResult wraps the trace of a SELECT command and reports on it.
type SelectResult struct {
	Trace
}

// NewSelectResult checks that t is non-empty and starts with a SELECT.
func NewSelectResult(t Trace) (*SelectResult, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("cannot create result from empty trace")
	}

	if t[0].Command.Instruction.Raw != INS_SELECT {
		return nil, fmt.Errorf("trace must start with SELECT command (got %02X)", byte(t[0].Command.Instruction.Raw))
	}

	return &SelectResult{Trace: t}, nil
}

// AID returns the DF name the SELECT was issued for.
func (r *SelectResult) AID() []byte {
	return r.Trace[0].Command.Data
}

// Selected reports whether the token accepted the selection with exactly 9000.
func (r *SelectResult) Selected() bool {
	final := r.Final()
	return final != nil && final.Status == SW_NO_ERROR
}

// Describe generates an ASCII report of the selection.
func (r *SelectResult) Describe() string {
	var sb strings.Builder

	sb.WriteString("=== SELECT COMMAND REPORT ===\n")

	tx0 := r.Trace[0]
	cmd := tx0.Command

	sb.WriteString("[1] Command: SELECT (Initial Request)\n")
	sb.WriteString(fmt.Sprintf("    + Method:  %02X -> %s\n", cmd.P1, SelectionMethod(cmd.P1)))
	sb.WriteString(fmt.Sprintf("    + Control: %02X -> %s\n", cmd.P2, SelectionControl(cmd.P2&0x0C)))
	if len(cmd.Data) > 0 {
		sb.WriteString(fmt.Sprintf("    + Data:    %X (%q)\n", cmd.Data, tlv.MakeSafeASCII(cmd.Data)))
	}
	sb.WriteString(fmt.Sprintf("    + Result:  %s\n", describeStatus(tx0.Response.Status)))

	if len(r.Trace) > 1 {
		sb.WriteString(fmt.Sprintf("[2] Protocol: Auto-handling (%d steps)\n", len(r.Trace)))
		for _, tx := range r.Trace[1:] {
			sb.WriteString(fmt.Sprintf("    + %s -> %s\n", tx.Command.Instruction.Raw, describeStatus(tx.Response.Status)))
		}
	}

	final := r.Final()
	sb.WriteString("[=] FINAL OUTCOME:\n")
	if len(final.Data) > 0 {
		sb.WriteString(fmt.Sprintf("    + Length: %d bytes\n", len(final.Data)))
		sb.WriteString(fmt.Sprintf("    + Dump:   %X\n", final.Data))
	} else {
		sb.WriteString("    - No Data Received.\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func describeStatus(sw StatusWord) string {
	flag := "[OK]"
	if !sw.IsSuccess() {
		flag = "[!!]"
	}
	return fmt.Sprintf("[%02X %02X] %s %s", sw.SW1(), sw.SW2(), flag, sw.Verbose())
}
