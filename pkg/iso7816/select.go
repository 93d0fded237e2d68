package iso7816

// SELECT (INS 'A4'), ISO 7816-4.
//
// P1 is the selection method; the token applets are selected by DF name (AID),
// P1 = 04. P2 combines the response control (bits 4-3) and the occurrence
// (bits 2-1).

// SelectionMethod defines how the target is designated (P1).
type SelectionMethod byte

const (
	SelectByFileID SelectionMethod = 0x00
	SelectByDFName SelectionMethod = 0x04
)

func (s SelectionMethod) String() string {
	switch s {
	case SelectByFileID:
		return "Select by File ID"
	case SelectByDFName:
		return "Select by DF Name (AID)"
	default:
		return "Unknown Method"
	}
}

// SelectionControl defines what data the token should return (P2 bits 4-3).
type SelectionControl byte

const (
	ReturnFCI    SelectionControl = 0b0000_00_00
	ReturnFCP    SelectionControl = 0b0000_01_00
	ReturnFMD    SelectionControl = 0b0000_10_00
	ReturnNoData SelectionControl = 0b0000_11_00
)

func (s SelectionControl) String() string {
	switch s {
	case ReturnFCI:
		return "Return FCI"
	case ReturnFCP:
		return "Return FCP"
	case ReturnFMD:
		return "Return FMD"
	default:
		return "No Response Data"
	}
}

// NewSelectCommand creates a SELECT command for the first occurrence of the target.
func NewSelectCommand(cla Class, method SelectionMethod, ctrl SelectionControl, data []byte) *CommandAPDU {
	// T=0: a case 3 SELECT cannot carry Le; the token answers 61XX and the
	// Client fetches the FCI.
	ne := 0
	if len(data) == 0 && ctrl != ReturnNoData {
		ne = MaxShortLe
	}

	return NewCommandAPDU(cla, MustInstruction(INS_SELECT), byte(method), byte(ctrl), data, ne)
}

// SelectByAID selects an applet by its AID.
func SelectByAID(cla Class, aid []byte) *CommandAPDU {
	return NewSelectCommand(cla, SelectByDFName, ReturnFCI, aid)
}
