package iso7816

// A Transaction is one C-APDU and the R-APDU that answered it. A Trace is the
// chronological list of transactions behind one logical operation, including
// any GET RESPONSE or Le correction issued by the Client.

// Transaction represents a completed Command-Response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess checks if the transaction ended with a successful status.
func (t *Transaction) IsSuccess() bool {
	if t.Response == nil {
		return false
	}
	return t.Response.Status.IsSuccess()
}

// Trace is a sequence of transactions.
type Trace []Transaction

// Last returns the final transaction, or nil for an empty trace.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// Final returns the response of the last transaction, or nil.
func (t Trace) Final() *ResponseAPDU {
	last := t.Last()
	if last == nil {
		return nil
	}
	return last.Response
}

// IsSuccess checks the final transaction of the trace.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return false
	}
	return last.IsSuccess()
}
