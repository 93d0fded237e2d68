/*
Package iso7816 implements the ISO/IEC 7816-4 command/response layer used to talk
to a secure token: APDU encoding, Status Word analysis, class and instruction
bytes, and a Client that absorbs the T=0 transport procedures.

# Fundamentals

The exchange is strictly synchronous:
 1. The host sends a Command APDU (header CLA INS P1 P2, optional Lc/Data, optional Le).
 2. The token processes it and returns a Response APDU (optional data, SW1 SW2).

# Status Words

Every response ends with a 2-byte Status Word (SW).
  - 0x9000: Success.
  - 0x61XX: Success, XX more bytes to fetch with GET RESPONSE.
  - 0x6CXX: Wrong Le, XX is the length the token wants.
  - Other: warnings (62XX, 63XX) and errors (64XX to 6FXX).

# Usage Example

	client := iso7816.NewClient(card)
	cls, _ := iso7816.NewClass(0x00)

	trace, err := client.Send(iso7816.SelectByAID(cls, aid))
	if err != nil {
	    log.Fatal(err)
	}

	res, _ := iso7816.NewSelectResult(trace)
	if !res.IsSuccess() {
	    log.Fatalf("applet not selected: %s", res.Last().Response.Status.Verbose())
	}
	fmt.Println(res.Describe())
*/
package iso7816
