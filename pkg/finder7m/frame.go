package finder7m

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	fcReadHoldingRegisters = 0x03
	exceptionBit           = 0x80

	protocolIDModbusTCP = 0x0000
	mbapHeaderLength    = 7

	// MaxReadWords is the protocol limit for registers per read transaction.
	MaxReadWords = 125
)

// ReadRequest describes one read-holding-registers transaction. The same
// value that encoded the request must be used to validate its response.
type ReadRequest struct {
	TransactionID uint16
	UnitID        uint8
	Start         uint16
	Count         uint16
}

// RegisterFrame is the validated payload of one read response: Count
// contiguous 16-bit words starting at register Base.
type RegisterFrame struct {
	Base  uint16
	Words []uint16
}

// Encode produces the full Modbus-TCP ADU for the request: MBAP header
// followed by the function 0x03 PDU.
func (r ReadRequest) Encode() ([]byte, error) {
	if r.Count == 0 {
		return nil, errors.New("finder7m: read of zero registers")
	}
	if r.Count > MaxReadWords {
		return nil, ErrRequestTooLarge
	}
	adu := make([]byte, 12)
	binary.BigEndian.PutUint16(adu[0:2], r.TransactionID)
	binary.BigEndian.PutUint16(adu[2:4], protocolIDModbusTCP)
	binary.BigEndian.PutUint16(adu[4:6], 6) // unit id + PDU
	adu[6] = r.UnitID
	adu[7] = fcReadHoldingRegisters
	binary.BigEndian.PutUint16(adu[8:10], r.Start)
	binary.BigEndian.PutUint16(adu[10:12], r.Count)
	return adu, nil
}

// DecodeResponse validates a response ADU against the request and unwraps it
// into a RegisterFrame. Validation is strict: any disagreement between the
// declared and actual shape of the frame is an error, never a partial frame.
func (r ReadRequest) DecodeResponse(adu []byte) (*RegisterFrame, error) {
	if len(adu) < mbapHeaderLength+2 {
		return nil, &TruncatedError{Need: mbapHeaderLength + 2, Got: len(adu)}
	}
	if txn := binary.BigEndian.Uint16(adu[0:2]); txn != r.TransactionID {
		return nil, fmt.Errorf("finder7m: transaction id %#04x does not match request %#04x", txn, r.TransactionID)
	}
	if proto := binary.BigEndian.Uint16(adu[2:4]); proto != protocolIDModbusTCP {
		return nil, fmt.Errorf("finder7m: unexpected protocol id %#04x", proto)
	}
	if declared := int(binary.BigEndian.Uint16(adu[4:6])); declared != len(adu)-6 {
		return nil, &LengthMismatchError{Declared: declared, Expected: len(adu) - 6}
	}
	if adu[6] != r.UnitID {
		return nil, fmt.Errorf("finder7m: response unit id %d does not match request %d", adu[6], r.UnitID)
	}

	fc := adu[7]
	if fc == fcReadHoldingRegisters|exceptionBit {
		return nil, &ExceptionError{Code: adu[8]}
	}
	if fc != fcReadHoldingRegisters {
		return nil, &FunctionMismatchError{Got: fc}
	}

	byteCount := int(adu[8])
	if byteCount != 2*int(r.Count) {
		return nil, &LengthMismatchError{Declared: byteCount, Expected: 2 * int(r.Count)}
	}
	data := adu[mbapHeaderLength+2:]
	if len(data) < byteCount {
		return nil, &TruncatedError{Need: byteCount, Got: len(data)}
	}
	if len(data) > byteCount {
		return nil, &LengthMismatchError{Declared: byteCount, Expected: len(data)}
	}

	words := make([]uint16, r.Count)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(data[2*i : 2*i+2])
	}
	return &RegisterFrame{Base: r.Start, Words: words}, nil
}
