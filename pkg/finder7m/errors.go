package finder7m

import (
	"errors"
	"fmt"
)

var (
	// ErrRequestTooLarge is returned when a read request exceeds the
	// protocol limit of 125 registers per transaction.
	ErrRequestTooLarge = errors.New("finder7m: request exceeds 125 registers")

	// ErrTimeout wraps any read or write that ran into the session deadline.
	ErrTimeout = errors.New("finder7m: request timed out")
)

// ExceptionError is a Modbus exception response from the gateway or meter.
type ExceptionError struct {
	Code uint8
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("finder7m: modbus exception %#02x", e.Code)
}

// FunctionMismatchError is a response whose function code does not echo the
// request.
type FunctionMismatchError struct {
	Got uint8
}

func (e *FunctionMismatchError) Error() string {
	return fmt.Sprintf("finder7m: unexpected function code %#02x in response", e.Got)
}

// LengthMismatchError is a response whose declared length disagrees with the
// length implied by the request.
type LengthMismatchError struct {
	Declared int
	Expected int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("finder7m: response declares %d bytes, expected %d", e.Declared, e.Expected)
}

// TruncatedError is a response buffer shorter than its declared length.
type TruncatedError struct {
	Need int
	Got  int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("finder7m: truncated response, need %d bytes, got %d", e.Need, e.Got)
}

// UnavailableFieldError reports a register holding the meter's
// "not available" sentinel where a value was expected.
type UnavailableFieldError struct {
	Field    string
	Register uint16
}

func (e *UnavailableFieldError) Error() string {
	return fmt.Sprintf("finder7m: field %s unavailable (register %d)", e.Field, e.Register)
}

// InvalidFloatError reports a register pair that decodes to NaN or an
// infinity instead of a finite IEEE 754 value.
type InvalidFloatError struct {
	Field    string
	Register uint16
}

func (e *InvalidFloatError) Error() string {
	return fmt.Sprintf("finder7m: field %s is not a finite float (register %d)", e.Field, e.Register)
}

// OutOfRangeError reports a decoded value outside the meter's documented
// physical range.
type OutOfRangeError struct {
	Field string
	Value float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("finder7m: field %s out of range: %g", e.Field, e.Value)
}
