package errors

import "fmt"

const (
	// SuccessCode is reported for a transaction that did not fail.
	SuccessCode uint32 = 0

	// InternalCode is reported for errors that were not created from a
	// registered root error. Their message is not exposed to clients.
	InternalCode uint32 = 1

	internalLog = "internal error"
)

// coder is implemented by errors that carry a registered code.
type coder interface {
	Code() uint32
}

// Code returns the registered code of the first error in the chain that
// carries one. Errors without a registered cause get InternalCode.
func Code(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.Code()
		}
		c, ok := err.(causer)
		if !ok {
			return InternalCode
		}
		err = c.Cause()
	}
}

// Result returns the code and the message that describe the outcome of a
// transaction to a client. Messages of internal errors are replaced with a
// generic one unless debug is set, in which case the full error including
// the stack trace is returned.
func Result(err error, debug bool) (uint32, string) {
	code := Code(err)
	switch {
	case code == SuccessCode:
		return code, ""
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == InternalCode || ErrPanic.Is(err):
		return code, internalLog
	default:
		return code, err.Error()
	}
}
