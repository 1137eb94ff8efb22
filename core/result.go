package core

import "fmt"

// Result is the closed set of completion kinds every asynchronous
// protocol operation finishes with: a small sentinel value shared
// across every protocol layer, not a class hierarchy.
type Result int

const (
	// OK means the operation completed successfully.
	OK Result = iota
	// InProgress means the command was accepted and completion is
	// still pending.
	InProgress
	// BadRequest means the caller's command was structurally invalid.
	BadRequest
	// TimedOut means no response arrived within the allotted wait.
	TimedOut
	// AsyncFailed means the remote returned a protocol-level failure.
	// The failing byte is attached via ProtocolError.
	AsyncFailed
	// AsyncAborted means the application cancelled the operation.
	AsyncAborted
	// IllegalState means the operation is not valid in the current
	// state machine state.
	IllegalState
	// AlreadyConnected means a pairing/connect request was redundant.
	AlreadyConnected
	// AlreadyReleased means an unpair/disconnect request was redundant.
	AlreadyReleased
	// Unavailable is a catch-all transport failure.
	Unavailable
	// General is a catch-all for anything else.
	General
)

func (r Result) String() string {
	switch r {
	case OK:
		return "OK"
	case InProgress:
		return "IN_PROGRESS"
	case BadRequest:
		return "BAD_REQUEST"
	case TimedOut:
		return "TIMEDOUT"
	case AsyncFailed:
		return "ASYNC_FAILED"
	case AsyncAborted:
		return "ASYNC_ABORTED"
	case IllegalState:
		return "ILLEGAL_STATE"
	case AlreadyConnected:
		return "ALREADY_CONNECTED"
	case AlreadyReleased:
		return "ALREADY_RELEASED"
	case Unavailable:
		return "UNAVAILABLE"
	default:
		return "GENERAL"
	}
}

// Error lets Result satisfy the error interface directly, so a command
// can return (Result, error) with the Result itself as the error when
// no further detail is available.
func (r Result) Error() string { return r.String() }

// ProtocolError wraps AsyncFailed with the kind-specific failure byte
// the remote returned (an HCI status, MGMT error, ATT error code, AVDTP
// error code, or SDP error code), so callers can inspect it with
// errors.As without each protocol package inventing its own type.
type ProtocolError struct {
	Result Result
	Code   uint8
	Op     string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("%s: %s failed with code 0x%02x", e.Result, e.Op, e.Code)
}

// Unwrap lets errors.Is(err, core.AsyncFailed) work.
func (e *ProtocolError) Unwrap() error { return e.Result }

// NewProtocolError builds an AsyncFailed ProtocolError for operation op
// with remote failure code.
func NewProtocolError(op string, code uint8) *ProtocolError {
	return &ProtocolError{Result: AsyncFailed, Code: code, Op: op}
}
