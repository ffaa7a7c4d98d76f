package startlight

import "fmt"

// Reason classifies the outcome of a send
type Reason int

const (
	ReasonOK Reason = iota
	ReasonTimeout
	ReasonOpenError
	ReasonWriteError
	ReasonReadError
	ReasonTransportUnavailable
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonTimeout:
		return "timeout"
	case ReasonOpenError:
		return "open_error"
	case ReasonWriteError:
		return "write_error"
	case ReasonReadError:
		return "read_error"
	case ReasonTransportUnavailable:
		return "transport_unavailable"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Result is the outcome of one send operation
type Result struct {
	OK     bool
	Reason Reason
	// Err carries the underlying cause for failed sends
	Err error
	// Shared is set when the outcome was delivered to more than one
	// concurrent caller of the same endpoint
	Shared bool
}

// Code renders the reason code handed to hosts, with the cause appended for
// open, write and read errors (e.g. "open_error: ...")
func (r Result) Code() string {
	switch r.Reason {
	case ReasonOpenError, ReasonWriteError, ReasonReadError:
		if r.Err != nil {
			return fmt.Sprintf("%s: %v", r.Reason, r.Err)
		}
	}
	return r.Reason.String()
}

func succeeded() Result {
	return Result{OK: true, Reason: ReasonOK}
}

func failed(reason Reason, err error) Result {
	return Result{Reason: reason, Err: err}
}
