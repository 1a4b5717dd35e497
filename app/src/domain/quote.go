package domain

import (
	"fmt"
	"time"
)

// Outcome classifies the result of a single call to the backend.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeNotConfigured
	OutcomeTimeout
	OutcomeTransportError
	OutcomeBadStatus
	OutcomeMalformed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotConfigured:
		return "not_configured"
	case OutcomeTimeout:
		return "timeout"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeBadStatus:
		return "bad_status"
	case OutcomeMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// CallResult keeps the diagnostic detail of a backend call. Callers that only
// need availability use OK.
type CallResult struct {
	Operation  string
	Outcome    Outcome
	StatusCode int
	Err        error
	Duration   time.Duration
}

// OK reports whether the call succeeded.
func (r CallResult) OK() bool {
	return r.Outcome == OutcomeOK
}

// SubmitResult is the backend's answer to an add-quote request.
type SubmitResult struct {
	CallResult
	Message string
}

// Hostnames identifies the processes that served a request.
type Hostnames struct {
	Frontend string  `json:"frontend"`
	Backend  *string `json:"backend"`
}

// IndexView is everything the index page renders.
type IndexView struct {
	Backend    bool
	Database   bool
	Quotes     []string
	Hostnames  Hostnames
	Standalone bool
}

// Degraded reports a reachable backend whose database is down.
func (v IndexView) Degraded() bool {
	return v.Backend && !v.Database
}

// AddQuoteResult is the status and body returned to the add-quote caller.
type AddQuoteResult struct {
	Status  int
	Message string
}
