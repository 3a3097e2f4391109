package smoke

import (
	"strconv"
	"time"
)

// PreviewMaxLen bounds the response preview stored on every result.
const PreviewMaxLen = 200

// ErrorStatus is the sentinel status label recorded when a case failed at
// the transport level and no HTTP status was observed.
const ErrorStatus = "ERROR"

// Case describes one named request with its expected status code.
type Case struct {
	Name           string
	Method         string
	Endpoint       string
	ExpectedStatus int
	Body           any               // JSON-serializable request body, nil for none
	Query          map[string]string // optional query parameters
}

// CaseResult is the immutable record of one executed case.
type CaseResult struct {
	Name           string
	Method         string
	Endpoint       string
	ExpectedStatus int
	ActualStatus   int
	Success        bool
	Preview        string
	Duration       time.Duration
	Err            error
}

// StatusLabel returns the observed status code as a string, or the ERROR
// sentinel when the case failed before a status was received.
func (r *CaseResult) StatusLabel() string {
	if r.Err != nil {
		return ErrorStatus
	}
	return strconv.Itoa(r.ActualStatus)
}
