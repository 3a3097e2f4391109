package smoke

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/homeshare-india/smokecheck/packages/check"
	"github.com/homeshare-india/smokecheck/packages/metrics"
)

// NonexistentID is the synthetic identifier used by the 404 case.
const NonexistentID = "non-existent-id-12345"

// Report is the outcome of one full scenario run.
type Report struct {
	RunID       string
	BaseURL     string
	StartedAt   time.Time
	Duration    time.Duration
	TestsRun    int
	TestsPassed int
	Results     []*CaseResult
	Latency     *metrics.Summary
}

// AllPassed reports whether every executed case passed.
func (r *Report) AllPassed() bool {
	return r.TestsPassed == r.TestsRun
}

// Failures returns the failed case results in execution order.
func (r *Report) Failures() []*CaseResult {
	var failed []*CaseResult
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// RunScenario executes the fixed case sequence in order and returns the
// run report. The sequence is not data-driven: it mirrors the endpoints the
// HomeShare API exposes, threading the first listing id from the collection
// case into the by-id case when one was captured.
func (r *Runner) RunScenario() *Report {
	started := time.Now()

	r.ExecuteCase(&Case{
		Name:           "Root API",
		Method:         "GET",
		Endpoint:       "",
		ExpectedStatus: 200,
	})

	ok, body := r.ExecuteCase(&Case{
		Name:           "Get All Properties",
		Method:         "GET",
		Endpoint:       "properties",
		ExpectedStatus: 200,
	})

	listingID := ""
	if ok {
		listingID = check.FirstListingID(body)
		if listingID != "" {
			fmt.Fprintf(r.writer, "   Using property ID for detailed testing: %s\n", listingID)
		}
	}

	r.ExecuteCase(&Case{
		Name:           "Get Properties with City Filter",
		Method:         "GET",
		Endpoint:       "properties",
		ExpectedStatus: 200,
		Query:          map[string]string{"city": "Mumbai", "limit": "5"},
	})

	r.ExecuteCase(&Case{
		Name:           "Get Available Cities",
		Method:         "GET",
		Endpoint:       "properties/search/cities",
		ExpectedStatus: 200,
	})

	if listingID != "" {
		r.ExecuteCase(&Case{
			Name:           "Get Property by ID",
			Method:         "GET",
			Endpoint:       "properties/" + listingID,
			ExpectedStatus: 200,
		})
	}

	r.ExecuteCase(&Case{
		Name:           "Get Non-existent Property",
		Method:         "GET",
		Endpoint:       "properties/" + NonexistentID,
		ExpectedStatus: 404,
	})

	r.ExecuteCase(&Case{
		Name:           "Create Property",
		Method:         "POST",
		Endpoint:       "properties",
		ExpectedStatus: 200,
		Body:           DefaultPropertyPayload(),
	})

	return &Report{
		RunID:       uuid.New().String(),
		BaseURL:     r.baseURL,
		StartedAt:   started,
		Duration:    time.Since(started),
		TestsRun:    r.testsRun,
		TestsPassed: r.testsPassed,
		Results:     r.results,
		Latency:     r.latency.Snapshot(),
	}
}
