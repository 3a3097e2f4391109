package smoke

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"golang.org/x/time/rate"

	"github.com/homeshare-india/smokecheck/packages/check"
	"github.com/homeshare-india/smokecheck/packages/http"
	"github.com/homeshare-india/smokecheck/packages/metrics"
)

// DefaultBaseURL is the deployment the suite targets when nothing else is
// configured.
const DefaultBaseURL = "https://homeshare-india.preview.emergentagent.com"

// DefaultTimeout is the per-request timeout.
const DefaultTimeout = 10 * time.Second

type Runner struct {
	client  *http.Client
	baseURL string
	apiURL  string
	timeout time.Duration

	testsRun    int
	testsPassed int
	results     []*CaseResult

	writer  io.Writer
	verbose bool
	limiter *rate.Limiter
	latency *metrics.Latency
}

type Option func(*Runner)

// WithClient replaces the default HTTP client.
func WithClient(c *http.Client) Option {
	return func(r *Runner) {
		r.client = c
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithWriter redirects progress output. Progress lines are decorative and
// not part of the tool's contract.
func WithWriter(w io.Writer) Option {
	return func(r *Runner) {
		r.writer = w
	}
}

// WithVerbose enables extra diagnostics (body summaries, schema issues).
func WithVerbose(v bool) Option {
	return func(r *Runner) {
		r.verbose = v
	}
}

// WithRPS paces case execution at the given requests-per-second. Zero
// leaves execution unpaced.
func WithRPS(rps float64) Option {
	return func(r *Runner) {
		if rps > 0 {
			r.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

func NewRunner(baseURL string, opts ...Option) *Runner {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	r := &Runner{
		baseURL: baseURL,
		apiURL:  baseURL + "/api",
		timeout: DefaultTimeout,
		writer:  os.Stdout,
		latency: metrics.NewLatency(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.client == nil {
		r.client = http.NewClient(
			http.WithTimeout(r.timeout),
			http.WithDefaultHeader("Content-Type", "application/json"),
		)
	}

	return r
}

// BaseURL returns the configured deployment base URL.
func (r *Runner) BaseURL() string {
	return r.baseURL
}

// TestsRun returns the number of cases executed so far.
func (r *Runner) TestsRun() int {
	return r.testsRun
}

// TestsPassed returns the number of cases that passed so far.
func (r *Runner) TestsPassed() int {
	return r.testsPassed
}

// Results returns the ordered case results accumulated so far.
func (r *Runner) Results() []*CaseResult {
	return r.results
}

// Latency returns the latency recorder for the run.
func (r *Runner) Latency() *metrics.Latency {
	return r.latency
}

// ExecuteCase runs one case: build the URL, dispatch the request, compare
// the observed status to the expected one, and record the result. The
// returned body is the raw response body on success and nil otherwise.
// Transport errors never abort the run; they are recorded with the ERROR
// status label and execution continues.
func (r *Runner) ExecuteCase(c *Case) (bool, []byte) {
	url := r.apiURL
	if c.Endpoint != "" {
		url = r.apiURL + "/" + c.Endpoint
	}

	r.testsRun++

	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(r.writer, "\n%s %s...\n", cyan("Testing"), c.Name)
	fmt.Fprintf(r.writer, "   URL: %s\n", url)

	req := http.NewRequest(c.Method, url)
	req.SetTimeout(r.timeout)
	for k, v := range c.Query {
		req.SetQueryParam(k, v)
	}

	if c.Body != nil {
		payload, err := json.Marshal(c.Body)
		if err != nil {
			r.recordError(c, err)
			return false, nil
		}
		req.SetBody(string(payload))
	}

	if r.limiter != nil {
		_ = r.limiter.Wait(context.Background())
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.recordError(c, err)
		return false, nil
	}

	r.latency.Record(resp.Duration)

	success := resp.StatusCode == c.ExpectedStatus
	if success {
		r.testsPassed++
		green := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(r.writer, "%s Passed - Status: %d\n", green("✓"), resp.StatusCode)
		fmt.Fprintf(r.writer, "   Response: %s\n", check.Summarize(resp.Body, PreviewMaxLen))
		if r.verbose {
			r.printSchemaDiagnostics(c, resp.Body)
		}
	} else {
		red := color.New(color.FgRed).SprintFunc()
		fmt.Fprintf(r.writer, "%s Failed - Expected %d, got %d\n", red("✗"), c.ExpectedStatus, resp.StatusCode)
		fmt.Fprintf(r.writer, "   Response: %s\n", check.Truncate(resp.BodyString(), PreviewMaxLen))
	}

	preview := "OK"
	if !success {
		preview = check.Truncate(resp.BodyString(), PreviewMaxLen)
	}

	r.results = append(r.results, &CaseResult{
		Name:           c.Name,
		Method:         c.Method,
		Endpoint:       c.Endpoint,
		ExpectedStatus: c.ExpectedStatus,
		ActualStatus:   resp.StatusCode,
		Success:        success,
		Preview:        preview,
		Duration:       resp.Duration,
	})

	if !success {
		return false, nil
	}
	return true, resp.Body
}

func (r *Runner) recordError(c *Case, err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(r.writer, "%s Failed - Error: %v\n", red("✗"), err)

	r.results = append(r.results, &CaseResult{
		Name:           c.Name,
		Method:         c.Method,
		Endpoint:       c.Endpoint,
		ExpectedStatus: c.ExpectedStatus,
		Success:        false,
		Preview:        check.Truncate(err.Error(), PreviewMaxLen),
		Err:            err,
	})
}

// printSchemaDiagnostics surfaces listing shape problems on the properties
// endpoints. Advisory only.
func (r *Runner) printSchemaDiagnostics(c *Case, body []byte) {
	if !strings.HasPrefix(c.Endpoint, "properties") || strings.HasPrefix(c.Endpoint, "properties/search") {
		return
	}

	issues, err := check.ValidateListing(body)
	if err != nil || len(issues) == 0 {
		return
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	for _, issue := range issues {
		fmt.Fprintf(r.writer, "   %s %s\n", yellow("schema:"), issue)
	}
}
