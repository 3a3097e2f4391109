package output

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/homeshare-india/smokecheck/packages/metrics"
	"github.com/homeshare-india/smokecheck/packages/smoke"
)

// JSONOutput represents the complete JSON report structure
type JSONOutput struct {
	RunID    string           `json:"runId"`
	BaseURL  string           `json:"baseUrl"`
	Summary  JSONSummary      `json:"summary"`
	Cases    []JSONCase       `json:"cases"`
	Latency  *metrics.Summary `json:"latency,omitempty"`
	Duration float64          `json:"duration"`
	Time     string           `json:"time"`
}

// JSONSummary represents the run summary
type JSONSummary struct {
	Run    int `json:"run"`
	Passed int `json:"passed"`
	Failed int `json:"failed"`
}

// JSONCase represents a single case result
type JSONCase struct {
	Name           string  `json:"name"`
	Method         string  `json:"method"`
	Endpoint       string  `json:"endpoint"`
	ExpectedStatus int     `json:"expectedStatus"`
	ActualStatus   string  `json:"actualStatus"`
	Success        bool    `json:"success"`
	Preview        string  `json:"responsePreview,omitempty"`
	Duration       float64 `json:"duration"`
	Error          string  `json:"error,omitempty"`
}

// JSONFormatter formats run reports as JSON
type JSONFormatter struct {
	writer io.Writer
	report *JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatReport(report *smoke.Report) {
	out := &JSONOutput{
		RunID:   report.RunID,
		BaseURL: report.BaseURL,
		Summary: JSONSummary{
			Run:    report.TestsRun,
			Passed: report.TestsPassed,
			Failed: report.TestsRun - report.TestsPassed,
		},
		Cases:    make([]JSONCase, 0, len(report.Results)),
		Latency:  report.Latency,
		Duration: float64(report.Duration.Milliseconds()),
		Time:     report.StartedAt.Format(time.RFC3339),
	}

	for _, r := range report.Results {
		c := JSONCase{
			Name:           r.Name,
			Method:         r.Method,
			Endpoint:       r.Endpoint,
			ExpectedStatus: r.ExpectedStatus,
			ActualStatus:   r.StatusLabel(),
			Success:        r.Success,
			Preview:        r.Preview,
			Duration:       float64(r.Duration.Milliseconds()),
		}
		if r.Err != nil {
			c.Error = r.Err.Error()
		}
		out.Cases = append(out.Cases, c)
	}

	f.report = out
}

func (f *JSONFormatter) FormatError(err error) {
	// Errors are included in individual case results
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON report
func (f *JSONFormatter) Flush(totalDuration time.Duration) error {
	if f.report == nil {
		f.report = &JSONOutput{Time: time.Now().Format(time.RFC3339)}
	}
	f.report.Duration = float64(totalDuration.Milliseconds())

	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.report)
}
