package output

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/homeshare-india/smokecheck/packages/smoke"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatReport(report *smoke.Report) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n", bold("=================================================="))
	fmt.Fprintf(f.writer, "%s %d/%d checks passed\n", bold("Results:"), report.TestsPassed, report.TestsRun)

	for _, r := range report.Results {
		symbol := green("✓")
		if !r.Success {
			symbol = red("✗")
		}
		fmt.Fprintf(f.writer, "  %s %s %s\n", symbol, r.Name, cyan(fmt.Sprintf("(%dms)", r.Duration.Milliseconds())))
	}

	if f.verbose && report.Latency != nil && report.Latency.Count > 0 {
		fmt.Fprintf(f.writer, "\nLatency: p50=%dms p95=%dms p99=%dms\n",
			report.Latency.P50.Milliseconds(),
			report.Latency.P95.Milliseconds(),
			report.Latency.P99.Milliseconds())
	}

	fmt.Fprintf(f.writer, "Time: %dms\n", report.Duration.Milliseconds())

	if report.AllPassed() {
		fmt.Fprintf(f.writer, "\n%s\n", green("All checks passed!"))
		return
	}

	fmt.Fprintf(f.writer, "\n%s\n", red("Some checks failed:"))
	for _, r := range report.Failures() {
		fmt.Fprintf(f.writer, "  - %s (%s %s): expected %d, got %s\n",
			r.Name, r.Method, r.Endpoint, r.ExpectedStatus, r.StatusLabel())
		if r.Preview != "" {
			fmt.Fprintf(f.writer, "    %s\n", r.Preview)
		}
	}
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("smokecheck"), version)
}
