package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/homeshare-india/smokecheck/packages/core/config"
	"github.com/homeshare-india/smokecheck/packages/history"
	"github.com/homeshare-india/smokecheck/packages/http"
	"github.com/homeshare-india/smokecheck/packages/output"
	"github.com/homeshare-india/smokecheck/packages/smoke"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the smoke check sequence against a deployment",
	Long: `Run the fixed smoke check sequence against a HomeShare API deployment.

Examples:
  smokecheck run
  smokecheck run --base-url http://localhost:8000
  smokecheck run --env staging -o junit --output-file report.xml
  smokecheck run --history smoke.db --rps 2
  smokecheck run --watch`,
	Args: cobra.NoArgs,
	RunE: runCommand,
}

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

var (
	baseURLFlag    string
	envFlag        string
	configFlag     string
	timeoutFlag    string
	verboseFlag    int
	quietFlag      bool
	noColorFlag    bool
	outputFlag     string
	outputFileFlag string
	insecureFlag   bool
	proxyFlag      string
	rpsFlag        float64
	historyFlag    string
	watchFlag      bool
)

func init() {
	// Target flags
	runCmd.Flags().StringVar(&baseURLFlag, "base-url", getEnvString("SMOKECHECK_BASE_URL", ""), "Deployment base URL (env: SMOKECHECK_BASE_URL)")
	runCmd.Flags().StringVarP(&envFlag, "env", "e", getEnvString("SMOKECHECK_ENV", ""), "Named environment from the config file (env: SMOKECHECK_ENV)")
	runCmd.Flags().StringVar(&configFlag, "config", getEnvString("SMOKECHECK_CONFIG", ""), "Path to config file (env: SMOKECHECK_CONFIG)")
	runCmd.Flags().StringVar(&timeoutFlag, "timeout", getEnvString("SMOKECHECK_TIMEOUT", ""), "Per-request timeout (e.g. 10s, 500ms) (env: SMOKECHECK_TIMEOUT)")

	// Output flags
	runCmd.Flags().CountVarP(&verboseFlag, "verbose", "v", "Verbose output (-v, -vv for more detail)")
	runCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", getEnvBool("SMOKECHECK_QUIET", false), "Suppress progress output (env: SMOKECHECK_QUIET)")
	runCmd.Flags().BoolVar(&noColorFlag, "no-color", getEnvBool("SMOKECHECK_NO_COLOR", false), "Disable colored output (env: SMOKECHECK_NO_COLOR)")
	runCmd.Flags().StringVarP(&outputFlag, "output", "o", getEnvString("SMOKECHECK_OUTPUT", "console"), "Output format: console, json, junit (env: SMOKECHECK_OUTPUT)")
	runCmd.Flags().StringVar(&outputFileFlag, "output-file", getEnvString("SMOKECHECK_OUTPUT_FILE", ""), "Write output to file (default: stdout) (env: SMOKECHECK_OUTPUT_FILE)")

	// Network flags
	runCmd.Flags().BoolVarP(&insecureFlag, "insecure", "k", getEnvBool("SMOKECHECK_INSECURE", false), "Disable SSL certificate validation (env: SMOKECHECK_INSECURE)")
	runCmd.Flags().StringVar(&proxyFlag, "proxy", getEnvString("SMOKECHECK_PROXY", ""), "Proxy URL for HTTP requests (env: SMOKECHECK_PROXY)")
	runCmd.Flags().Float64Var(&rpsFlag, "rps", getEnvFloat("SMOKECHECK_RPS", 0), "Pace requests at this rate, 0 = unpaced (env: SMOKECHECK_RPS)")

	// History and watch flags
	runCmd.Flags().StringVar(&historyFlag, "history", getEnvString("SMOKECHECK_HISTORY", ""), "Append run results to a SQLite history database (env: SMOKECHECK_HISTORY)")
	runCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Watch the config file for changes and re-run")
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

// Formatter is implemented by all output formatters
type Formatter interface {
	FormatReport(report *smoke.Report)
	FormatError(err error)
	FormatHeader(version string)
}

// Flushable is implemented by formatters that accumulate results
type Flushable interface {
	Flush(totalDuration time.Duration) error
}

func newFormatter(outWriter io.Writer) Formatter {
	switch strings.ToLower(outputFlag) {
	case "json":
		opts := []output.JSONOption{}
		if outWriter != nil {
			opts = append(opts, output.JSONWithWriter(outWriter))
		}
		return output.NewJSONFormatter(opts...)
	case "junit":
		opts := []output.JUnitOption{}
		if outWriter != nil {
			opts = append(opts, output.JUnitWithWriter(outWriter))
		}
		return output.NewJUnitFormatter(opts...)
	default: // "console"
		opts := []output.ConsoleOption{
			output.WithVerbose(verboseFlag > 0),
			output.WithNoColor(noColorFlag || quietFlag),
		}
		if outWriter != nil {
			opts = append(opts, output.WithWriter(outWriter))
		}
		return output.NewConsoleFormatter(opts...)
	}
}

func runCommand(cmd *cobra.Command, args []string) error {
	// Setup output writer
	var outWriter *os.File
	var err error
	if outputFileFlag != "" {
		outWriter, err = os.Create(outputFileFlag)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer outWriter.Close()
	}

	var fileWriter io.Writer
	if outWriter != nil {
		fileWriter = outWriter
	}

	formatter := newFormatter(fileWriter)
	formatter.FormatHeader(version)

	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		formatter.FormatError(err)
		os.Exit(ExitConfigError)
	}

	baseURL, headers, err := fileConfig.ResolveEnvironment(envFlag)
	if err != nil {
		formatter.FormatError(err)
		os.Exit(ExitConfigError)
	}
	if baseURLFlag != "" {
		baseURL = baseURLFlag
	}
	if baseURL == "" {
		baseURL = smoke.DefaultBaseURL
	}

	timeout := time.Duration(fileConfig.Timeout) * time.Millisecond
	if timeoutFlag != "" {
		timeout, err = time.ParseDuration(timeoutFlag)
		if err != nil {
			formatter.FormatError(fmt.Errorf("invalid timeout value %q: %w (use format like 10s, 500ms)", timeoutFlag, err))
			os.Exit(ExitConfigError)
		}
	}

	proxy := fileConfig.Proxy
	if proxyFlag != "" {
		proxy = proxyFlag
	}

	validateSSL := fileConfig.GetValidateSSL()
	if insecureFlag {
		validateSSL = false
	}

	rps := fileConfig.RPS
	if rpsFlag > 0 {
		rps = rpsFlag
	}

	historyPath := fileConfig.HistoryFile
	if historyFlag != "" {
		historyPath = historyFlag
	}

	var store *history.Store
	if historyPath != "" {
		store, err = history.Open(historyPath)
		if err != nil {
			formatter.FormatError(err)
			os.Exit(ExitConfigError)
		}
		defer store.Close()
	}

	buildRunner := func() *smoke.Runner {
		clientOpts := []http.ClientOption{
			http.WithTimeout(timeout),
			http.WithFollowRedirects(fileConfig.GetFollowRedirects()),
			http.WithValidateSSL(validateSSL),
			http.WithDefaultHeader("Content-Type", "application/json"),
			http.WithDefaultHeaders(headers),
		}
		if proxy != "" {
			clientOpts = append(clientOpts, http.WithProxy(proxy))
		}

		progress := io.Writer(cmd.OutOrStdout())
		if quietFlag {
			progress = io.Discard
		}

		return smoke.NewRunner(baseURL,
			smoke.WithClient(http.NewClient(clientOpts...)),
			smoke.WithTimeout(timeout),
			smoke.WithWriter(progress),
			smoke.WithVerbose(verboseFlag > 1),
			smoke.WithRPS(rps),
		)
	}

	runOnce := func(f Formatter) *smoke.Report {
		report := buildRunner().RunScenario()
		f.FormatReport(report)
		if flushable, ok := f.(Flushable); ok {
			if err := flushable.Flush(report.Duration); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to write output: %v\n", err)
			}
		}
		if store != nil {
			if err := store.SaveReport(report); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to save history: %v\n", err)
			}
		}
		return report
	}

	report := runOnce(formatter)

	if !watchFlag {
		if !report.AllPassed() {
			os.Exit(ExitCheckFailure)
		}
		return nil
	}

	return watchAndRerun(cmd, runOnce)
}

// watchAndRerun re-runs the suite whenever the config file changes.
func watchAndRerun(cmd *cobra.Command, runOnce func(Formatter) *smoke.Report) error {
	configPath := configFlag
	if configPath == "" {
		configPath = config.FindConfigFile(".")
	}
	if configPath == "" {
		return fmt.Errorf("--watch requires a config file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often replace files on save.
	if err := watcher.Add(filepath.Dir(configPath)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", configPath, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", configPath)

	var debounceTimer *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Name != configPath || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, func() {
				fmt.Fprintf(cmd.OutOrStdout(), "\nConfig changed: %s\nRe-running checks...\n", event.Name)

				// Fresh formatter per run: JSON/JUnit accumulate state.
				runOnce(newFormatter(nil))

				fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes... (press Ctrl+C to stop)\n", configPath)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watcher error: %v\n", err)
		}
	}
}
