package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/homeshare-india/smokecheck/packages/mock"
)

var (
	mockPortFlag    int
	mockDelayFlag   string
	mockVerboseFlag bool
)

var mockCmd = &cobra.Command{
	Use:   "mock",
	Short: "Serve a local in-memory HomeShare API",
	Long: `Serve a local in-memory HomeShare API implementing the endpoints the
smoke sequence consumes, so the suite can be exercised offline:

  smokecheck mock --port 8000 &
  smokecheck run --base-url http://localhost:8000`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []mock.Option{
			mock.WithPort(mockPortFlag),
			mock.WithVerbose(mockVerboseFlag),
		}
		if mockDelayFlag != "" {
			delay, err := time.ParseDuration(mockDelayFlag)
			if err != nil {
				return err
			}
			opts = append(opts, mock.WithDelay(delay))
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		return mock.NewServer(opts...).Start(ctx)
	},
}

func init() {
	mockCmd.Flags().IntVarP(&mockPortFlag, "port", "p", 8000, "Port to listen on")
	mockCmd.Flags().StringVar(&mockDelayFlag, "delay", "", "Artificial delay added to every response (e.g. 100ms)")
	mockCmd.Flags().BoolVar(&mockVerboseFlag, "verbose", false, "Log every request")
}
