package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via ldflags.
var Version = "0.1.0"

// ExitCodeError signals a non-zero exit code without calling os.Exit directly.
type ExitCodeError struct{ Code int }

func (e ExitCodeError) Error() string { return fmt.Sprintf("exit %d", e.Code) }

type globalOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	var g globalOptions
	root := &cobra.Command{
		Use:   "compass",
		Short: "Resource waste diagnosis for big data jobs",
		Long: `compass turns detector results of a finished job into a diagnosis report.

DIAGNOSIS
  diagnose [JOB_ID]   Analyze detector results (MapReduce memory, Spark memory and CPU waste)
  ingest [JOB_ID]     Store a results bundle in the SQL source
  analyzers           List registered analyzers in report order

CONFIGURATION
  config show         Print the effective configuration
  config init         Write the default configuration file
  config path         Print the configuration file path

Examples:
  compass diagnose --input job_1.json
  compass diagnose job_1 --dsn results.db --format markdown
  compass diagnose job_1 --dsn postgres://localhost/compass --driver pgx --lang zh
  compass diagnose --input job_1.yaml --set mr_memory_waste.map_threshold=30 --fail-on-abnormal`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/compass/config.yaml)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newDiagnoseCmd(&g),
		newIngestCmd(&g),
		newAnalyzersCmd(),
		newConfigCmd(&g),
		newVersionCmd(),
	)
	return root
}

// newLogger builds the CLI logger. Logs go to stderr so report output on
// stdout stays machine-readable.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		zapCfg := zap.NewDevelopmentConfig()
		zapCfg.OutputPaths = []string{"stderr"}
		return zapCfg.Build()
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	zapCfg.Encoding = "console"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	return zapCfg.Build()
}

// Run parses the command line and executes the selected command.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}
