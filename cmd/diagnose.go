package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wuzhjian/compass/collector"
	"github.com/wuzhjian/compass/config"
	"github.com/wuzhjian/compass/engine"
	"github.com/wuzhjian/compass/ui"
)

type sourceOptions struct {
	input  string
	dsn    string
	driver string
	table  string
}

func (s *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.input, "input", "i", "", "detector results bundle (.json, .yaml)")
	cmd.Flags().StringVar(&s.dsn, "dsn", "", "SQL data source name (SQLite file or PostgreSQL URL)")
	cmd.Flags().StringVar(&s.driver, "driver", "", "SQL driver: sqlite or pgx (default from config)")
	cmd.Flags().StringVar(&s.table, "table", "", "detector results table (default from config)")
}

// merge fills unset flags from the config file.
func (s *sourceOptions) merge(src config.SourceConfig) {
	if s.input == "" {
		s.input = src.Input
	}
	if s.dsn == "" {
		s.dsn = src.DSN
	}
	if s.driver == "" {
		s.driver = src.Driver
	}
	if s.table == "" {
		s.table = src.Table
	}
}

type diagnoseOptions struct {
	source         sourceOptions
	format         string
	lang           string
	parallel       bool
	tui            bool
	failOnAbnormal bool
	set            []string
}

func newDiagnoseCmd(g *globalOptions) *cobra.Command {
	var o diagnoseOptions
	cmd := &cobra.Command{
		Use:   "diagnose [JOB_ID]",
		Short: "Diagnose resource waste of one job",
		Long: `Read the detector results of one job, run every registered analyzer and
print the report ordered by priority. JOB_ID may be omitted when the
--input bundle names its job.

Exit codes: 0 ok, 1 error or abnormal report (with --fail-on-abnormal).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd, args, g, &o)
		},
	}
	o.source.register(cmd)
	cmd.Flags().StringVarP(&o.format, "format", "f", formatText, "output format: text, markdown, json, otlp")
	cmd.Flags().StringVar(&o.lang, "lang", "", "explanation language: en, zh (default from config)")
	cmd.Flags().BoolVar(&o.parallel, "parallel", false, "run analyzers concurrently")
	cmd.Flags().BoolVar(&o.tui, "tui", false, "browse the report in an interactive viewer")
	cmd.Flags().BoolVar(&o.failOnAbnormal, "fail-on-abnormal", false, "exit 1 when any category is abnormal")
	cmd.Flags().StringArrayVar(&o.set, "set", nil, "threshold override, e.g. mr_memory_waste.map_threshold=30 (repeatable)")
	return cmd
}

func runDiagnose(cmd *cobra.Command, args []string, g *globalOptions, o *diagnoseOptions) error {
	if !validFormat(o.format) {
		return fmt.Errorf("unknown format %q", o.format)
	}
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyOverrides(o.set); err != nil {
		return err
	}
	if o.lang != "" {
		cfg.Language = o.lang
	}
	if cmd.Flags().Changed("parallel") {
		cfg.Parallel = o.parallel
	}
	o.source.merge(cfg.Source)

	logger, err := newLogger(g.verbose)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	var jobID string
	if len(args) > 0 {
		jobID = args[0]
	}
	reg, jobID, err := openSources(o.source, jobID, logger)
	if err != nil {
		return err
	}
	defer reg.Close()

	ctx := cmd.Context()
	results, err := reg.CollectAll(ctx, jobID)
	if err != nil {
		if len(results) == 0 {
			return fmt.Errorf("collect detector results: %w", err)
		}
		logger.Warn("Some detector result sources failed", zap.Error(err))
	}

	d := engine.NewDiagnoser(nil,
		engine.WithLogger(logger),
		engine.WithLanguage(cfg.Language),
		engine.WithParallel(cfg.Parallel))
	report, err := d.Diagnose(ctx, jobID, results, cfg.Thresholds)
	if err != nil {
		return err
	}

	if o.tui {
		err = ui.Run(report, Version)
	} else {
		err = render(cmd.OutOrStdout(), o.format, report)
	}
	if err != nil {
		return err
	}
	if o.failOnAbnormal && report.Abnormal() {
		return ExitCodeError{Code: 1}
	}
	return nil
}

// openSources builds the collector registry and resolves the job id from
// the bundle when none was given.
func openSources(s sourceOptions, jobID string, logger *zap.Logger) (*collector.Registry, string, error) {
	reg := collector.NewRegistry(logger)
	if s.input != "" {
		if jobID == "" {
			b, err := collector.ReadBundle(s.input)
			if err != nil {
				return nil, "", err
			}
			jobID = b.JobID
		}
		reg.Add(&collector.FileCollector{Path: s.input})
	}
	if s.dsn != "" {
		sc, err := collector.OpenSQL(s.driver, s.dsn, s.table, logger)
		if err != nil {
			return nil, "", err
		}
		reg.Add(sc)
	}
	if reg.Len() == 0 {
		return nil, "", errors.New("no detector result source: use --input or --dsn")
	}
	if jobID == "" {
		reg.Close()
		return nil, "", errors.New("job id is required")
	}
	return reg, jobID, nil
}
