package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wuzhjian/compass/collector"
	"github.com/wuzhjian/compass/config"
)

func newIngestCmd(g *globalOptions) *cobra.Command {
	var s sourceOptions
	cmd := &cobra.Command{
		Use:   "ingest [JOB_ID]",
		Short: "Store a detector results bundle in the SQL source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(g.configPath)
			if err != nil {
				return err
			}
			s.merge(cfg.Source)
			if s.input == "" || s.dsn == "" {
				return errors.New("ingest needs both --input and --dsn")
			}

			logger, err := newLogger(g.verbose)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			b, err := collector.ReadBundle(s.input)
			if err != nil {
				return err
			}
			jobID := b.JobID
			if len(args) > 0 {
				jobID = args[0]
			}
			if jobID == "" {
				return errors.New("job id is required")
			}

			sc, err := collector.OpenSQL(s.driver, s.dsn, s.table, logger)
			if err != nil {
				return err
			}
			defer sc.Close()

			ctx := cmd.Context()
			if err := sc.EnsureSchema(ctx); err != nil {
				return err
			}
			if err := sc.Store(ctx, jobID, b.Results); err != nil {
				return err
			}
			logger.Info("Stored detector results", zap.String("job_id", jobID), zap.Int("results", len(b.Results)))
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d results for %s\n", len(b.Results), jobID)
			return nil
		},
	}
	s.register(cmd)
	return cmd
}
