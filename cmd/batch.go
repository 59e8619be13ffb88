package main

import (
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alexgrove/dealflow-cli/internal/filter"
	"github.com/alexgrove/dealflow-cli/internal/ingest"
	"github.com/alexgrove/dealflow-cli/internal/model"
	"github.com/alexgrove/dealflow-cli/internal/pipeline"
)

var (
	batchInput   string
	batchWorkers int
	batchDryRun  bool
	batchPreset  string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Deduplicate, score, and persist a batch of discoveries",
	Long: `Read a batch of deal discoveries from a CSV or XLSX file, deduplicate
them, score the survivors against the active filter configuration, and
persist the ranked results.

Examples:
  batch --input discoveries.csv
  batch --input portfolio_sweep.xlsx --preset alex_strict --workers 4
  batch --input discoveries.csv --dry-run`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		records, err := readBatchInput(batchInput)
		if err != nil {
			return err
		}

		filterCfg, err := activeFilter()
		if err != nil {
			return err
		}
		if batchPreset != "" {
			if filterCfg, err = filter.ApplyPreset(batchPreset); err != nil {
				return err
			}
		}

		workers := batchWorkers
		if workers == 0 {
			workers = cfg.Batch.Workers
		}

		results, summary, err := pipeline.ProcessBatchParallel(ctx, records, filterCfg, workers)
		if err != nil {
			return eris.Wrap(err, "process batch")
		}

		if batchDryRun {
			zap.L().Info("dry run, skipping persistence", zap.Int("scored", summary.Scored))
			return nil
		}

		s, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		runID := uuid.New().String()
		inserted, err := s.SaveResults(ctx, runID, results)
		if err != nil {
			return eris.Wrap(err, "save results")
		}

		zap.L().Info("batch persisted",
			zap.String("run_id", runID),
			zap.Int("input", summary.Input),
			zap.Int("scored", summary.Scored),
			zap.Int("inserted", inserted),
			zap.Int("already_known", summary.Scored-inserted),
			zap.Int("duplicates", summary.Duplicates),
			zap.Int("invalid", summary.Invalid),
			zap.Int("rejected", summary.Rejected),
		)
		return nil
	},
}

func init() {
	f := batchCmd.Flags()
	f.StringVar(&batchInput, "input", "", "path to CSV or XLSX batch file (required)")
	f.IntVar(&batchWorkers, "workers", 0, "scoring workers (default from config)")
	f.BoolVar(&batchDryRun, "dry-run", false, "score without persisting")
	f.StringVar(&batchPreset, "preset", "", "filter preset override")
	_ = batchCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(batchCmd)
}

// readBatchInput dispatches on file extension.
func readBatchInput(path string) ([]model.DealRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return ingest.ReadCSV(path)
	case ".xlsx":
		return ingest.ReadXLSX(path)
	}
	return nil, eris.Errorf("unsupported batch input %s (want .csv or .xlsx)", path)
}
