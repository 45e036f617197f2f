package main

import (
	"github.com/spf13/cobra"

	"github.com/yuhsinlo/execprofile/internal/photo"
	"github.com/yuhsinlo/execprofile/internal/rows"
)

func newEnrichCmd() *cobra.Command {
	var (
		rowsExpr   string
		force      bool
		photosOnly bool
	)
	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Fill missing profile fields for the given rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			rowNums, err := rows.ParseRows(rowsExpr, logger)
			if err != nil {
				return err
			}

			table, err := openSheet()
			if err != nil {
				return err
			}
			defer func() { _ = table.Close() }()

			store, err := photo.OpenStore(cfg.Paths.CandidatesFile)
			if err != nil {
				return err
			}

			orch, err := buildOrchestrator(table, store, force)
			if err != nil {
				return err
			}

			summary := orch.Run(cmd.Context(), rowNums, photosOnly)
			if err := saveArtifacts(table, store); err != nil {
				return err
			}

			logger.Info("enrich.done",
				"rows", len(rowNums),
				"enriched", summary.Enriched,
				"skipped", summary.Skipped,
				"failed", summary.Failed,
				"cells", summary.Cells)
			return nil
		},
	}
	cmd.Flags().StringVar(&rowsExpr, "rows", "", "row expression, e.g. 2,5-8,12 (required)")
	cmd.Flags().BoolVar(&force, "force", false, "re-enrich fields that already have values")
	cmd.Flags().BoolVar(&photosOnly, "photos-only", false, "only look for photos, skip profile fields")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}
