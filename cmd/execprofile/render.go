package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuhsinlo/execprofile/internal/enrich"
	"github.com/yuhsinlo/execprofile/internal/photo"
	"github.com/yuhsinlo/execprofile/internal/render"
	"github.com/yuhsinlo/execprofile/internal/rows"
)

func newRenderCmd() *cobra.Command {
	var rowsExpr string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render CV slide documents for the given rows",
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

			// human photo picks from the review page land in the sheet
			// before any document is rendered
			selections, err := photo.LoadSelections(cfg.Paths.SelectionsFile)
			if err != nil {
				logger.Warn("photo.selections.load_failed", "error", err)
			} else if len(selections) > 0 {
				orch := enrich.NewOrchestrator(enrich.Deps{Sheet: table, Logger: logger})
				if applied := orch.ApplySelections(selections); applied > 0 {
					if _, err := table.Save(cfg.Paths.EnrichedFile); err != nil {
						logger.Warn("sheet.save_failed", "error", err)
					}
				}
			}

			renderer, err := render.NewRenderer(
				cfg.Paths.TemplateFile,
				cfg.Paths.TemplateRegions,
				cfg.Paths.OutputDir,
				cfg.Photo.FetchTimeout,
				logger)
			if err != nil {
				return err
			}

			rendered, failed := 0, 0
			for _, row := range rowNums {
				if cmd.Context().Err() != nil {
					break
				}
				path, err := renderer.RenderRow(cmd.Context(), table, row)
				if err != nil {
					logger.Warn("render.row.failed", "row", row, "error", err)
					failed++
					continue
				}
				logger.Info("render.row.written", "row", row, "path", path)
				rendered++
			}

			logger.Info("render.done", "rendered", rendered, "failed", failed)
			if rendered == 0 {
				return fmt.Errorf("no rows rendered (%d failed)", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rowsExpr, "rows", "", "row expression, e.g. 2,5-8,12 (required)")
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}
