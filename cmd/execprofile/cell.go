package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/yuhsinlo/execprofile/internal/photo"
	"github.com/yuhsinlo/execprofile/internal/rows"
)

func newCellCmd() *cobra.Command {
	var (
		cellExpr  string
		fieldName string
		rowsExpr  string
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "cell",
		Short: "Re-enrich individual cells with focused lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := resolveTargets(cellExpr, fieldName, rowsExpr)
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

			written := 0
			for _, ref := range refs {
				if cmd.Context().Err() != nil {
					break
				}
				ok, err := orch.EnrichCell(cmd.Context(), ref.Row, ref.Field)
				if err != nil {
					logger.Warn("cell.failed", "row", ref.Row, "field", ref.Field, "error", err)
					continue
				}
				if ok {
					written++
				}
			}

			if err := saveArtifacts(table, store); err != nil {
				return err
			}
			logger.Info("cell.done", "targets", len(refs), "written", written)
			return nil
		},
	}
	cmd.Flags().StringVar(&cellExpr, "cell", "", "cell expression, e.g. C5,H2-H7 or 學歷:2,5-8")
	cmd.Flags().StringVar(&fieldName, "field", "", "field name, letter or number (with --rows)")
	cmd.Flags().StringVar(&rowsExpr, "rows", "", "row expression (with --field)")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite cells that already have values")
	return cmd
}

func resolveTargets(cellExpr, fieldName, rowsExpr string) ([]rows.CellRef, error) {
	switch {
	case cellExpr != "":
		return rows.ParseCells(cellExpr, logger)
	case fieldName != "" && rowsExpr != "":
		field, err := rows.ResolveField(fieldName)
		if err != nil {
			return nil, err
		}
		rowNums, err := rows.ParseRows(rowsExpr, logger)
		if err != nil {
			return nil, err
		}
		refs := make([]rows.CellRef, 0, len(rowNums))
		for _, r := range rowNums {
			refs = append(refs, rows.CellRef{Field: field, Row: r})
		}
		return refs, nil
	default:
		return nil, errors.New("either --cell or both --field and --rows are required")
	}
}
