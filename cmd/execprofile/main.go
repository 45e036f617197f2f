package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuhsinlo/execprofile/internal/common"
)

var (
	cfg    *common.Config
	logger *slog.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "execprofile",
		Short: "Enrich executive-profile spreadsheets and render CV slides",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
			slog.SetDefault(logger)
			cfg = common.LoadConfig()
			return cfg.Validate()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEnrichCmd(), newCellCmd(), newRenderCmd(), newStatusCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if _, werr := fmt.Fprintf(os.Stderr, "Error: %v\n", err); werr != nil {
			fmt.Printf("Error: %v\n", err)
		}
		os.Exit(1)
	}
}
