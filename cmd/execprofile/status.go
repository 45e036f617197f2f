package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yuhsinlo/execprofile/internal/photo"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show provider availability, quota usage and file locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := buildSearchClient()
			if err != nil {
				return err
			}
			st := client.Status()

			fmt.Printf("Input file:      %s (%s)\n", cfg.Paths.InputFile, fileState(cfg.Paths.InputFile))
			fmt.Printf("Enriched file:   %s (%s)\n", cfg.Paths.EnrichedFile, fileState(cfg.Paths.EnrichedFile))
			fmt.Printf("Output dir:      %s\n", cfg.Paths.OutputDir)
			fmt.Println()
			fmt.Printf("Primary engine:  %s\n", st.PrimaryEngine)
			fmt.Printf("SerpAPI:         available=%v used=%d remaining=%d quota=%d\n",
				st.SerpAPIAvailable, st.SerpAPIUsed, st.SerpAPIRemaining, st.SerpAPIQuota)
			fmt.Printf("Perplexity:      configured=%v model=%s\n", cfg.LLM.APIKey != "", cfg.LLM.Model)

			store, err := photo.OpenStore(cfg.Paths.CandidatesFile)
			if err != nil {
				logger.Warn("photo.store.open_failed", "error", err)
			} else {
				fmt.Printf("Photo candidates: %d rows (%s)\n", len(store.Rows()), cfg.Paths.CandidatesFile)
			}
			return nil
		},
	}
}

func fileState(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "missing"
	}
	return "present"
}
