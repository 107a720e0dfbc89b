package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "popradar",
		Short: "Rank artist popularity across platforms from metric snapshots",
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")

	root.AddCommand(collectCmd())
	root.AddCommand(analyzeCmd())
	root.AddCommand(topCmd())
	root.AddCommand(serveCmd())

	return root
}

func collectCmd() *cobra.Command {
	var sources []string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect a fresh metric snapshot from the configured platforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(sources)
		},
	}

	cmd.Flags().StringSliceVar(&sources, "source", nil, "specific sources to collect (e.g., youtube,tiktok)")
	return cmd
}

func analyzeCmd() *cobra.Command {
	var (
		artistCSVs  []string
		contentCSVs []string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score and rank artists from the latest snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(artistCSVs, contentCSVs, outDir)
		},
	}

	cmd.Flags().StringSliceVar(&artistCSVs, "artists", nil, "artist-level snapshot CSVs (instead of the stored snapshot)")
	cmd.Flags().StringSliceVar(&contentCSVs, "content", nil, "content-level snapshot CSVs (instead of the stored snapshot)")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory for report CSVs (default: from config)")
	return cmd
}

func topCmd() *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the latest artist ranking",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTop(limit, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 10, "max artists to show")
	return cmd
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only HTTP API over the latest results",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "server port (default: from config)")
	return cmd
}
