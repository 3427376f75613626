package main

import (
	"fmt"
	"os"
	"strings"

	"diamondeda/app"
	"diamondeda/internal/config"
	"diamondeda/internal/report"
	"diamondeda/internal/testkit"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "diamondeda-cli",
		Short: "Helpers for inspecting and checking diamonds EDA reports",
	}

	rootCmd.AddCommand(
		newOutlineCmd(),
		newVerifyCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newOutlineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "outline [report.md]",
		Short: "Print the heading outline of a report",
		Long: `Print the heading outline of a Markdown report, indented by level.

Example: diamondeda-cli outline diamond/eda_report.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Default().Output.ReportPath()
			if len(args) == 1 {
				path = args[0]
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			for _, h := range report.Outline(data) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", strings.Repeat("  ", h.Level-1), h.Text)
			}
			return nil
		},
	}
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify [eda_manifest.json]",
		Short: "Check report outputs against their run manifest",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Default().Output.ManifestPath()
			if len(args) == 1 {
				path = args[0]
			}
			m, mismatches, err := app.VerifyManifest(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s (%d rows x %d columns), fingerprint %s\n",
				m.RunID, m.Rows, m.Columns, m.Fingerprint.Fingerprint.Short())
			for _, mm := range mismatches {
				fmt.Fprintf(out, "  %s: %s\n", mm.Path, mm.Reason)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d of %d artifacts do not match", len(mismatches), len(m.Artifacts))
			}
			fmt.Fprintf(out, "All %d artifacts match\n", len(m.Artifacts))
			return nil
		},
	}
}

func newSampleCmd() *cobra.Command {
	var rows int
	var seed int64
	var missingPrice int
	var outPath string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic diamonds CSV for offline runs",
		Long: `Write a synthetic diamonds CSV in the published column layout.

Point DATA_FILE at the result to run the report without network access.

Example: diamondeda-cli sample --rows 500 --seed 7 --out diamonds.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rows <= 0 {
				return fmt.Errorf("--rows must be positive")
			}
			gen := testkit.NewDiamondsGenerator(testkit.DiamondsGeneratorConfig{
				Rows:         rows,
				Seed:         seed,
				MissingPrice: missingPrice,
			})
			if err := testkit.WriteCSV(outPath, gen.GenerateRows()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s\n", rows, outPath)
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 1000, "number of rows")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	cmd.Flags().IntVar(&missingPrice, "missing-price", 0, "rows left without a price")
	cmd.Flags().StringVar(&outPath, "out", "diamonds.csv", "output CSV path")
	return cmd
}
