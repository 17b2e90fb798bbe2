package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fogstudy/domain/table"
	"fogstudy/internal/analysis"
	"fogstudy/internal/config"
	"fogstudy/internal/report"
	"fogstudy/internal/study"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fogstudy-cli",
		Short: "Explore the freezing-of-gait study tables from the command line",
	}

	rootCmd.AddCommand(
		newDatasetsCmd(),
		newSummarizeCmd(),
		newDescribeCmd(),
		newCompareCmd(),
		newReportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadStudy loads environment config and the study tables from disk.
func loadStudy() (*study.Study, *config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	s, err := study.Load(cfg.Data)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newDatasetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List loaded datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadStudy()
			if err != nil {
				return err
			}
			for _, name := range s.Names() {
				t, err := s.Dataset(name)
				if err != nil {
					return err
				}
				fmt.Printf("%-14s %6d rows  %3d columns\n", name, t.RowCount(), t.ColumnCount())
			}
			return nil
		},
	}
}

func newSummarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize [dataset]",
		Short: "Per-column quality summary for a dataset",
		Long: `Compute validity, uniqueness and size metrics for every column.

Example: fogstudy-cli summarize subjects`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadStudy()
			if err != nil {
				return err
			}
			t, err := s.Dataset(args[0])
			if err != nil {
				return err
			}
			summaries, err := analysis.NewSummarizer().Summarize(t)
			if err != nil {
				return err
			}
			return printJSON(summaries)
		},
	}
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var column string
	var groupBy string
	var compact bool

	cmd := &cobra.Command{
		Use:   "describe [dataset]",
		Short: "Percentile descriptive statistics for numeric columns",
		Long: `Describe one numeric column, or all of them, optionally partitioned
by a grouping column.

Example: fogstudy-cli describe subjects --column UPDRSIII_Off --group-by Sex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadStudy()
			if err != nil {
				return err
			}
			t, err := s.Dataset(args[0])
			if err != nil {
				return err
			}
			describer := analysis.NewDescriber()

			switch {
			case column == "" && groupBy != "":
				grouped, err := describer.DescribeAllGroups(t, groupBy)
				if err != nil {
					return err
				}
				if compact {
					for _, g := range grouped {
						for _, key := range g.GroupKeys() {
							fmt.Printf("%-20s %-12s %s\n", g.Column, key, g.Groups[key].Compact())
						}
					}
					return nil
				}
				return printJSON(grouped)

			case column == "":
				descriptions, err := describer.DescribeAll(t)
				if err != nil {
					return err
				}
				if compact {
					for _, d := range descriptions {
						fmt.Printf("%-20s %s\n", d.Column, d.Compact())
					}
					return nil
				}
				return printJSON(descriptions)

			case groupBy != "":
				grouped, err := describer.DescribeGroups(t, column, groupBy)
				if err != nil {
					return err
				}
				if compact {
					for _, key := range grouped.GroupKeys() {
						fmt.Printf("%-20s %s\n", key, grouped.Groups[key].Compact())
					}
					return nil
				}
				return printJSON(grouped)

			default:
				description, err := describer.Describe(t, column)
				if err != nil {
					return err
				}
				if compact {
					fmt.Printf("%-20s %s\n", description.Column, description.Compact())
					return nil
				}
				return printJSON(description)
			}
		},
	}

	cmd.Flags().StringVar(&column, "column", "", "Numeric column to describe (all numeric columns when empty)")
	cmd.Flags().StringVar(&groupBy, "group-by", "", "Partition by the distinct values of this column")
	cmd.Flags().BoolVar(&compact, "compact", false, "Render the short mean ± std form")

	return cmd
}

func newCompareCmd() *cobra.Command {
	var groupBy string
	var alpha float64

	cmd := &cobra.Command{
		Use:   "compare [dataset] [column]",
		Short: "Anderson-Darling test across two group partitions",
		Long: `Partition a numeric column by a grouping column with exactly two
distinct values and test whether the two samples share a distribution.

Example: fogstudy-cli compare updrs Score --group-by Instrument`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := loadStudy()
			if err != nil {
				return err
			}
			t, err := s.Dataset(args[0])
			if err != nil {
				return err
			}

			grouped, err := analysis.NewDescriber().DescribeGroups(t, args[1], groupBy)
			if err != nil {
				return err
			}
			keys := grouped.GroupKeys()
			if len(keys) != 2 {
				return fmt.Errorf("group-by %s yields %d groups, need exactly 2", groupBy, len(keys))
			}

			first, err := sampleFor(t, args[1], groupBy, keys[0])
			if err != nil {
				return err
			}
			second, err := sampleFor(t, args[1], groupBy, keys[1])
			if err != nil {
				return err
			}

			comparison, err := analysis.Compare(first, second)
			if err != nil {
				return err
			}
			if err := printJSON(comparison); err != nil {
				return err
			}
			if comparison.Significant(alpha) {
				fmt.Printf("distributions differ at alpha=%.3f\n", alpha)
			} else {
				fmt.Printf("no evidence of different distributions at alpha=%.3f\n", alpha)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&groupBy, "group-by", "", "Column whose two distinct values partition the sample")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Significance threshold")
	_ = cmd.MarkFlagRequired("group-by")

	return cmd
}

func newReportCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the full study report",
		Long: `Render quality summaries and descriptive statistics for every
dataset. Formats: markdown, html, xlsx (written to the report directory).

Example: fogstudy-cli report --format xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cfg, err := loadStudy()
			if err != nil {
				return err
			}
			r, err := report.NewGenerator().Generate(s)
			if err != nil {
				return err
			}

			switch format {
			case "markdown":
				fmt.Print(r.Markdown())
			case "html":
				if _, err := os.Stdout.Write(r.HTML()); err != nil {
					return err
				}
			case "xlsx":
				path, err := r.WriteWorkbook(cfg.Report.OutputDir)
				if err != nil {
					return err
				}
				fmt.Printf("wrote %s\n", path)
			default:
				return fmt.Errorf("unknown format %q (markdown, html, xlsx)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "markdown", "Output format: markdown, html or xlsx")

	return cmd
}

// sampleFor collects the valid values of a numeric column within one group.
func sampleFor(t *table.Table, column, groupBy, key string) ([]float64, error) {
	filtered, err := t.Filter(groupBy, key)
	if err != nil {
		return nil, err
	}
	return filtered.NumericValid(column)
}
