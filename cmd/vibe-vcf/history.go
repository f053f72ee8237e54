package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-vcf/internal/duckdb"
)

func (a *app) newHistoryCmd() *cobra.Command {
	var (
		limit    int
		clearAll bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show or clear stored diff results",
		Long: `Show or clear the diff results stored in the history database.

Results are recorded by "vibe-vcf diff" when history.enabled is set or
--history is given.`,
		Example: `  vibe-vcf history
  vibe-vcf history --limit 5
  vibe-vcf history --clear`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return usageErrorf("invalid limit %d", limit)
			}
			return a.runHistory(cmd, limit, clearAll)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of results to show")
	cmd.Flags().String("history", "", "History DuckDB file (default: from config)")
	cmd.Flags().BoolVar(&clearAll, "clear", false, "Delete all stored results")

	return cmd
}

func (a *app) runHistory(cmd *cobra.Command, limit int, clearAll bool) error {
	path := a.historyPath(cmd)
	store, err := duckdb.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	if clearAll {
		if err := store.ClearComparisons(); err != nil {
			return err
		}
		a.logger.Info("cleared history", zap.String("path", path))
		return nil
	}

	records, err := store.RecentComparisons(limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CREATED\tRATIO\tTOTAL\tDIFFERENT\tFIRST\tSECOND")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%.4f\t%d\t%d\t%s\t%s\n",
			r.CreatedAt.Local().Format(time.DateTime),
			r.Ratio, r.Total, r.SymmetricDifference,
			r.First.Path, r.Second.Path)
	}
	return tw.Flush()
}
