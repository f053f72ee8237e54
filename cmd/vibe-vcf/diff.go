package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-vcf/internal/diff"
	"github.com/inodb/vibe-vcf/internal/duckdb"
	"github.com/inodb/vibe-vcf/internal/vcf"
	"github.com/inodb/vibe-vcf/internal/walk"
)

func (a *app) newDiffCmd() *cobra.Command {
	var (
		outputFile string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "diff [flags] <input1> <input2>",
		Short: "Calculate the distance between two VCF files",
		Long: `Calculate the distance between two VCF files.

Both files are walked together by position. Positions where both files have
a non-indel record are compared; the distance is the fraction of those
positions whose alternate alleles differ.`,
		Example: `  vibe-vcf diff a.vcf b.vcf
  vibe-vcf diff -p 4 -o distance.txt a.vcf.gz b.vcf.gz
  zcat a.vcf.gz | vibe-vcf diff - b.vcf`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiff(cmd, args[0], args[1], outputFile, noCache)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().IntP("precision", "p", diff.DefaultPrecision, "Number of decimals in the output")
	cmd.Flags().Bool("normalize-chrom", false, "Pair chromosomes with and without a \"chr\" prefix")
	cmd.Flags().String("history", "", "Record results in this DuckDB file (enables history)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "Recompute even if the history has a result for these files")

	a.v.BindPFlag("diff.precision", cmd.Flags().Lookup("precision"))             //nolint:errcheck
	a.v.BindPFlag("diff.normalize_chrom", cmd.Flags().Lookup("normalize-chrom")) //nolint:errcheck

	return cmd
}

func (a *app) runDiff(cmd *cobra.Command, first, second, outputFile string, noCache bool) error {
	precision := a.v.GetInt("diff.precision")
	if precision < 0 {
		return usageErrorf("invalid precision %d: %v", precision, diff.ErrInvalidPrecision)
	}
	if first == "-" && second == "-" {
		return usageErrorf("only one input can be read from stdin")
	}

	normalize := a.v.GetBool("diff.normalize_chrom")

	store, fingerprints := a.openHistory(cmd, first, second)
	if store != nil {
		defer store.Close()
	}

	var result diff.Result
	var cached bool
	if store != nil && !noCache {
		rec, err := store.LookupComparison(fingerprints[0], fingerprints[1], normalize)
		if err != nil {
			a.logger.Warn("history lookup failed", zap.Error(err))
		} else if rec != nil {
			result = diff.Result{Total: rec.Total, SymmetricDifference: rec.SymmetricDifference}
			cached = true
			a.logger.Info("using stored result",
				zap.String("first", first),
				zap.String("second", second),
				zap.Time("computed", rec.CreatedAt))
		}
	}

	if !cached {
		var err error
		result, err = a.compareFiles(first, second, normalize)
		if err != nil {
			return err
		}
	}

	ratio, err := result.Ratio()
	if err != nil {
		return fmt.Errorf("%s and %s: %w", first, second, err)
	}

	if store != nil && !cached {
		if err := store.RecordComparison(duckdb.ComparisonRecord{
			First:               fingerprints[0],
			Second:              fingerprints[1],
			NormalizeChrom:      normalize,
			Total:               result.Total,
			SymmetricDifference: result.SymmetricDifference,
			Ratio:               ratio,
		}); err != nil {
			a.logger.Warn("could not record result", zap.Error(err))
		}
	}

	return a.writeOutput(cmd, outputFile, func(w io.Writer) error {
		return diff.WriteResult(w, result, precision)
	})
}

// compareFiles opens both inputs and runs the comparison.
func (a *app) compareFiles(first, second string, normalize bool) (diff.Result, error) {
	p1, err := a.openParser(first)
	if err != nil {
		return diff.Result{}, err
	}
	defer p1.Close()

	p2, err := a.openParser(second)
	if err != nil {
		return diff.Result{}, err
	}
	defer p2.Close()

	var opts []walk.Option
	if normalize {
		opts = append(opts, walk.WithKeyFunc(walk.NormalizedKey))
	}

	c := diff.NewComparator(opts...)
	c.SetLogger(a.logger)

	result, err := c.Compare(p1, p2)
	if err != nil {
		return result, fmt.Errorf("compare %s and %s: %w", first, second, err)
	}

	a.logger.Debug("compared inputs",
		zap.String("first", first),
		zap.String("second", second),
		zap.Int("total", result.Total),
		zap.Int("symmetric_difference", result.SymmetricDifference))

	return result, nil
}

// openHistory opens the history store when it is enabled and both inputs
// are regular files. Failures are logged and disable the history.
func (a *app) openHistory(cmd *cobra.Command, first, second string) (*duckdb.Store, [2]duckdb.FileFingerprint) {
	var fps [2]duckdb.FileFingerprint

	enabled := a.v.GetBool("history.enabled") || cmd.Flags().Changed("history")
	if !enabled || first == "-" || second == "-" {
		return nil, fps
	}

	for i, path := range []string{first, second} {
		fp, err := duckdb.StatFile(path)
		if err != nil {
			a.logger.Debug("history disabled for input", zap.String("path", path), zap.Error(err))
			return nil, fps
		}
		fps[i] = fp
	}

	path := a.historyPath(cmd)
	store, err := duckdb.Open(path)
	if err != nil {
		a.logger.Warn("could not open history", zap.String("path", path), zap.Error(err))
		return nil, fps
	}
	return store, fps
}

// openParser opens a VCF input, reading stdin for "-".
func (a *app) openParser(path string) (*vcf.Parser, error) {
	if path == "-" {
		return vcf.NewParserFromReader(a.stdin)
	}
	return vcf.NewParser(path)
}

// writeOutput runs fn against the output file, or stdout when path is
// empty or "-".
func (a *app) writeOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := fn(out); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// historyPath returns the --history flag if given, else the configured path.
func (a *app) historyPath(cmd *cobra.Command) string {
	if f := cmd.Flags().Lookup("history"); f != nil && f.Changed {
		return f.Value.String()
	}
	return a.v.GetString("history.path")
}
