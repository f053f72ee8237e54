package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vibe-vcf/internal/aggregate"
	"github.com/inodb/vibe-vcf/internal/convert"
	"github.com/inodb/vibe-vcf/internal/output"
)

func (a *app) newVCF2WigCmd() *cobra.Command {
	var (
		outputFile  string
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "vcf2wig [flags] <input>",
		Short: "Convert a VCF file to a wiggle track",
		Long: `Convert a VCF file to a wiggle track.

Every record becomes one data point at its position. The value is taken
from an INFO field; records without the field get 0, and fields with
several values are reduced with the chosen function.`,
		Example: `  vibe-vcf vcf2wig calls.vcf > af.wig
  vibe-vcf vcf2wig -f DP -o depth.wig calls.vcf.gz
  vibe-vcf vcf2wig -f AF --function max -x chr -o af.wig calls.vcf`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runVCF2Wig(cmd, args[0], outputFile, name, description)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output wiggle file (default: stdout)")
	cmd.Flags().StringP("field", "f", convert.DefaultField, "INFO field to convert")
	cmd.Flags().StringP("prefix", "x", "", "Prefix for chromosome names")
	cmd.Flags().String("function", aggregate.Min.String(),
		fmt.Sprintf("Function for multi-valued fields: %s", strings.Join(aggregate.Names(), ", ")))
	cmd.Flags().Int("workers", 0, "Number of conversion workers (default: number of CPUs)")
	cmd.Flags().StringVar(&name, "name", "", "Track name (default: output file name without extension)")
	cmd.Flags().StringVar(&description, "description", "", "Track description")

	a.v.BindPFlag("vcf2wig.field", cmd.Flags().Lookup("field"))       //nolint:errcheck
	a.v.BindPFlag("vcf2wig.prefix", cmd.Flags().Lookup("prefix"))     //nolint:errcheck
	a.v.BindPFlag("vcf2wig.function", cmd.Flags().Lookup("function")) //nolint:errcheck
	a.v.BindPFlag("vcf2wig.workers", cmd.Flags().Lookup("workers"))   //nolint:errcheck

	return cmd
}

func (a *app) runVCF2Wig(cmd *cobra.Command, input, outputFile, name, description string) error {
	fn, err := aggregate.Parse(a.v.GetString("vcf2wig.function"))
	if err != nil {
		return &usageError{err: err}
	}

	opts := convert.Options{
		Field:      a.v.GetString("vcf2wig.field"),
		Prefix:     a.v.GetString("vcf2wig.prefix"),
		Aggregator: fn,
		Workers:    a.v.GetInt("vcf2wig.workers"),
	}

	if name == "" {
		name = trackName(input, outputFile)
	}

	parser, err := a.openParser(input)
	if err != nil {
		return err
	}
	defer parser.Close()

	c := convert.NewConverter(opts)
	c.SetLogger(a.logger)

	return a.writeOutput(cmd, outputFile, func(w io.Writer) error {
		wig := output.NewWigWriter(w, name)
		wig.SetDescription(description)

		if err := c.ConvertAll(parser, wig); err != nil {
			return err
		}

		a.logger.Debug("wrote wiggle track",
			zap.String("name", name),
			zap.Int("points", wig.Points()))
		return nil
	})
}

// trackName names the track after the output file, or after the input when
// writing to stdout.
func trackName(input, outputFile string) string {
	switch {
	case outputFile != "" && outputFile != "-":
		return output.TrackName(outputFile)
	case input != "-":
		return output.TrackName(strings.TrimSuffix(input, ".gz"))
	default:
		return "stdin"
	}
}
