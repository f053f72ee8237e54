// Package convert turns VCF INFO fields into genomic signal tracks.
package convert

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/inodb/vibe-vcf/internal/aggregate"
	"github.com/inodb/vibe-vcf/internal/vcf"
)

// DefaultField is the INFO field converted when none is given.
const DefaultField = "AF"

// TrackWriter defines the interface for writing signal track data points.
type TrackWriter interface {
	Write(chrom string, pos int64, value float64) error
	Flush() error
}

// Point is a single signal track value.
type Point struct {
	Chrom string
	Pos   int64
	Value float64
}

// Options configures a Converter.
type Options struct {
	Field      string         // INFO field to convert
	Prefix     string         // prepended to every chromosome name
	Aggregator aggregate.Func // reduces multi-valued fields
	Workers    int            // 0 means runtime.NumCPU()
}

// Converter converts variants to signal track points.
type Converter struct {
	opts   Options
	logger *zap.Logger
}

// NewConverter creates a converter. An empty field defaults to DefaultField.
func NewConverter(opts Options) *Converter {
	if opts.Field == "" {
		opts.Field = DefaultField
	}
	return &Converter{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (c *Converter) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Point converts one variant. A missing field yields 0; a list is reduced
// with the configured aggregator.
func (c *Converter) Point(v *vcf.Variant) (Point, error) {
	p := Point{Chrom: c.opts.Prefix + v.Chrom, Pos: v.Pos}

	values, ok, err := v.InfoFloats(c.opts.Field)
	if err != nil {
		return p, err
	}
	if ok {
		p.Value = c.opts.Aggregator.Apply(values)
	}
	return p, nil
}

// ConvertAll converts every variant from parser and writes it to writer in
// input order.
func (c *Converter) ConvertAll(parser vcf.VariantParser, writer TrackWriter) error {
	items := make(chan WorkItem, 64)
	done := make(chan struct{})
	stop := sync.OnceFunc(func() { close(done) })
	var parseErr error
	variantCount := 0

	go func() {
		defer close(items)
		seq := 0
		for {
			v, err := parser.Next()
			if err != nil {
				parseErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if v == nil {
				return
			}
			variantCount++

			select {
			case items <- WorkItem{Seq: seq, Variant: v}:
				seq++
			case <-done:
				return
			}
		}
	}()

	results := c.ParallelConvert(items, c.opts.Workers)

	err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			stop()
			return r.Err
		}
		if err := writer.Write(r.Point.Chrom, r.Point.Pos, r.Point.Value); err != nil {
			stop()
			return fmt.Errorf("write data point: %w", err)
		}
		return nil
	})
	stop()
	if err != nil {
		return err
	}

	if parseErr != nil {
		return parseErr
	}

	if variantCount == 0 {
		c.logger.Info("0 variants processed")
	} else {
		c.logger.Debug("conversion finished",
			zap.String("field", c.opts.Field),
			zap.Stringer("function", c.opts.Aggregator),
			zap.Int("variants", variantCount))
	}

	return writer.Flush()
}

// VCF2Wig converts parser to writer with the given options.
func VCF2Wig(parser vcf.VariantParser, writer TrackWriter, opts Options) error {
	return NewConverter(opts).ConvertAll(parser, writer)
}
