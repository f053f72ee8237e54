// Package diff computes the distance between two VCF files.
//
// The two files are walked together by position. Every position where both
// files carry a non-indel record is comparable; the distance is the fraction
// of comparable positions whose primary alternate alleles differ.
package diff

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/inodb/vibe-vcf/internal/vcf"
	"github.com/inodb/vibe-vcf/internal/walk"
)

// DefaultPrecision is the number of decimals written when none is given.
const DefaultPrecision = 10

var (
	// ErrNoComparablePositions is returned when the inputs share no
	// non-indel position, so no distance can be computed.
	ErrNoComparablePositions = errors.New("no comparable single-nucleotide positions shared by the inputs")

	// ErrInvalidPrecision is returned for a negative precision.
	ErrInvalidPrecision = errors.New("precision must be zero or greater")
)

// Result holds the counts accumulated over one comparison.
type Result struct {
	Total               int // comparable positions
	SymmetricDifference int // comparable positions with different alternate alleles
}

// Ratio returns SymmetricDifference / Total.
func (r Result) Ratio() (float64, error) {
	if r.Total == 0 {
		return 0, ErrNoComparablePositions
	}
	return float64(r.SymmetricDifference) / float64(r.Total), nil
}

// Format returns the ratio with exactly precision decimals.
func (r Result) Format(precision int) (string, error) {
	if precision < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidPrecision, precision)
	}
	ratio, err := r.Ratio()
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(ratio, 'f', precision, 64), nil
}

// WriteResult writes the formatted ratio followed by a newline.
func WriteResult(w io.Writer, r Result, precision int) error {
	s, err := r.Format(precision)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s+"\n")
	return err
}

// Comparator compares two variant streams.
type Comparator struct {
	opts   []walk.Option
	logger *zap.Logger
}

// NewComparator creates a comparator. Walk options control how records of
// the two inputs are keyed.
func NewComparator(opts ...walk.Option) *Comparator {
	return &Comparator{
		opts:   opts,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (c *Comparator) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Compare walks first and second together and counts comparable positions.
// Parser errors are returned unchanged.
func (c *Comparator) Compare(first, second vcf.VariantParser) (Result, error) {
	var r Result
	pairs := walk.Together2(first, second, c.opts...)

	for {
		a, b, ok, err := pairs.Next()
		if err != nil {
			return r, err
		}
		if !ok {
			break
		}
		if a == nil || b == nil || a.IsIndel() || b.IsIndel() {
			continue
		}

		r.Total++
		if a.PrimaryAlt() != b.PrimaryAlt() {
			r.SymmetricDifference++
			c.logger.Debug("alternate alleles differ",
				zap.String("chrom", a.Chrom),
				zap.Int64("pos", a.Pos),
				zap.String("first", a.PrimaryAlt()),
				zap.String("second", b.PrimaryAlt()))
		}
	}

	c.logger.Debug("comparison finished",
		zap.Int("total", r.Total),
		zap.Int("symmetric_difference", r.SymmetricDifference))

	return r, nil
}

// Compare is a convenience wrapper around NewComparator(opts...).Compare.
func Compare(first, second vcf.VariantParser, opts ...walk.Option) (Result, error) {
	return NewComparator(opts...).Compare(first, second)
}
