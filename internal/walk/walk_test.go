package walk

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vibe-vcf/internal/vcf"
)

// sliceParser yields a fixed list of variants, then err (if set).
type sliceParser struct {
	variants []*vcf.Variant
	err      error
	line     int
}

func (p *sliceParser) Next() (*vcf.Variant, error) {
	if p.line >= len(p.variants) {
		return nil, p.err
	}
	v := p.variants[p.line]
	p.line++
	return v, nil
}

func (p *sliceParser) Close() error    { return nil }
func (p *sliceParser) LineNumber() int { return p.line }

// records builds variants from "chrom:pos" strings.
func records(keys ...string) *sliceParser {
	p := &sliceParser{}
	for _, k := range keys {
		chrom, pos, _ := strings.Cut(k, ":")
		var n int64
		for _, c := range pos {
			n = n*10 + int64(c-'0')
		}
		p.variants = append(p.variants, &vcf.Variant{Chrom: chrom, Pos: n, Ref: "A", Alt: "G"})
	}
	return p
}

// collect walks to the end and renders each step as "first|second".
func collect(t *testing.T, w *Walker) []string {
	t.Helper()
	var steps []string
	for {
		slots, err := w.Next()
		require.NoError(t, err)
		if slots == nil {
			return steps
		}
		parts := make([]string, len(slots))
		for i, v := range slots {
			if v == nil {
				parts[i] = "-"
			} else {
				parts[i] = ChromPosKey(v).String()
			}
		}
		steps = append(steps, strings.Join(parts, "|"))
	}
}

func TestTogether_MergesByPosition(t *testing.T) {
	w := Together([]vcf.VariantParser{
		records("chr1:100", "chr1:200"),
		records("chr1:100", "chr1:200", "chr1:300"),
	})

	assert.Equal(t, []string{
		"chr1:100|chr1:100",
		"chr1:200|chr1:200",
		"-|chr1:300",
	}, collect(t, w))
}

func TestTogether_Disjoint(t *testing.T) {
	w := Together([]vcf.VariantParser{
		records("1:10", "1:30"),
		records("1:20", "2:5"),
	})

	assert.Equal(t, []string{
		"1:10|-",
		"1:20|-",
		"1:30|-",
		"-|2:5",
	}, collect(t, w))
}

func TestTogether_StaysOnCurrentChromosome(t *testing.T) {
	// Inputs are in karyotypic order (2 before 10), which is not
	// lexicographic. The walker finishes chromosome 2 before moving on.
	w := Together([]vcf.VariantParser{
		records("2:100", "2:300", "10:50"),
		records("2:200", "10:50"),
	})

	assert.Equal(t, []string{
		"2:100|-",
		"2:200|-",
		"2:300|-",
		"10:50|10:50",
	}, collect(t, w))
}

func TestTogether_DuplicateKeys(t *testing.T) {
	w := Together([]vcf.VariantParser{
		records("1:100", "1:100"),
		records("1:100"),
	})

	assert.Equal(t, []string{
		"1:100|1:100",
		"1:100|-",
	}, collect(t, w))
}

func TestTogether_EmptyInputs(t *testing.T) {
	w := Together([]vcf.VariantParser{records(), records()})
	assert.Empty(t, collect(t, w))

	w = Together([]vcf.VariantParser{records(), records("1:1")})
	assert.Equal(t, []string{"-|1:1"}, collect(t, w))
}

func TestTogether_ThreeInputs(t *testing.T) {
	w := Together([]vcf.VariantParser{
		records("1:1", "1:3"),
		records("1:2", "1:3"),
		records("1:3"),
	})

	assert.Equal(t, []string{
		"1:1|-|-",
		"-|1:2|-",
		"1:3|1:3|1:3",
	}, collect(t, w))
}

func TestTogether_NormalizedKey(t *testing.T) {
	w := Together([]vcf.VariantParser{
		records("chr1:100"),
		records("1:100"),
	}, WithKeyFunc(NormalizedKey))

	assert.Equal(t, []string{"chr1:100|1:100"}, collect(t, w))
}

func TestTogether_PropagatesParserError(t *testing.T) {
	parseErr := &vcf.ParseError{Line: 7, Message: "invalid position: x"}
	bad := records("1:100")
	bad.err = parseErr

	w := Together([]vcf.VariantParser{records("1:100", "1:200"), bad})

	slots, err := w.Next()
	require.Error(t, err)
	assert.Nil(t, slots)
	assert.True(t, errors.Is(err, parseErr))
}

func TestPair_Next(t *testing.T) {
	p := Together2(records("1:100"), records("1:100", "1:200"))

	first, second, ok, err := p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(100), first.Pos)
	assert.Equal(t, int64(100), second.Pos)

	first, second, ok, err = p.Next()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Nil(t, first)
	assert.Equal(t, int64(200), second.Pos)

	_, _, ok, err = p.Next()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKey_Less(t *testing.T) {
	assert.True(t, Key{"1", 5}.Less(Key{"1", 6}))
	assert.True(t, Key{"1", 500}.Less(Key{"2", 1}))
	assert.False(t, Key{"1", 6}.Less(Key{"1", 6}))
}
