// Package walk synchronises several coordinate-ordered variant streams.
package walk

import (
	"fmt"

	"github.com/inodb/vibe-vcf/internal/vcf"
)

// Key is the ordering key of a record within a stream.
type Key struct {
	Chrom string
	Pos   int64
}

// Less reports whether k sorts before other.
func (k Key) Less(other Key) bool {
	if k.Chrom != other.Chrom {
		return k.Chrom < other.Chrom
	}
	return k.Pos < other.Pos
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.Chrom, k.Pos)
}

// KeyFunc extracts the ordering key from a record.
type KeyFunc func(v *vcf.Variant) Key

// ChromPosKey keys records by their chromosome name and position as written.
func ChromPosKey(v *vcf.Variant) Key {
	return Key{Chrom: v.Chrom, Pos: v.Pos}
}

// NormalizedKey keys records by chromosome without a "chr" prefix, so
// "chr1" and "1" pair up.
func NormalizedKey(v *vcf.Variant) Key {
	return Key{Chrom: v.NormalizeChrom(), Pos: v.Pos}
}

// Option configures a Walker.
type Option func(*Walker)

// WithKeyFunc overrides the ordering key. The default is ChromPosKey.
func WithKeyFunc(fn KeyFunc) Option {
	return func(w *Walker) {
		w.key = fn
	}
}

// cursor holds the head record of one input.
type cursor struct {
	parser vcf.VariantParser
	head   *vcf.Variant
	key    Key
}

// Walker walks several ordered inputs together, one key at a time.
type Walker struct {
	cursors []*cursor
	key     KeyFunc
	started bool
	last    Key
	emitted bool
}

// Together returns a Walker over the given parsers. Each parser must yield
// records ordered by position within a chromosome, with all records of a
// chromosome adjacent. Chromosomes need not be in any particular order as
// long as the inputs agree on it.
func Together(parsers []vcf.VariantParser, opts ...Option) *Walker {
	w := &Walker{key: ChromPosKey}
	for _, opt := range opts {
		opt(w)
	}
	for _, p := range parsers {
		w.cursors = append(w.cursors, &cursor{parser: p})
	}
	return w
}

// Next returns one slot per input for the next key. A slot is nil when its
// input has no record at that key. Returns nil, nil once every input is
// exhausted. Parser errors are returned unchanged.
func (w *Walker) Next() ([]*vcf.Variant, error) {
	if !w.started {
		w.started = true
		for _, c := range w.cursors {
			if err := w.advance(c); err != nil {
				return nil, err
			}
		}
	}

	// Stay on the current chromosome while any input still has records on
	// it, then fall back to the smallest key overall.
	var next Key
	found, sameChrom := false, false
	for _, c := range w.cursors {
		if c.head == nil {
			continue
		}
		onLast := w.emitted && c.key.Chrom == w.last.Chrom
		switch {
		case !found:
			next, found, sameChrom = c.key, true, onLast
		case onLast && !sameChrom:
			next, sameChrom = c.key, true
		case onLast == sameChrom && c.key.Less(next):
			next = c.key
		}
	}
	if !found {
		return nil, nil
	}

	slots := make([]*vcf.Variant, len(w.cursors))
	for i, c := range w.cursors {
		if c.head == nil || c.key != next {
			continue
		}
		slots[i] = c.head
		if err := w.advance(c); err != nil {
			return nil, err
		}
	}

	w.last, w.emitted = next, true
	return slots, nil
}

func (w *Walker) advance(c *cursor) error {
	v, err := c.parser.Next()
	if err != nil {
		return err
	}
	c.head = v
	if v != nil {
		c.key = w.key(v)
	}
	return nil
}

// Pair walks two inputs together.
type Pair struct {
	w *Walker
}

// Together2 returns a Pair walker over first and second.
func Together2(first, second vcf.VariantParser, opts ...Option) *Pair {
	return &Pair{w: Together([]vcf.VariantParser{first, second}, opts...)}
}

// Next returns the records of both inputs at the next key. Either may be
// nil. ok is false once both inputs are exhausted.
func (p *Pair) Next() (first, second *vcf.Variant, ok bool, err error) {
	slots, err := p.w.Next()
	if err != nil || slots == nil {
		return nil, nil, false, err
	}
	return slots[0], slots[1], true, nil
}
