// Package aggregate reduces multi-valued INFO fields to a single number.
package aggregate

import (
	"fmt"
	"strings"
)

// Func is a named aggregation strategy.
type Func int

const (
	Min Func = iota
	Max
	Mean
	Sum
	First
	Last
)

var names = map[Func]string{
	Min:   "min",
	Max:   "max",
	Mean:  "mean",
	Sum:   "sum",
	First: "first",
	Last:  "last",
}

// Names returns the accepted strategy names in declaration order.
func Names() []string {
	out := make([]string, 0, len(names))
	for f := Min; f <= Last; f++ {
		out = append(out, names[f])
	}
	return out
}

// Parse looks up a strategy by name (case-insensitive).
func Parse(name string) (Func, error) {
	lower := strings.ToLower(strings.TrimSpace(name))
	for f, n := range names {
		if n == lower {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown aggregation function %q (want one of %s)", name, strings.Join(Names(), ", "))
}

func (f Func) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return fmt.Sprintf("Func(%d)", int(f))
}

// Apply reduces values with f. An empty slice yields 0.
func (f Func) Apply(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	switch f {
	case Max:
		m := values[0]
		for _, v := range values[1:] {
			m = max(m, v)
		}
		return m
	case Mean:
		return sum(values) / float64(len(values))
	case Sum:
		return sum(values)
	case First:
		return values[0]
	case Last:
		return values[len(values)-1]
	default:
		m := values[0]
		for _, v := range values[1:] {
			m = min(m, v)
		}
		return m
	}
}

func sum(values []float64) float64 {
	var s float64
	for _, v := range values {
		s += v
	}
	return s
}
