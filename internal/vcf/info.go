package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// InfoFloats returns the numeric values of an INFO field.
// Flag fields yield a single 1. Missing list items (".") are skipped.
// The boolean result is false when the field is absent.
func (v *Variant) InfoFloats(key string) ([]float64, bool, error) {
	raw, ok := v.Info[key]
	if !ok {
		return nil, false, nil
	}

	switch val := raw.(type) {
	case bool:
		if val {
			return []float64{1}, true, nil
		}
		return []float64{0}, true, nil
	case string:
		var values []float64
		for _, item := range strings.Split(val, ",") {
			if item == "." || item == "" {
				continue
			}
			f, err := strconv.ParseFloat(item, 64)
			if err != nil {
				return nil, true, fmt.Errorf("INFO field %s at %s:%d is not numeric: %q", key, v.Chrom, v.Pos, item)
			}
			values = append(values, f)
		}
		return values, true, nil
	default:
		return nil, true, fmt.Errorf("INFO field %s at %s:%d has unsupported type %T", key, v.Chrom, v.Pos, raw)
	}
}

// parseInfo parses the INFO field into a map.
func parseInfo(info string) map[string]interface{} {
	result := make(map[string]interface{})
	if info == "." {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			result[parts[0]] = parts[1]
		} else {
			// Flag-type INFO field
			result[parts[0]] = true
		}
	}

	return result
}
