// Package vcf provides VCF file parsing functionality.
package vcf

import "strings"

// Variant represents a single record from a VCF file.
type Variant struct {
	Chrom  string                 // Chromosome name (e.g., "12", "chr12")
	Pos    int64                  // 1-based genomic position
	ID     string                 // Variant identifier (e.g., rs ID)
	Ref    string                 // Reference allele
	Alt    string                 // Alternate alleles, comma-separated as in the ALT column
	Qual   float64                // Quality score
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs
}

// Alts returns the alternate alleles. A missing ALT (".") yields a single
// empty string so that index positions stay aligned with Alleles.
func (v *Variant) Alts() []string {
	alts := strings.Split(v.Alt, ",")
	for i, a := range alts {
		if a == "." {
			alts[i] = ""
		}
	}
	return alts
}

// Alleles returns the reference allele followed by the alternate alleles.
// Index 1 is the primary alternate allele.
func (v *Variant) Alleles() []string {
	return append([]string{v.Ref}, v.Alts()...)
}

// PrimaryAlt returns the first alternate allele.
func (v *Variant) PrimaryAlt() string {
	return v.Alts()[0]
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	if len(v.Ref) != 1 {
		return false
	}
	for _, alt := range v.Alts() {
		if len(alt) != 1 {
			return false
		}
	}
	return true
}

// IsSV returns true if the record describes a structural variant.
func (v *Variant) IsSV() bool {
	_, ok := v.Info["SVTYPE"]
	return ok
}

// IsIndel returns true if the variant is an insertion or deletion.
//
// A multi-base reference counts as an indel unless the record is a structural
// variant. Symbolic and breakend alleles never do.
func (v *Variant) IsIndel() bool {
	sv := v.IsSV()
	if len(v.Ref) > 1 && !sv {
		return true
	}
	for _, alt := range v.Alts() {
		if alt == "" {
			return true
		}
		if isSymbolic(alt) {
			return false
		}
		if len(alt) != len(v.Ref) && !sv {
			return true
		}
	}
	return false
}

// NormalizeChrom returns the chromosome name without "chr" prefix.
func (v *Variant) NormalizeChrom() string {
	if len(v.Chrom) > 3 && v.Chrom[:3] == "chr" {
		return v.Chrom[3:]
	}
	return v.Chrom
}

// isSymbolic reports whether an ALT allele is a symbolic (<DEL>), breakend
// (G]17:198982]) or single breakend (.A, G.) allele rather than a base
// sequence.
func isSymbolic(alt string) bool {
	if strings.HasPrefix(alt, "<") && strings.HasSuffix(alt, ">") {
		return true
	}
	if len(alt) > 1 && (alt[0] == '.' || alt[len(alt)-1] == '.') {
		return true
	}
	return strings.ContainsAny(alt, "[]") || alt == "*"
}
