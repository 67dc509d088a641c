package enums

import "fmt"

// CandidateSource records which preference tier produced a supplier candidate.
type CandidateSource string

const (
	CandidateSourcePreferred CandidateSource = "preferred"
	CandidateSourceCategory  CandidateSource = "category"
	CandidateSourceBrand     CandidateSource = "brand"
)

var validCandidateSources = []CandidateSource{
	CandidateSourcePreferred,
	CandidateSourceCategory,
	CandidateSourceBrand,
}

// IsValid checks whether the given source matches the canonical enum.
func (c CandidateSource) IsValid() bool {
	for _, candidate := range validCandidateSources {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCandidateSource converts raw strings into CandidateSource.
func ParseCandidateSource(value string) (CandidateSource, error) {
	for _, candidate := range validCandidateSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid candidate source %q", value)
}
