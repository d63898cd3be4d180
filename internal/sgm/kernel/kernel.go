// Package kernel embeds the opaque OpenCL kernel source fragments listed in
// the module's external interface and provides the textual @TOKEN@
// substitution the original device program build step performs before
// compilation.
package kernel

import (
	_ "embed"
	"strings"
)

//go:embed assets/inttypes.cl
var inttypes string

//go:embed assets/utility.cl
var utility string

//go:embed assets/census.cl
var census string

//go:embed assets/path_aggregation_common.cl
var pathAggregationCommon string

//go:embed assets/path_aggregation_vertical.cl
var pathAggregationVertical string

//go:embed assets/path_aggregation_horizontal.cl
var pathAggregationHorizontal string

//go:embed assets/path_aggregation_oblique.cl
var pathAggregationOblique string

//go:embed assets/winner_takes_all.cl
var winnerTakesAll string

//go:embed assets/median_filter.cl
var medianFilter string

//go:embed assets/check_consistency.cl
var checkConsistency string

//go:embed assets/correct_disparity_range.cl
var correctDisparityRange string

// CensusSource returns the census transform kernel source, built from
// inttypes.cl + census.cl.
func CensusSource() string {
	return inttypes + census
}

// PathAggregationSource concatenates the shared integer types, the utility
// helpers (min3_sum, hamming_cost), the shared recurrence helper, and one
// direction-class fragment (vertical, horizontal, or oblique), matching the
// per-kernel fragment grouping the original device program build performs.
func PathAggregationSource(directionFragment string) string {
	return inttypes + utility + pathAggregationCommon + directionFragment
}

// PathAggregationVerticalFragment returns the vertical aggregation fragment.
func PathAggregationVerticalFragment() string { return pathAggregationVertical }

// PathAggregationHorizontalFragment returns the horizontal aggregation fragment.
func PathAggregationHorizontalFragment() string { return pathAggregationHorizontal }

// PathAggregationObliqueFragment returns the oblique aggregation fragment.
func PathAggregationObliqueFragment() string { return pathAggregationOblique }

// WinnerTakesAllSource concatenates inttypes.cl + utility.cl +
// winner_takes_all.cl.
func WinnerTakesAllSource() string {
	return inttypes + utility + winnerTakesAll
}

// MedianFilterSource returns inttypes.cl + the median filter kernel source.
func MedianFilterSource() string {
	return inttypes + medianFilter
}

// CheckConsistencySource concatenates inttypes.cl + check_consistency.cl.
func CheckConsistencySource() string {
	return inttypes + checkConsistency
}

// CorrectDisparityRangeSource concatenates inttypes.cl +
// correct_disparity_range.cl.
func CorrectDisparityRangeSource() string {
	return inttypes + correctDisparityRange
}

// Preprocess substitutes every "@TOKEN@" occurrence in source with its
// mapped "#define TOKEN value" line, in a single pass over the token table.
// This is the Go equivalent of the original build step's sequence of
// std::regex_replace(src, std::regex("@TOKEN@"), ...) calls, generalized to
// a loop instead of one call per known token name.
func Preprocess(source string, tokens map[string]string) string {
	for token, value := range tokens {
		source = strings.ReplaceAll(source, "@"+token+"@", "#define "+token+" "+value+"\n")
	}
	return source
}
