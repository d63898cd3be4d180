package kernel

import (
	"strings"
	"testing"
)

func TestPreprocessSubstitutesTokens(t *testing.T) {
	src := "@MAX_DISPARITY@@NUM_PATHS@body"
	out := Preprocess(src, map[string]string{
		"MAX_DISPARITY": "128",
		"NUM_PATHS":     "8",
	})

	if strings.Contains(out, "@") {
		t.Fatalf("expected no remaining @token@ markers, got %q", out)
	}
	if !strings.Contains(out, "#define MAX_DISPARITY 128") {
		t.Errorf("missing MAX_DISPARITY define in %q", out)
	}
	if !strings.Contains(out, "#define NUM_PATHS 8") {
		t.Errorf("missing NUM_PATHS define in %q", out)
	}
	if !strings.HasSuffix(out, "body") {
		t.Errorf("expected trailing body text preserved, got %q", out)
	}
}

func TestPreprocessLeavesUnknownTokensAlone(t *testing.T) {
	out := Preprocess("@UNKNOWN@", map[string]string{"MAX_DISPARITY": "64"})
	if out != "@UNKNOWN@" {
		t.Errorf("expected unknown token untouched, got %q", out)
	}
}

func TestEmbeddedSourcesNonEmpty(t *testing.T) {
	sources := map[string]string{
		"census":                 CensusSource(),
		"winner_takes_all":       WinnerTakesAllSource(),
		"median_filter":          MedianFilterSource(),
		"check_consistency":      CheckConsistencySource(),
		"correct_disparity_range": CorrectDisparityRangeSource(),
	}
	for name, src := range sources {
		if strings.TrimSpace(src) == "" {
			t.Errorf("%s: embedded source is empty", name)
		}
	}
}

func TestPathAggregationSourceConcatenatesDirection(t *testing.T) {
	src := PathAggregationSource(PathAggregationVerticalFragment())
	if !strings.Contains(src, "aggregate_disparity") {
		t.Error("expected common recurrence helper in concatenated source")
	}
	if !strings.Contains(src, "path_aggregation_vertical_kernel") {
		t.Error("expected vertical kernel entry point in concatenated source")
	}
}

func TestKernelEntryPointNames(t *testing.T) {
	cases := []struct {
		src, want string
	}{
		{CensusSource(), "census_transform_kernel"},
		{WinnerTakesAllSource(), "winner_takes_all_kernel"},
		{MedianFilterSource(), "median3x3"},
		{CheckConsistencySource(), "check_consistency_kernel"},
		{CorrectDisparityRangeSource(), "correct_disparity_range_kernel"},
		{PathAggregationHorizontalFragment(), "path_aggregation_horizontal_kernel"},
		{PathAggregationObliqueFragment(), "path_aggregation_oblique_kernel"},
	}
	for _, c := range cases {
		if !strings.Contains(c.src, c.want) {
			t.Errorf("expected %q entry point in source", c.want)
		}
	}
}
