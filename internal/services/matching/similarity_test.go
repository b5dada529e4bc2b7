package matching

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestPartialRatio(t *testing.T) {
	testCases := []struct {
		name      string
		candidate string
		text      string
		expected  float64
	}{
		{
			name:      "exact match",
			candidate: "ACME CORP",
			text:      "ACME CORP",
			expected:  100,
		},
		{
			name:      "candidate embedded in longer text",
			candidate: "ACME CORP",
			text:      "NEFT FROM ACME CORPORATION",
			expected:  100,
		},
		{
			name:      "unrelated text stays low",
			candidate: "ACME CORP",
			text:      "XYZ UNRELATED TRANSFER",
			expected:  44.44,
		},
		{
			name:      "empty candidate against text",
			candidate: "",
			text:      "ANYTHING",
			expected:  0,
		},
		{
			name:      "both empty",
			candidate: "",
			text:      "",
			expected:  100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := StrategyPartial.Score(tc.candidate, tc.text)
			if !almostEqual(got, tc.expected) {
				t.Errorf("partial(%q, %q) = %.2f, expected %.2f", tc.candidate, tc.text, got, tc.expected)
			}
		})
	}
}

func TestTokenSetRatio(t *testing.T) {
	testCases := []struct {
		name      string
		candidate string
		text      string
		expected  float64
	}{
		{
			name:      "identical token sets reordered",
			candidate: "PVT ABC LTD",
			text:      "ABC PVT LTD",
			expected:  100,
		},
		{
			name:      "partial word set with extra tokens",
			candidate: "ABC PVT LTD",
			text:      "PAYMENT FROM ABC LTD",
			expected:  77.78,
		},
		{
			name:      "no shared tokens",
			candidate: "INITECH SOLUTIONS",
			text:      "CHQ DEP 001823 MISC",
			expected:  27.78,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := StrategyTokenSet.Score(tc.candidate, tc.text)
			if !almostEqual(got, tc.expected) {
				t.Errorf("tokenSet(%q, %q) = %.2f, expected %.2f", tc.candidate, tc.text, got, tc.expected)
			}
		})
	}
}

func TestWordOverlap(t *testing.T) {
	testCases := []struct {
		name      string
		candidate string
		text      string
		expected  float64
	}{
		{
			name:      "all significant words present",
			candidate: "ACME CORP",
			text:      "NEFT FROM ACME CORPORATION",
			expected:  100,
		},
		{
			name:      "one of three significant words",
			candidate: "ACME CORPORATION LIMITED",
			text:      "UPI CORPORATION REF 991",
			expected:  33.33,
		},
		{
			name:      "no qualifying long words scores zero",
			candidate: "A B CO",
			text:      "A B CO",
			expected:  0,
		},
		{
			name:      "short words ignored",
			candidate: "THE BIG TRADERS",
			text:      "TRANSFER TO TRADERS",
			expected:  100,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := StrategyWordOverlap.Score(tc.candidate, tc.text)
			if !almostEqual(got, tc.expected) {
				t.Errorf("wordOverlap(%q, %q) = %.2f, expected %.2f", tc.candidate, tc.text, got, tc.expected)
			}
		})
	}
}

func TestStrategyString(t *testing.T) {
	if StrategyPartial.String() != "partial" ||
		StrategyTokenSet.String() != "token_set" ||
		StrategyWordOverlap.String() != "word_overlap" {
		t.Error("unexpected strategy names")
	}
}
