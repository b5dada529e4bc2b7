package matching

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Strategy is one string-similarity heuristic. Every strategy scores a
// candidate party name against a transaction's search text on a 0-100 scale.
type Strategy int

const (
	// StrategyPartial finds the best-aligned substring of the longer input
	// against the shorter one, tolerating extra tokens around the name.
	StrategyPartial Strategy = iota
	// StrategyTokenSet compares sorted token sets, tolerating word
	// reordering and partially overlapping word sets.
	StrategyTokenSet
	// StrategyWordOverlap counts how many significant words (longer than
	// three characters) of the candidate appear verbatim in the text.
	StrategyWordOverlap
)

var allStrategies = [...]Strategy{StrategyPartial, StrategyTokenSet, StrategyWordOverlap}

func (s Strategy) String() string {
	switch s {
	case StrategyPartial:
		return "partial"
	case StrategyTokenSet:
		return "token_set"
	case StrategyWordOverlap:
		return "word_overlap"
	}
	return "unknown"
}

// Score returns the similarity of candidate vs text in [0,100]. Inputs are
// expected to be normalized (upper-cased, trimmed) already.
func (s Strategy) Score(candidate, text string) float64 {
	switch s {
	case StrategyPartial:
		return partialRatio(candidate, text)
	case StrategyTokenSet:
		return tokenSetRatio(candidate, text)
	case StrategyWordOverlap:
		return wordOverlap(candidate, text)
	}
	return 0
}

// ratioOptions prices a substitution as a delete plus an insert, which makes
// RatioForStrings equivalent to a matching-characters ratio. With the default
// unit substitution cost, two entirely unrelated same-length strings would
// still score ~50.
var ratioOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 2,
	Matches: levenshtein.IdenticalRunes,
}

func ratio(a, b string) float64 {
	if a == b {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return levenshtein.RatioForStrings([]rune(a), []rune(b), ratioOptions) * 100
}

func partialRatio(a, b string) float64 {
	shorter, longer := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(shorter) == 0 {
		if len(longer) == 0 {
			return 100
		}
		return 0
	}

	best := 0.0
	for i := 0; i+len(shorter) <= len(longer); i++ {
		r := ratio(string(shorter), string(longer[i:i+len(shorter)]))
		if r > best {
			best = r
		}
		if best == 100 {
			break
		}
	}
	return best
}

func tokenSetRatio(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	var common, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			common = append(common, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(common, " ")
	withA := strings.TrimSpace(base + " " + strings.Join(onlyA, " "))
	withB := strings.TrimSpace(base + " " + strings.Join(onlyB, " "))

	best := ratio(base, withA)
	if r := ratio(base, withB); r > best {
		best = r
	}
	if r := ratio(withA, withB); r > best {
		best = r
	}
	return best
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

// wordOverlap scores by the fraction of the candidate's significant words
// present as substrings of the text. A candidate with no word longer than
// three characters scores 0 rather than matching on short common words.
func wordOverlap(candidate, text string) float64 {
	var total, found int
	for _, word := range strings.Fields(candidate) {
		if len(word) <= 3 {
			continue
		}
		total++
		if strings.Contains(text, word) {
			found++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(found) / float64(total) * 100
}
