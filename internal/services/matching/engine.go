package matching

import "strings"

// DefaultThreshold is the minimum score a candidate must reach to count as
// a match.
const DefaultThreshold = 60.0

// Match is the best-scoring counterparty for one transaction.
type Match struct {
	Party string
	Score float64
}

// Matcher scores transaction text against a fixed universe of normalized
// counterparty names. The universe order is the tie-break order: on equal
// scores the first-seen candidate wins.
type Matcher struct {
	universe  []string
	threshold float64
}

func NewMatcher(universe []string) *Matcher {
	return &Matcher{universe: universe, threshold: DefaultThreshold}
}

// Match returns the best-matching counterparty for the given free text, or
// false when no candidate clears the threshold.
func (m *Matcher) Match(text string) (Match, bool) {
	normalized := strings.ToUpper(strings.TrimSpace(text))

	best := Match{Score: -1}
	for _, name := range m.universe {
		score := scoreCandidate(name, normalized)
		if score > best.Score {
			best = Match{Party: name, Score: score}
		}
	}

	if best.Score < m.threshold {
		return Match{}, false
	}
	return best, true
}

// scoreCandidate is the max-of-strategies combiner.
func scoreCandidate(candidate, text string) float64 {
	best := 0.0
	for _, s := range allStrategies {
		if v := s.Score(candidate, text); v > best {
			best = v
		}
	}
	return best
}
