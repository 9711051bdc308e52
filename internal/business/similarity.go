package business

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Outcome names the rule that produced a score.
type Outcome string

const (
	OutcomeBlank      Outcome = "blank"
	OutcomeIdentical  Outcome = "identical"
	OutcomeNormalized Outcome = "normalized"
	OutcomeBlended    Outcome = "blended"
	// OutcomeComputed is reported by metrics other than the n-gram blend.
	OutcomeComputed Outcome = "computed"
)

// EmptyLevelPolicy decides what an n-gram level contributes when one of the
// strings has no windows of that size.
type EmptyLevelPolicy string

const (
	// Renormalize leaves the level out and divides by the remaining weights.
	Renormalize EmptyLevelPolicy = "renormalize"
	// Zero scores the level as 0 and keeps its weight in the divisor.
	Zero EmptyLevelPolicy = "zero"
)

// ParseEmptyLevelPolicy accepts "renormalize" and "zero", case-insensitive.
// An empty string selects Renormalize.
func ParseEmptyLevelPolicy(s string) (EmptyLevelPolicy, error) {
	switch EmptyLevelPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", Renormalize:
		return Renormalize, nil
	case Zero:
		return Zero, nil
	default:
		return "", fmt.Errorf("%q: %w", s, ErrUnknownPolicy)
	}
}

// DefaultWeights weighs words 4x, bigrams 2x and trigrams 1x.
var DefaultWeights = []float64{4, 2, 1}

// Options configures a Scorer.
type Options struct {
	// Weights[i] is the weight of (i+1)-grams. Empty means DefaultWeights.
	Weights []float64
	// EmptyLevels is the policy for levels without windows. Empty means Renormalize.
	EmptyLevels EmptyLevelPolicy
}

// LevelScore is the overlap computed for one n-gram size.
type LevelScore struct {
	N       int     `json:"n"`
	Weight  float64 `json:"weight"`
	Score   float64 `json:"score"`
	Skipped bool    `json:"skipped,omitempty"`
}

// Result is a score together with how it was reached.
type Result struct {
	Score   float64      `json:"similarity"`
	Outcome Outcome      `json:"outcome"`
	Levels  []LevelScore `json:"levels,omitempty"`
}

// Scorer computes the blended n-gram similarity. It holds no mutable state
// and is safe for concurrent use.
type Scorer struct {
	weights []float64
	policy  EmptyLevelPolicy
}

// NewScorer validates opts and builds a Scorer.
func NewScorer(opts Options) (*Scorer, error) {
	weights := opts.Weights
	if len(weights) == 0 {
		weights = DefaultWeights
	}

	sum := 0.0
	for i, w := range weights {
		if w < 0 {
			return nil, fmt.Errorf("weight of %d-grams is %v: %w", i+1, w, ErrInvalidWeights)
		}
		sum += w
	}
	if sum == 0 {
		return nil, fmt.Errorf("weights sum to zero: %w", ErrInvalidWeights)
	}

	policy, err := ParseEmptyLevelPolicy(string(opts.EmptyLevels))
	if err != nil {
		return nil, err
	}

	return &Scorer{
		weights: append([]float64(nil), weights...),
		policy:  policy,
	}, nil
}

var defaultScorer = &Scorer{weights: DefaultWeights, policy: Renormalize}

// DefaultScorer returns the scorer used by Similarity.
func DefaultScorer() *Scorer {
	return defaultScorer
}

// Similarity returns how similar t1 and t2 are, from 0.0 to 1.0:
//   - 1.0 if the strings are equal; blank strings only match when literally equal
//   - if they are equal after removing punctuation and lowercasing, the length
//     of the normalized strings over the length of the originals
//   - otherwise a weighted average of the bag of words, bigram and trigram
//     overlaps, words weighing twice as much as bigrams and bigrams twice as
//     much as trigrams
func Similarity(t1, t2 string) float64 {
	return defaultScorer.Compare(t1, t2).Score
}

// Compare scores t1 against t2 and reports which rule produced the score.
func (s *Scorer) Compare(t1, t2 string) Result {
	if res, ok := shortcut(t1, t2); ok {
		return res
	}

	n1, n2 := Normalize(t1), Normalize(t2)
	if n1 == n2 {
		kept := utf8.RuneCountInString(n1) + utf8.RuneCountInString(n2)
		total := utf8.RuneCountInString(t1) + utf8.RuneCountInString(t2)
		// Full case mapping can lengthen a rune (İ -> i̇).
		return Result{Score: min(1, float64(kept)/float64(total)), Outcome: OutcomeNormalized}
	}

	levels := make([]LevelScore, len(s.weights))
	var weighted, divisor float64
	for i, w := range s.weights {
		level := LevelScore{N: i + 1, Weight: w}
		score, err := Overlap(NGrams(n1, level.N), NGrams(n2, level.N))
		if err != nil {
			// One side has fewer tokens than N.
			level.Skipped = true
			if s.policy == Zero {
				divisor += w
			}
			levels[i] = level
			continue
		}
		level.Score = score
		weighted += w * score
		divisor += w
		levels[i] = level
	}

	res := Result{Outcome: OutcomeBlended, Levels: levels}
	if divisor > 0 {
		res.Score = weighted / divisor
	}
	return res
}

// shortcut applies the blank and exact-equality rules shared by every metric.
func shortcut(t1, t2 string) (Result, bool) {
	if isBlank(t1) || isBlank(t2) {
		if t1 == t2 {
			return Result{Score: 1.0, Outcome: OutcomeBlank}, true
		}
		return Result{Score: 0.0, Outcome: OutcomeBlank}, true
	}
	if t1 == t2 {
		return Result{Score: 1.0, Outcome: OutcomeIdentical}, true
	}
	return Result{}, false
}
