package business

import (
	"fmt"
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
	"github.com/xrash/smetrics"
)

const (
	MetricNGram       = "ngram"
	MetricJaro        = "jaro"
	MetricJaroWinkler = "jaro-winkler"
	MetricLevenshtein = "levenshtein"
)

// Metric scores two strings.
type Metric interface {
	Compare(t1, t2 string) Result
}

// MetricFunc adapts a raw string metric. The blank and equality rules run
// before f, so every metric scores a string against itself as 1.0.
type MetricFunc func(t1, t2 string) float64

func (f MetricFunc) Compare(t1, t2 string) Result {
	if res, ok := shortcut(t1, t2); ok {
		return res
	}
	return Result{Score: f(t1, t2), Outcome: OutcomeComputed}
}

func jaro(a, b string) float64 {
	return smetrics.Jaro(a, b)
}

func jaroWinkler(a, b string) float64 {
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

func levenshteinRatio(a, b string) float64 {
	return levenshtein.RatioForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
}

// Registry resolves metric names.
type Registry struct {
	metrics     map[string]Metric
	defaultName string
}

// NewRegistry registers the n-gram scorer next to the edit-distance metrics.
// defaultName is used when a lookup asks for "".
func NewRegistry(ngram *Scorer, defaultName string) (*Registry, error) {
	if ngram == nil {
		ngram = DefaultScorer()
	}
	r := &Registry{
		metrics: map[string]Metric{
			MetricNGram:       ngram,
			MetricJaro:        MetricFunc(jaro),
			MetricJaroWinkler: MetricFunc(jaroWinkler),
			MetricLevenshtein: MetricFunc(levenshteinRatio),
		},
		defaultName: MetricNGram,
	}

	if defaultName != "" {
		name := strings.ToLower(defaultName)
		if _, ok := r.metrics[name]; !ok {
			return nil, fmt.Errorf("default metric %q: %w", defaultName, ErrUnknownMetric)
		}
		r.defaultName = name
	}
	return r, nil
}

// Lookup returns the metric registered under name and its canonical name.
func (r *Registry) Lookup(name string) (Metric, string, error) {
	if name == "" {
		name = r.defaultName
	}
	name = strings.ToLower(strings.TrimSpace(name))
	m, ok := r.metrics[name]
	if !ok {
		return nil, "", fmt.Errorf("%q: %w", name, ErrUnknownMetric)
	}
	return m, name, nil
}

func (r *Registry) Default() string {
	return r.defaultName
}

// Names lists registered metrics in alphabetical order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
