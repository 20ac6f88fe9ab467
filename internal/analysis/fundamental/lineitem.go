package fundamental

import (
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/seenimoa/dcfvalue/pkg/models"
)

// Default resolver settings.
const (
	DefaultCutoff         = 0.5
	DefaultMaxSuggestions = 3
)

// Resolution describes how a label was matched against a table.
type Resolution struct {
	Label       string   `json:"label"`
	Matched     string   `json:"matched,omitempty"` // row label chosen, empty when unresolved
	Score       float64  `json:"score"`
	Suggestions []string `json:"suggestions,omitempty"` // closest rows, only when unresolved
}

// Resolved reports whether a row cleared the cutoff.
func (r Resolution) Resolved() bool { return r.Matched != "" }

// Resolver finds statement rows by approximate label.
type Resolver struct {
	Cutoff         float64 // minimum similarity, inclusive
	MaxSuggestions int     // near misses reported when nothing clears Cutoff
}

// DefaultResolver returns a resolver with cutoff 0.5 and three suggestions.
func DefaultResolver() Resolver {
	return Resolver{Cutoff: DefaultCutoff, MaxSuggestions: DefaultMaxSuggestions}
}

// ResolveLineItem resolves label in table with the default resolver.
func ResolveLineItem(label string, table *models.FinancialTable) (models.Value, Resolution) {
	return DefaultResolver().Resolve(label, table)
}

// Resolve returns the most recent value of the row whose label best matches
// label. When no row scores at least r.Cutoff the value is absent and the
// Resolution lists the closest row labels instead.
func (r Resolver) Resolve(label string, table *models.FinancialTable) (models.Value, Resolution) {
	res := Resolution{Label: label}
	labels := table.Labels()

	idx, score, ok := BestMatch(label, labels, r.Cutoff)
	if !ok {
		res.Suggestions = ClosestMatches(label, labels, r.MaxSuggestions)
		return models.None(), res
	}

	res.Matched = labels[idx]
	res.Score = score
	return table.Rows[idx].Latest(), res
}

// Similarity is the sequence-matcher ratio 2*M/T between candidate and label,
// where M counts characters in matching blocks and T is the combined length.
func Similarity(candidate, label string) float64 {
	return difflib.NewMatcher(splitChars(candidate), splitChars(label)).Ratio()
}

// BestMatch returns the index and score of the candidate most similar to
// label, provided its score is at least cutoff. Equal scores keep the
// earliest candidate.
func BestMatch(label string, candidates []string, cutoff float64) (int, float64, bool) {
	best, bestScore := -1, 0.0
	for i, c := range candidates {
		s := Similarity(c, label)
		if s >= cutoff && (best < 0 || s > bestScore) {
			best, bestScore = i, s
		}
	}
	if best < 0 {
		return -1, 0, false
	}
	return best, bestScore, true
}

// ClosestMatches returns up to n distinct candidates ordered by similarity
// to label, highest first; equal scores keep candidate order.
func ClosestMatches(label string, candidates []string, n int) []string {
	if n <= 0 || len(candidates) == 0 {
		return nil
	}

	type scored struct {
		label string
		score float64
	}
	seen := make(map[string]bool, len(candidates))
	all := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		seen[c] = true
		all = append(all, scored{c, Similarity(c, label)})
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	if len(all) > n {
		all = all[:n]
	}
	out := make([]string, len(all))
	for i, s := range all {
		out[i] = s.label
	}
	return out
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
