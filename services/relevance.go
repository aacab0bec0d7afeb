package services

import "github.com/Kashyap0319/AI-Internship-Project-EsMagico/models"

// RelevanceGate decides whether retrieved chunks actually ground a query.
// It is a mean-score heuristic: cheap, tunable, and honest about trading a
// few wrong calls for never invoking generators on off-topic questions.
type RelevanceGate struct {
	Threshold float64
}

// NewRelevanceGate creates a gate with the given similarity threshold.
func NewRelevanceGate(threshold float64) *RelevanceGate {
	return &RelevanceGate{Threshold: threshold}
}

// Grounded reports whether the mean similarity of the result set is strictly
// above the threshold. An empty result set is never grounded.
func (g *RelevanceGate) Grounded(results []models.RetrievalResult) bool {
	if len(results) == 0 {
		return false
	}
	var sum float64
	for _, r := range results {
		sum += r.Score
	}
	return sum/float64(len(results)) > g.Threshold
}
