package cascade

import (
	"sort"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// BuildPool computes the pool aggregates the criteria normalize against
func BuildPool(primaryCaregiverID string, candidates []Candidate) *Pool {
	pool := &Pool{PrimaryCaregiverID: primaryCaregiverID}
	for _, cand := range candidates {
		if cand.RecentMinutes > pool.MaxRecentMinutes {
			pool.MaxRecentMinutes = cand.RecentMinutes
		}
		if cand.RecentDeclines > pool.MaxRecentDeclines {
			pool.MaxRecentDeclines = cand.RecentDeclines
		}
	}
	return pool
}

// Rank filters ineligible candidates and orders the rest by descending
// weighted score. Ties break on caregiver ID so chain order is stable
// across runs.
func Rank(pool *Pool, candidates []Candidate, shift model.ScheduledShift, criteria []Criterion) []RankedCandidate {
	ranked := make([]RankedCandidate, 0, len(candidates))

	for _, cand := range candidates {
		eligible := true
		for _, criterion := range criteria {
			if !criterion.IsEligible(pool, cand, shift) {
				eligible = false
				break
			}
		}
		if !eligible {
			continue
		}

		score := 0.0
		for _, criterion := range criteria {
			score += criterion.Score(pool, cand, shift) * criterion.Weight()
		}
		ranked = append(ranked, RankedCandidate{Candidate: cand, Score: score})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Candidate.Caregiver.ID < ranked[j].Candidate.Caregiver.ID
	})

	return ranked
}
