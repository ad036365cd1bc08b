package cascade

import (
	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/schedule"
)

// Default criterion weights. Hours balance dominates so the cascade spreads
// work evenly; the primary caregiver gets a strong nudge to the front;
// recent decliners drift toward the back of the chain.
const (
	WeightHoursBalance     = 1.0
	WeightPrimaryCaregiver = 0.75
	WeightRecentDeclines   = 0.5
)

// DefaultCriteria returns the standard criterion set for cascade ranking
func DefaultCriteria() []Criterion {
	return []Criterion{
		NewNoConflictCriterion(),
		NewHoursBalanceCriterion(WeightHoursBalance),
		NewPrimaryCaregiverCriterion(WeightPrimaryCaregiver),
		NewRecentDeclinesCriterion(WeightRecentDeclines),
	}
}

// NoConflictCriterion is a hard filter: a caregiver whose existing shifts
// overlap the candidate shift's window is never offered it.
type NoConflictCriterion struct{}

func NewNoConflictCriterion() *NoConflictCriterion {
	return &NoConflictCriterion{}
}

func (c *NoConflictCriterion) Name() string { return "NoConflict" }

func (c *NoConflictCriterion) IsEligible(pool *Pool, cand Candidate, shift model.ScheduledShift) bool {
	return !schedule.HasCaregiverConflict(cand.Caregiver.ID, shift, cand.DayShifts)
}

func (c *NoConflictCriterion) Score(pool *Pool, cand Candidate, shift model.ScheduledShift) float64 {
	return 0
}

func (c *NoConflictCriterion) Weight() float64 { return 0 }

// HoursBalanceCriterion promotes caregivers with fewer assigned minutes over
// the lookback window, so offers favor whoever has worked least recently.
type HoursBalanceCriterion struct {
	weight float64
}

func NewHoursBalanceCriterion(weight float64) *HoursBalanceCriterion {
	return &HoursBalanceCriterion{weight: weight}
}

func (c *HoursBalanceCriterion) Name() string { return "HoursBalance" }

func (c *HoursBalanceCriterion) IsEligible(pool *Pool, cand Candidate, shift model.ScheduledShift) bool {
	return true
}

func (c *HoursBalanceCriterion) Score(pool *Pool, cand Candidate, shift model.ScheduledShift) float64 {
	if pool.MaxRecentMinutes == 0 {
		// Nobody has worked in the window, all candidates score equally
		return 1
	}
	// 0 recent minutes -> 1.0, the pool's busiest caregiver -> 0.0
	return 1 - float64(cand.RecentMinutes)/float64(pool.MaxRecentMinutes)
}

func (c *HoursBalanceCriterion) Weight() float64 { return c.weight }

// PrimaryCaregiverCriterion promotes the care group's primary caregiver to
// the front of the chain when they are in the pool.
type PrimaryCaregiverCriterion struct {
	weight float64
}

func NewPrimaryCaregiverCriterion(weight float64) *PrimaryCaregiverCriterion {
	return &PrimaryCaregiverCriterion{weight: weight}
}

func (c *PrimaryCaregiverCriterion) Name() string { return "PrimaryCaregiver" }

func (c *PrimaryCaregiverCriterion) IsEligible(pool *Pool, cand Candidate, shift model.ScheduledShift) bool {
	return true
}

func (c *PrimaryCaregiverCriterion) Score(pool *Pool, cand Candidate, shift model.ScheduledShift) float64 {
	if pool.PrimaryCaregiverID != "" && cand.Caregiver.ID == pool.PrimaryCaregiverID {
		return 1
	}
	return 0
}

func (c *PrimaryCaregiverCriterion) Weight() float64 { return c.weight }

// RecentDeclinesCriterion deprioritizes caregivers who declined or ignored
// recent offers, so chains stop leading with caregivers unlikely to accept.
type RecentDeclinesCriterion struct {
	weight float64
}

func NewRecentDeclinesCriterion(weight float64) *RecentDeclinesCriterion {
	return &RecentDeclinesCriterion{weight: weight}
}

func (c *RecentDeclinesCriterion) Name() string { return "RecentDeclines" }

func (c *RecentDeclinesCriterion) IsEligible(pool *Pool, cand Candidate, shift model.ScheduledShift) bool {
	return true
}

func (c *RecentDeclinesCriterion) Score(pool *Pool, cand Candidate, shift model.ScheduledShift) float64 {
	if pool.MaxRecentDeclines == 0 {
		return 1
	}
	// No recent declines -> 1.0, the pool's most frequent decliner -> 0.0
	return 1 - float64(cand.RecentDeclines)/float64(pool.MaxRecentDeclines)
}

func (c *RecentDeclinesCriterion) Weight() float64 { return c.weight }
