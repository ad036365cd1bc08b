// Package cascade ranks an agency's caregivers for a cascade-assigned shift.
// The shift is offered to caregivers in rank order until one accepts.
package cascade

import (
	"github.com/qashsolutions/myhealthguide/pkg/core/model"
)

// Candidate is one caregiver considered for a cascade offer, together with
// the context the criteria score against.
type Candidate struct {
	Caregiver model.Caregiver

	// DayShifts are the caregiver's existing shifts on the target date,
	// used for conflict eligibility
	DayShifts []model.ScheduledShift

	// RecentMinutes is the caregiver's assigned shift minutes over the
	// fairness lookback window
	RecentMinutes int

	// RecentDeclines counts offers the caregiver declined or let expire
	// over the lookback window
	RecentDeclines int
}

// Pool holds aggregates over the whole candidate pool that individual
// criteria normalize against.
type Pool struct {
	// PrimaryCaregiverID is the care group's primary caregiver, empty if unset
	PrimaryCaregiverID string

	// MaxRecentMinutes is the largest RecentMinutes across the pool
	MaxRecentMinutes int

	// MaxRecentDeclines is the largest RecentDeclines across the pool
	MaxRecentDeclines int
}

// Criterion scores candidates for a shift. IsEligible is a hard filter;
// Score returns a value in [0, 1] that is multiplied by the criterion's
// weight and summed into the candidate's ranking score.
type Criterion interface {
	Name() string
	IsEligible(pool *Pool, cand Candidate, shift model.ScheduledShift) bool
	Score(pool *Pool, cand Candidate, shift model.ScheduledShift) float64
	Weight() float64
}

// RankedCandidate is a candidate with its final ranking score
type RankedCandidate struct {
	Candidate Candidate
	Score     float64
}
