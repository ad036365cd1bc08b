package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/qashsolutions/myhealthguide/pkg/core/cascade"
	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/schedule"
)

// fairnessLookbackDays is the window the hours-balance and recent-declines
// criteria aggregate over
const fairnessLookbackDays = 14

// CascadeShiftInput carries the fields for a cascade-assigned shift
type CascadeShiftInput struct {
	Date      string `validate:"required,datetime=2006-01-02"`
	StartTime string `validate:"required"`
	EndTime   string `validate:"required"`
	ElderID   string `validate:"required"`
	Notes     string
	OfferTTL  time.Duration
}

// CascadeStore defines the database operations needed for cascade creation
type CascadeStore interface {
	GetElder(ctx context.Context, id string) (model.Elder, error)
	GetGroup(ctx context.Context, id string) (model.CareGroup, error)
	GetCaregiver(ctx context.Context, id string) (model.Caregiver, error)
	ListActiveCaregiversByAgency(ctx context.Context, agencyID string) ([]model.Caregiver, error)
	ListShiftsByCaregiverDate(ctx context.Context, caregiverID, date string) ([]model.ScheduledShift, error)
	SumAssignedMinutes(ctx context.Context, caregiverID, fromDate, toDate string) (int, error)
	CountRecentDeclines(ctx context.Context, caregiverID string, since time.Time) (int, error)
	InsertShift(ctx context.Context, shift model.ScheduledShift) error
	UpdateShiftStatus(ctx context.Context, id string, status model.ShiftStatus) error
	InsertOffers(ctx context.Context, offers []model.ShiftOffer) error
	ActivateOffer(ctx context.Context, id string, deadline time.Time) error
}

// CascadeResult reports a created cascade shift and its offer chain
type CascadeResult struct {
	Shift model.ScheduledShift
	Chain []model.ShiftOffer
}

// CreateCascadeShift creates an unassigned shift and offers it to the
// agency's caregivers in ranked order. The first offer is activated with a
// deadline; decline or expiry advances the chain. A shift no eligible
// caregiver exists for is created as unfilled.
func CreateCascadeShift(ctx context.Context, store CascadeStore, notifier Notifier, logger *zap.Logger, now time.Time, input CascadeShiftInput) (*CascadeResult, error) {
	if err := validate.Struct(input); err != nil {
		return nil, fmt.Errorf("invalid cascade input: %w", err)
	}

	window, err := schedule.ParseWindow(input.StartTime, input.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid shift times: %w", err)
	}

	elder, err := store.GetElder(ctx, input.ElderID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch elder: %w", err)
	}
	if elder.Archived {
		return nil, fmt.Errorf("elder %s is archived", elder.ID)
	}

	group, err := store.GetGroup(ctx, elder.GroupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch care group: %w", err)
	}

	shift := model.ScheduledShift{
		ID:              uuid.New().String(),
		Date:            input.Date,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		ElderID:         elder.ID,
		ElderName:       elder.Name,
		Status:          model.StatusOffered,
		GroupID:         group.ID,
		AgencyID:        group.AgencyID,
		Notes:           input.Notes,
		DurationMinutes: window.End - window.Start,
	}

	ranked, err := rankAgencyCaregivers(ctx, store, logger, group, shift, now)
	if err != nil {
		return nil, err
	}

	if len(ranked) == 0 {
		logger.Warn("No eligible caregivers for cascade shift",
			zap.String("shift_id", shift.ID),
			zap.String("date", shift.Date))
		shift.Status = model.StatusUnfilled
		if err := store.InsertShift(ctx, shift); err != nil {
			return nil, fmt.Errorf("failed to insert unfilled shift: %w", err)
		}
		return &CascadeResult{Shift: shift, Chain: []model.ShiftOffer{}}, nil
	}

	if err := store.InsertShift(ctx, shift); err != nil {
		return nil, fmt.Errorf("failed to insert shift: %w", err)
	}

	chain := make([]model.ShiftOffer, 0, len(ranked))
	for i, rc := range ranked {
		chain = append(chain, model.ShiftOffer{
			ID:          uuid.New().String(),
			ShiftID:     shift.ID,
			CaregiverID: rc.Candidate.Caregiver.ID,
			Position:    i,
			Status:      model.OfferPending,
		})
	}
	if err := store.InsertOffers(ctx, chain); err != nil {
		return nil, fmt.Errorf("failed to insert offer chain: %w", err)
	}

	deadline := now.Add(input.OfferTTL)
	if err := store.ActivateOffer(ctx, chain[0].ID, deadline); err != nil {
		return nil, fmt.Errorf("failed to activate first offer: %w", err)
	}
	chain[0].Status = model.OfferActive
	chain[0].Deadline = deadline.UTC().Format(time.RFC3339)

	logger.Info("Cascade shift created",
		zap.String("shift_id", shift.ID),
		zap.Int("chain_length", len(chain)),
		zap.String("first_caregiver", chain[0].CaregiverID),
		zap.Time("deadline", deadline))

	first := ranked[0].Candidate.Caregiver
	if err := notifier.SendShiftOffer(ctx, first, shift, deadline); err != nil {
		logger.Warn("Failed to send offer notification",
			zap.String("offer_id", chain[0].ID),
			zap.String("caregiver_id", first.ID),
			zap.Error(err))
	}

	return &CascadeResult{Shift: shift, Chain: chain}, nil
}

// rankAgencyCaregivers builds the candidate pool for a shift and ranks it
// with the default criteria
func rankAgencyCaregivers(ctx context.Context, store CascadeStore, logger *zap.Logger, group model.CareGroup, shift model.ScheduledShift, now time.Time) ([]cascade.RankedCandidate, error) {
	caregivers, err := store.ListActiveCaregiversByAgency(ctx, group.AgencyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list caregivers: %w", err)
	}

	shiftDate, err := time.ParseInLocation("2006-01-02", shift.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid shift date %q: %w", shift.Date, err)
	}
	lookbackStart := shiftDate.AddDate(0, 0, -fairnessLookbackDays).Format("2006-01-02")
	declinesSince := now.AddDate(0, 0, -fairnessLookbackDays)

	candidates := make([]cascade.Candidate, 0, len(caregivers))
	for _, cg := range caregivers {
		dayShifts, err := store.ListShiftsByCaregiverDate(ctx, cg.ID, shift.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to list shifts for caregiver %s: %w", cg.ID, err)
		}
		minutes, err := store.SumAssignedMinutes(ctx, cg.ID, lookbackStart, shift.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to sum minutes for caregiver %s: %w", cg.ID, err)
		}
		declines, err := store.CountRecentDeclines(ctx, cg.ID, declinesSince)
		if err != nil {
			return nil, fmt.Errorf("failed to count declines for caregiver %s: %w", cg.ID, err)
		}
		candidates = append(candidates, cascade.Candidate{
			Caregiver:      cg,
			DayShifts:      dayShifts,
			RecentMinutes:  minutes,
			RecentDeclines: declines,
		})
	}

	pool := cascade.BuildPool(group.PrimaryCaregiverID, candidates)
	ranked := cascade.Rank(pool, candidates, shift, cascade.DefaultCriteria())

	logger.Debug("Ranked cascade candidates",
		zap.Int("pool_size", len(candidates)),
		zap.Int("eligible", len(ranked)))

	return ranked, nil
}
