package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/qashsolutions/myhealthguide/pkg/core/model"
	"github.com/qashsolutions/myhealthguide/pkg/core/schedule"
	"github.com/qashsolutions/myhealthguide/pkg/db"
)

// mockStore is an in-memory test double for the service store interfaces.
// Assigning writes emulate the Postgres layer's transactional conflict check
// so conflict paths are exercisable without a database.
type mockStore struct {
	mu         sync.Mutex
	elders     map[string]model.Elder
	caregivers map[string]model.Caregiver
	groups     map[string]model.CareGroup
	shifts     map[string]model.ScheduledShift
	offers     map[string]model.ShiftOffer

	insertShiftErr error
	insertedShifts []model.ScheduledShift
}

func newMockStore() *mockStore {
	return &mockStore{
		elders:     make(map[string]model.Elder),
		caregivers: make(map[string]model.Caregiver),
		groups:     make(map[string]model.CareGroup),
		shifts:     make(map[string]model.ScheduledShift),
		offers:     make(map[string]model.ShiftOffer),
	}
}

func (m *mockStore) GetElder(ctx context.Context, id string) (model.Elder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	elder, ok := m.elders[id]
	if !ok {
		return model.Elder{}, db.ErrNotFound
	}
	return elder, nil
}

func (m *mockStore) ListEldersByGroup(ctx context.Context, groupID string) ([]model.Elder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var elders []model.Elder
	for _, e := range m.elders {
		if e.GroupID == groupID {
			elders = append(elders, e)
		}
	}
	sort.Slice(elders, func(i, j int) bool { return elders[i].ID < elders[j].ID })
	return elders, nil
}

func (m *mockStore) GetCaregiver(ctx context.Context, id string) (model.Caregiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cg, ok := m.caregivers[id]
	if !ok {
		return model.Caregiver{}, db.ErrNotFound
	}
	return cg, nil
}

func (m *mockStore) ListActiveCaregiversByAgency(ctx context.Context, agencyID string) ([]model.Caregiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var caregivers []model.Caregiver
	for _, cg := range m.caregivers {
		if cg.AgencyID == agencyID && cg.Active {
			caregivers = append(caregivers, cg)
		}
	}
	sort.Slice(caregivers, func(i, j int) bool { return caregivers[i].ID < caregivers[j].ID })
	return caregivers, nil
}

func (m *mockStore) GetGroup(ctx context.Context, id string) (model.CareGroup, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[id]
	if !ok {
		return model.CareGroup{}, db.ErrNotFound
	}
	return group, nil
}

func (m *mockStore) SetPrimaryCaregiver(ctx context.Context, groupID, caregiverID, expectedCurrent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	group, ok := m.groups[groupID]
	if !ok {
		return db.ErrNotFound
	}
	if group.PrimaryCaregiverID != expectedCurrent {
		return db.ErrPrimaryConflict
	}
	group.PrimaryCaregiverID = caregiverID
	m.groups[groupID] = group
	return nil
}

func (m *mockStore) GetShift(ctx context.Context, id string) (model.ScheduledShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[id]
	if !ok {
		return model.ScheduledShift{}, db.ErrNotFound
	}
	return shift, nil
}

func (m *mockStore) ListShiftsByGroup(ctx context.Context, groupID, fromDate, toDate string) ([]model.ScheduledShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var shifts []model.ScheduledShift
	for _, s := range m.shifts {
		if s.GroupID == groupID && s.Date >= fromDate && s.Date <= toDate {
			shifts = append(shifts, s)
		}
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].ID < shifts[j].ID })
	return shifts, nil
}

func (m *mockStore) ListShiftsByCaregiverDate(ctx context.Context, caregiverID, date string) ([]model.ScheduledShift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.caregiverShiftsLocked(caregiverID, date), nil
}

func (m *mockStore) caregiverShiftsLocked(caregiverID, date string) []model.ScheduledShift {
	var shifts []model.ScheduledShift
	for _, s := range m.shifts {
		if s.CaregiverID == caregiverID && s.Date == date {
			shifts = append(shifts, s)
		}
	}
	sort.Slice(shifts, func(i, j int) bool { return shifts[i].ID < shifts[j].ID })
	return shifts
}

func (m *mockStore) checkConflictLocked(shift model.ScheduledShift) error {
	if shift.CaregiverID == "" || !shift.Status.Blocks() {
		return nil
	}
	existing := m.caregiverShiftsLocked(shift.CaregiverID, shift.Date)
	if schedule.HasCaregiverConflict(shift.CaregiverID, shift, existing) {
		return db.ErrShiftConflict
	}
	return nil
}

func (m *mockStore) InsertShift(ctx context.Context, shift model.ScheduledShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertShiftErr != nil {
		return m.insertShiftErr
	}
	if err := m.checkConflictLocked(shift); err != nil {
		return err
	}
	m.shifts[shift.ID] = shift
	m.insertedShifts = append(m.insertedShifts, shift)
	return nil
}

func (m *mockStore) UpdateShiftTimes(ctx context.Context, shift model.ScheduledShift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.shifts[shift.ID]; !ok {
		return db.ErrNotFound
	}
	if err := m.checkConflictLocked(shift); err != nil {
		return err
	}
	m.shifts[shift.ID] = shift
	return nil
}

func (m *mockStore) UpdateShiftStatus(ctx context.Context, id string, status model.ShiftStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[id]
	if !ok {
		return db.ErrNotFound
	}
	shift.Status = status
	m.shifts[id] = shift
	return nil
}

func (m *mockStore) AssignShift(ctx context.Context, shiftID, caregiverID, caregiverName string, status model.ShiftStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	shift, ok := m.shifts[shiftID]
	if !ok {
		return db.ErrNotFound
	}
	shift.CaregiverID = caregiverID
	shift.CaregiverName = caregiverName
	shift.Status = status
	if err := m.checkConflictLocked(shift); err != nil {
		return err
	}
	m.shifts[shiftID] = shift
	return nil
}

func (m *mockStore) SumAssignedMinutes(ctx context.Context, caregiverID, fromDate, toDate string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, s := range m.shifts {
		if s.CaregiverID == caregiverID && s.Status.Blocks() && s.Date >= fromDate && s.Date <= toDate {
			total += s.DurationMinutes
		}
	}
	return total, nil
}

func (m *mockStore) CountRecentDeclines(ctx context.Context, caregiverID string, since time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, o := range m.offers {
		if o.CaregiverID != caregiverID {
			continue
		}
		if o.Status == model.OfferDeclined || o.Status == model.OfferExpired {
			count++
		}
	}
	return count, nil
}

func (m *mockStore) GetOffer(ctx context.Context, id string) (model.ShiftOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return model.ShiftOffer{}, db.ErrNotFound
	}
	return offer, nil
}

func (m *mockStore) ListOffersByShift(ctx context.Context, shiftID string) ([]model.ShiftOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var offers []model.ShiftOffer
	for _, o := range m.offers {
		if o.ShiftID == shiftID {
			offers = append(offers, o)
		}
	}
	sort.Slice(offers, func(i, j int) bool { return offers[i].Position < offers[j].Position })
	return offers, nil
}

func (m *mockStore) ListExpiredActiveOffers(ctx context.Context, now time.Time) ([]model.ShiftOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expired []model.ShiftOffer
	for _, o := range m.offers {
		if o.Status != model.OfferActive || o.Deadline == "" {
			continue
		}
		deadline, err := time.Parse(time.RFC3339, o.Deadline)
		if err != nil {
			continue
		}
		if deadline.Before(now) {
			expired = append(expired, o)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].ID < expired[j].ID })
	return expired, nil
}

func (m *mockStore) InsertOffers(ctx context.Context, offers []model.ShiftOffer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range offers {
		m.offers[o.ID] = o
	}
	return nil
}

func (m *mockStore) ActivateOffer(ctx context.Context, id string, deadline time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return db.ErrNotFound
	}
	offer.Status = model.OfferActive
	offer.Deadline = deadline.UTC().Format(time.RFC3339)
	m.offers[id] = offer
	return nil
}

func (m *mockStore) UpdateOfferStatus(ctx context.Context, id string, status model.OfferStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	offer, ok := m.offers[id]
	if !ok {
		return db.ErrNotFound
	}
	offer.Status = status
	m.offers[id] = offer
	return nil
}

func (m *mockStore) CancelOpenOffersForShift(ctx context.Context, shiftID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, o := range m.offers {
		if o.ShiftID != shiftID {
			continue
		}
		if o.Status == model.OfferPending || o.Status == model.OfferActive {
			o.Status = model.OfferCancelled
			m.offers[id] = o
		}
	}
	return nil
}

// recordingNotifier captures notifications for assertions
type recordingNotifier struct {
	mu        sync.Mutex
	offers    []string // caregiver IDs offered
	assigned  []string
	cancelled []string
}

func (n *recordingNotifier) SendShiftOffer(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift, deadline time.Time) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.offers = append(n.offers, caregiver.ID)
	return nil
}

func (n *recordingNotifier) SendShiftAssigned(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.assigned = append(n.assigned, caregiver.ID)
	return nil
}

func (n *recordingNotifier) SendShiftCancelled(ctx context.Context, caregiver model.Caregiver, shift model.ScheduledShift) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, caregiver.ID)
	return nil
}

// fixtures shared across service tests

func fixtureStore() *mockStore {
	store := newMockStore()
	store.groups["group-1"] = model.CareGroup{ID: "group-1", Name: "Oak Street", AgencyID: "agency-1"}
	store.elders["elder-1"] = model.Elder{ID: "elder-1", Name: "Alma Reyes", GroupID: "group-1"}
	store.caregivers["cg-1"] = model.Caregiver{
		ID: "cg-1", FirstName: "Dana", LastName: "Okafor", Email: "dana@example.com",
		AgencyID: "agency-1", Role: model.RoleCaregiver, Active: true,
	}
	store.caregivers["cg-2"] = model.Caregiver{
		ID: "cg-2", FirstName: "Luis", LastName: "Marsh", Email: "luis@example.com",
		AgencyID: "agency-1", Role: model.RoleCaregiver, Active: true,
	}
	return store
}
