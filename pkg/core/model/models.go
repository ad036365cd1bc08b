package model

// Role is a caregiver's role within an agency
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleCaregiver Role = "caregiver"
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCaregiver
}

// Caregiver represents a caregiver account within an agency
type Caregiver struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	AgencyID     string
	Role         Role
	Active       bool
	PasswordHash string
}

// FullName returns the caregiver's display name
func (c Caregiver) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Elder represents a care recipient within a care group
type Elder struct {
	ID       string
	Name     string
	GroupID  string
	Archived bool
}

// CareGroup represents a group of elders managed together by an agency.
// PrimaryCaregiverID is empty when no primary caregiver has been granted.
type CareGroup struct {
	ID                 string
	Name               string
	AgencyID           string
	PrimaryCaregiverID string
}

// ScheduledShift represents a caregiving shift against an elder.
// Times are zero-padded "HH:mm" wall-clock strings and the interval
// [StartTime, EndTime) is half-open: a shift ending at 14:00 does not
// conflict with one starting at 14:00.
type ScheduledShift struct {
	ID              string
	Date            string // 2006-01-02
	StartTime       string // HH:mm
	EndTime         string // HH:mm
	ElderID         string
	ElderName       string
	CaregiverID     string // empty while unassigned
	CaregiverName   string
	Status          ShiftStatus
	GroupID         string
	AgencyID        string
	Notes           string
	DurationMinutes int
}

// OfferStatus is the state of a single offer within a cascade chain
type OfferStatus string

const (
	OfferPending   OfferStatus = "pending"
	OfferActive    OfferStatus = "active"
	OfferAccepted  OfferStatus = "accepted"
	OfferDeclined  OfferStatus = "declined"
	OfferExpired   OfferStatus = "expired"
	OfferCancelled OfferStatus = "cancelled"
)

// ShiftOffer represents one caregiver's position in a cascade offer chain.
// Exactly one offer per chain is active at a time; Deadline is only
// meaningful while the offer is active.
type ShiftOffer struct {
	ID          string
	ShiftID     string
	CaregiverID string
	Position    int
	Status      OfferStatus
	Deadline    string // RFC3339, empty until activated
}

// RepeatFrequency selects how a repeating shift expands into dates
type RepeatFrequency string

const (
	RepeatDaily    RepeatFrequency = "daily"
	RepeatWeekdays RepeatFrequency = "weekdays"
	RepeatCustom   RepeatFrequency = "custom"
)

// RepeatRule describes a repeating shift. ByWeekday is only consulted for
// RepeatCustom and uses time.Weekday values (Sunday = 0).
type RepeatRule struct {
	Frequency RepeatFrequency
	ByWeekday []int
}

func (f RepeatFrequency) IsValid() bool {
	return f == RepeatDaily || f == RepeatWeekdays || f == RepeatCustom
}
