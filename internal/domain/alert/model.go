package alert

import (
	"time"

	"ergosanitas/internal/domain/apperr"
	"ergosanitas/internal/domain/club"
)

// Level is the severity a brigade member assigns when activating an alert.
type Level string

// Level constants
const (
	LevelLeve     Level = "leve"
	LevelModerada Level = "moderada"
	LevelGrave    Level = "grave"
)

// ValidLevels contains all valid alert levels.
var ValidLevels = []Level{LevelLeve, LevelModerada, LevelGrave}

// StatusActive is the only status a stored alert carries.
const StatusActive = "active"

// Priority labels shown to the brigade panel.
const (
	PriorityCritical = "CRÍTICA"
	PriorityHigh     = "ALTA"
	PriorityNormal   = "NORMAL"
)

// MaxAge is how long an alert stays current after creation.
const MaxAge = 24 * time.Hour

// Alert is the single active emergency.
type Alert struct {
	ID          string     `json:"id"`
	Level       Level      `json:"level"`
	Location    string     `json:"location"`
	Type        string     `json:"type"`
	Timestamp   time.Time  `json:"timestamp"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	ActivatedBy string     `json:"activatedBy,omitempty"`
	RelatedClub *club.Club `json:"relatedClub,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	Workflow

	Extra map[string]any `json:"extra,omitempty"`
}

// Workflow carries the response progress recorded by the panels.
type Workflow struct {
	Confirmed             bool       `json:"confirmed,omitempty"`
	ConfirmedAt           *time.Time `json:"confirmedAt,omitempty"`
	HealthStaffEnRoute    bool       `json:"healthStaffEnRoute,omitempty"`
	Arrived               bool       `json:"arrived,omitempty"`
	ArrivedAt             *time.Time `json:"arrivedAt,omitempty"`
	ReceivedBy            string     `json:"receivedBy,omitempty"`
	ReceivedAt            *time.Time `json:"receivedAt,omitempty"`
	ReceptionConfirmed    bool       `json:"receptionConfirmed,omitempty"`
	NurseStatus           string     `json:"nurseStatus,omitempty"`
	NurseLocation         string     `json:"nurseLocation,omitempty"`
	AssistanceRequested   bool       `json:"assistanceRequested,omitempty"`
	AssistanceRequestedAt *time.Time `json:"assistanceRequestedAt,omitempty"`
}

// Draft is the caller-supplied part of a new alert.
type Draft struct {
	Level       Level          `json:"level"`
	Location    string         `json:"location"`
	Type        string         `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	Priority    string         `json:"priority,omitempty"`
	ActivatedBy string         `json:"activatedBy,omitempty"`
	RelatedClub *club.Club     `json:"relatedClub,omitempty"`
	Extra       map[string]any `json:"extra,omitempty"`
}

// Validate checks the mandatory fields and the level enumeration.
// PRE: Draft is populated
// POST: Returns *apperr.ValidationError on the first failing field, nil otherwise
func (d Draft) Validate() error {
	if d.Level == "" {
		return apperr.Required("alert", "level")
	}
	if d.Location == "" {
		return apperr.Required("alert", "location")
	}
	if d.Type == "" {
		return apperr.Required("alert", "type")
	}
	if d.Timestamp.IsZero() {
		return apperr.Required("alert", "timestamp")
	}
	if !IsValidLevel(d.Level) {
		return apperr.Invalid("alert", "level", "must be one of leve, moderada, grave")
	}
	return nil
}

// New enriches a validated draft into an active alert.
// PRE: d.Validate() == nil
// POST: Status is active, CreatedAt == UpdatedAt == now, Priority set
func New(d Draft, id string, now time.Time) Alert {
	priority := d.Priority
	if priority == "" {
		priority = PriorityFor(d.Level)
	}
	return Alert{
		ID:          id,
		Level:       d.Level,
		Location:    d.Location,
		Type:        d.Type,
		Timestamp:   d.Timestamp,
		Status:      StatusActive,
		Priority:    priority,
		ActivatedBy: d.ActivatedBy,
		RelatedClub: d.RelatedClub,
		CreatedAt:   now,
		UpdatedAt:   now,
		Extra:       d.Extra,
	}
}

// Expired reports whether more than MaxAge has passed since creation.
// INVARIANT: Alert is not mutated
func (a *Alert) Expired(now time.Time) bool {
	return now.Sub(a.CreatedAt) > MaxAge
}

// PriorityFor maps an alert level to the brigade priority label.
func PriorityFor(l Level) string {
	switch l {
	case LevelGrave:
		return PriorityCritical
	case LevelModerada:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// IsValidLevel reports whether l is a known level.
func IsValidLevel(l Level) bool {
	for _, v := range ValidLevels {
		if v == l {
			return true
		}
	}
	return false
}

// Update is an explicit partial update. Nil fields are left untouched.
type Update struct {
	Confirmed             *bool          `json:"confirmed,omitempty"`
	ConfirmedAt           *time.Time     `json:"confirmedAt,omitempty"`
	HealthStaffEnRoute    *bool          `json:"healthStaffEnRoute,omitempty"`
	Arrived               *bool          `json:"arrived,omitempty"`
	ArrivedAt             *time.Time     `json:"arrivedAt,omitempty"`
	ReceivedBy            *string        `json:"receivedBy,omitempty"`
	ReceivedAt            *time.Time     `json:"receivedAt,omitempty"`
	ReceptionConfirmed    *bool          `json:"receptionConfirmed,omitempty"`
	NurseStatus           *string        `json:"nurseStatus,omitempty"`
	NurseLocation         *string        `json:"nurseLocation,omitempty"`
	AssistanceRequested   *bool          `json:"assistanceRequested,omitempty"`
	AssistanceRequestedAt *time.Time     `json:"assistanceRequestedAt,omitempty"`
	RelatedClub           *club.Club     `json:"relatedClub,omitempty"`
	Extra                 map[string]any `json:"extra,omitempty"`
}

// Apply merges u into a and stamps UpdatedAt.
// PRE: a is the current alert
// POST: only non-nil fields of u changed, UpdatedAt == now, CreatedAt unchanged
func (u Update) Apply(a *Alert, now time.Time) {
	w := &a.Workflow
	setBool(&w.Confirmed, u.Confirmed)
	setTime(&w.ConfirmedAt, u.ConfirmedAt)
	setBool(&w.HealthStaffEnRoute, u.HealthStaffEnRoute)
	setBool(&w.Arrived, u.Arrived)
	setTime(&w.ArrivedAt, u.ArrivedAt)
	setString(&w.ReceivedBy, u.ReceivedBy)
	setTime(&w.ReceivedAt, u.ReceivedAt)
	setBool(&w.ReceptionConfirmed, u.ReceptionConfirmed)
	setString(&w.NurseStatus, u.NurseStatus)
	setString(&w.NurseLocation, u.NurseLocation)
	setBool(&w.AssistanceRequested, u.AssistanceRequested)
	setTime(&w.AssistanceRequestedAt, u.AssistanceRequestedAt)
	if u.RelatedClub != nil {
		c := *u.RelatedClub
		a.RelatedClub = &c
	}
	if len(u.Extra) > 0 {
		if a.Extra == nil {
			a.Extra = make(map[string]any, len(u.Extra))
		}
		for k, v := range u.Extra {
			a.Extra[k] = v
		}
	}
	a.UpdatedAt = now
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setTime(dst **time.Time, v *time.Time) {
	if v != nil {
		t := *v
		*dst = &t
	}
}
