package incident

import (
	"time"

	"ergosanitas/internal/domain/apperr"
)

// MaxHistory is the number of incidents kept, newest first.
const MaxHistory = 100

// Max length constants for free-text fields.
const (
	MaxDescriptionLength = 2000
)

// Severity of an incident as registered by nursing.
type Severity string

// Severity constants. Critica is accepted but not counted in statistics.
const (
	SeverityLeve     Severity = "leve"
	SeverityModerada Severity = "moderada"
	SeverityGrave    Severity = "grave"
	SeverityCritica  Severity = "critica"
)

// ValidSeverities contains all valid severity values.
var ValidSeverities = []Severity{SeverityLeve, SeverityModerada, SeverityGrave, SeverityCritica}

// Status values
const (
	StatusPending   = "pending"
	StatusCompleted = "completado"
)

// Incident is one registered sports injury.
type Incident struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Status    string    `json:"status"`
	Severity  Severity  `json:"severity,omitempty"`

	SportType    string `json:"sportType,omitempty"`
	IncidentType string `json:"incidentType,omitempty"`

	AthleteName     string `json:"athleteName,omitempty"`
	AthleteAge      int    `json:"athleteAge,omitempty"`
	AthleteClub     string `json:"athleteClub,omitempty"`
	AthleteCategory string `json:"athleteCategory,omitempty"`

	IncidentDate     string `json:"incidentDate,omitempty"`
	IncidentLocation string `json:"incidentLocation,omitempty"`
	BodyPart         string `json:"bodyPart,omitempty"`
	Description      string `json:"incidentDescription,omitempty"`
	FirstAid         string `json:"firstAid,omitempty"`

	CompletedBy string     `json:"completedBy,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`

	Extra map[string]any `json:"extra,omitempty"`
}

// Draft is the caller-supplied part of an incident record.
type Draft struct {
	Status           string         `json:"status,omitempty"`
	Severity         Severity       `json:"severity,omitempty"`
	SportType        string         `json:"sportType,omitempty"`
	IncidentType     string         `json:"incidentType,omitempty"`
	AthleteName      string         `json:"athleteName,omitempty"`
	AthleteAge       int            `json:"athleteAge,omitempty"`
	AthleteClub      string         `json:"athleteClub,omitempty"`
	AthleteCategory  string         `json:"athleteCategory,omitempty"`
	IncidentDate     string         `json:"incidentDate,omitempty"`
	IncidentLocation string         `json:"incidentLocation,omitempty"`
	BodyPart         string         `json:"bodyPart,omitempty"`
	Description      string         `json:"incidentDescription,omitempty"`
	FirstAid         string         `json:"firstAid,omitempty"`
	CompletedBy      string         `json:"completedBy,omitempty"`
	CompletedAt      *time.Time     `json:"completedAt,omitempty"`
	Extra            map[string]any `json:"extra,omitempty"`
}

// Validate checks the optional enumerations and lengths.
// PRE: Draft is populated
// POST: Returns *apperr.ValidationError when a provided field is out of range
func (d Draft) Validate() error {
	if d.Severity != "" && !IsValidSeverity(d.Severity) {
		return apperr.Invalid("incident", "severity", "must be one of leve, moderada, grave, critica")
	}
	if d.AthleteAge < 0 {
		return apperr.Invalid("incident", "athleteAge", "cannot be negative")
	}
	if len(d.Description) > MaxDescriptionLength {
		return apperr.Invalid("incident", "incidentDescription", "cannot exceed 2000 characters")
	}
	return nil
}

// New enriches a draft into a stored incident.
// POST: Status defaults to pending, CreatedAt == now
func New(d Draft, id string, now time.Time) Incident {
	status := d.Status
	if status == "" {
		status = StatusPending
	}
	return Incident{
		ID:               id,
		CreatedAt:        now,
		Status:           status,
		Severity:         d.Severity,
		SportType:        d.SportType,
		IncidentType:     d.IncidentType,
		AthleteName:      d.AthleteName,
		AthleteAge:       d.AthleteAge,
		AthleteClub:      d.AthleteClub,
		AthleteCategory:  d.AthleteCategory,
		IncidentDate:     d.IncidentDate,
		IncidentLocation: d.IncidentLocation,
		BodyPart:         d.BodyPart,
		Description:      d.Description,
		FirstAid:         d.FirstAid,
		CompletedBy:      d.CompletedBy,
		CompletedAt:      d.CompletedAt,
		Extra:            d.Extra,
	}
}

// Prepend puts inc at the head of history and trims to MaxHistory.
// POST: len(result) <= MaxHistory, result[0] == inc
// INVARIANT: history is not mutated
func Prepend(history []Incident, inc Incident) []Incident {
	n := len(history) + 1
	if n > MaxHistory {
		n = MaxHistory
	}
	out := make([]Incident, 0, n)
	out = append(out, inc)
	for _, h := range history {
		if len(out) == MaxHistory {
			break
		}
		out = append(out, h)
	}
	return out
}

// IsCompleted reports whether the incident was closed with a completion time.
func (i *Incident) IsCompleted() bool {
	return i.Status == StatusCompleted && i.CompletedAt != nil
}

// IsValidSeverity reports whether s is a known severity.
func IsValidSeverity(s Severity) bool {
	for _, v := range ValidSeverities {
		if v == s {
			return true
		}
	}
	return false
}
