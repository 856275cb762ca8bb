package brigadista

import (
	"time"

	"ergosanitas/internal/domain/apperr"
)

// Availability of the brigade responder.
type Availability string

// Availability constants
const (
	Available Availability = "available"
	Busy      Availability = "busy"
	Emergency Availability = "emergency"
)

// ValidStatuses contains all valid availability values.
var ValidStatuses = []Availability{Available, Busy, Emergency}

// Status is the singleton availability document of the brigade.
type Status struct {
	Status    Availability   `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	UpdatedAt time.Time      `json:"updatedAt,omitempty"`
	Name      string         `json:"name,omitempty"`
	Role      string         `json:"role,omitempty"`
	Location  string         `json:"location,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// Info is optional context attached to a status change.
type Info struct {
	Name     string         `json:"name,omitempty"`
	Role     string         `json:"role,omitempty"`
	Location string         `json:"location,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// Default is the status reported before anyone has set one.
func Default(now time.Time) Status {
	return Status{Status: Available, Timestamp: now}
}

// New builds a status document from a validated availability.
// PRE: IsValid(s)
// POST: Timestamp == UpdatedAt == now
func New(s Availability, info Info, now time.Time) Status {
	return Status{
		Status:    s,
		Timestamp: now,
		UpdatedAt: now,
		Name:      info.Name,
		Role:      info.Role,
		Location:  info.Location,
		Extra:     info.Extra,
	}
}

// Validate checks the availability enumeration.
func Validate(s Availability) error {
	if s == "" {
		return apperr.Required("status", "status")
	}
	if !IsValid(s) {
		return apperr.Invalid("status", "status", "must be one of available, busy, emergency")
	}
	return nil
}

// IsValid reports whether s is a known availability.
func IsValid(s Availability) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Label returns the text the dashboard shows for an availability.
func Label(s Availability) string {
	switch s {
	case Available:
		return "Disponible"
	case Busy:
		return "Ocupado"
	case Emergency:
		return "Emergencia"
	default:
		return "Desconocido"
	}
}
