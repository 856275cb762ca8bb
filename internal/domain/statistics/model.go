package statistics

import (
	"math"
	"time"

	"ergosanitas/internal/domain/incident"
)

// NoIncidentDays is reported when no incident of the requested severity exists.
const NoIncidentDays = 999

// Fallbacks used when the underlying history cannot be read.
const (
	FallbackDays        = 0
	FallbackTrend       = 0
	FallbackSafetyScore = 50
)

// ByLevel counts incidents per counted severity. Critica is not counted.
type ByLevel struct {
	Leve     int `json:"leve"`
	Moderada int `json:"moderada"`
	Grave    int `json:"grave"`
}

// Statistics is the cached aggregate over the incident history.
type Statistics struct {
	Total       int            `json:"total"`
	ByLevel     ByLevel        `json:"byLevel"`
	BySport     map[string]int `json:"bySport"`
	ByType      map[string]int `json:"byType"`
	ByMonth     map[int]int    `json:"byMonth"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

// Compute builds a fresh aggregate from the full history.
// POST: Total == len(history); ByMonth keys are 0..11 (January == 0)
func Compute(history []incident.Incident, now time.Time) Statistics {
	s := Statistics{
		Total:       len(history),
		BySport:     map[string]int{},
		ByType:      map[string]int{},
		ByMonth:     map[int]int{},
		LastUpdated: now,
	}
	for _, inc := range history {
		switch inc.Severity {
		case incident.SeverityLeve:
			s.ByLevel.Leve++
		case incident.SeverityModerada:
			s.ByLevel.Moderada++
		case incident.SeverityGrave:
			s.ByLevel.Grave++
		}
		if inc.SportType != "" {
			s.BySport[inc.SportType]++
		}
		if inc.IncidentType != "" {
			s.ByType[inc.IncidentType]++
		}
		s.ByMonth[int(inc.CreatedAt.Month())-1]++
	}
	return s
}

// DaysSinceLastIncident returns whole days, rounded up, since the most recent
// incident of the given severity.
// PRE: history is newest first
// POST: NoIncidentDays when none matches
func DaysSinceLastIncident(severity incident.Severity, history []incident.Incident, now time.Time) int {
	for _, inc := range history {
		if inc.Severity != severity {
			continue
		}
		diff := now.Sub(inc.CreatedAt)
		if diff < 0 {
			diff = -diff
		}
		return int(math.Ceil(diff.Hours() / 24))
	}
	return NoIncidentDays
}

// MonthlyTrend compares this calendar month's incident count with the previous one,
// as a rounded percentage change.
// POST: 0 for empty history; 100 or 0 when the previous month had none
func MonthlyTrend(history []incident.Incident, now time.Time) int {
	if len(history) == 0 {
		return 0
	}
	curYear, curMonth := now.Year(), now.Month()
	prev := time.Date(curYear, curMonth, 1, 0, 0, 0, 0, now.Location()).AddDate(0, -1, 0)
	prevYear, prevMonth := prev.Year(), prev.Month()

	var current, last int
	for _, inc := range history {
		at := inc.CreatedAt.In(now.Location())
		switch {
		case at.Year() == curYear && at.Month() == curMonth:
			current++
		case at.Year() == prevYear && at.Month() == prevMonth:
			last++
		}
	}
	if last == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return int(math.Round(float64(current-last) / float64(last) * 100))
}

// SafetyScore weighs counted severities: grave 3, moderada 2, leve 1, doubled
// and subtracted from 100.
// POST: 0 <= score <= 100; 100 for nil statistics
func SafetyScore(s *Statistics) int {
	if s == nil {
		return 100
	}
	weighted := s.ByLevel.Grave*3 + s.ByLevel.Moderada*2 + s.ByLevel.Leve
	score := 100 - weighted*2
	if score < 0 {
		return 0
	}
	return score
}

// AverageResponseTime is the mean minutes from creation to completion over
// completed incidents.
// POST: ok is false when no incident is completed
func AverageResponseTime(history []incident.Incident) (minutes int, ok bool) {
	var total time.Duration
	n := 0
	for i := range history {
		inc := &history[i]
		if !inc.IsCompleted() {
			continue
		}
		total += inc.CompletedAt.Sub(inc.CreatedAt)
		n++
	}
	if n == 0 {
		return 0, false
	}
	return int(math.Round(total.Minutes() / float64(n))), true
}
