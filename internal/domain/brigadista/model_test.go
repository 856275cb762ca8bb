package brigadista

import (
	"errors"
	"testing"
	"time"

	"ergosanitas/internal/domain/apperr"
)

func TestValidate(t *testing.T) {
	for _, s := range ValidStatuses {
		if err := Validate(s); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", s, err)
		}
	}
	for _, s := range []Availability{"", "sleeping"} {
		if err := Validate(s); !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Validate(%q) = %v, want ErrValidation", s, err)
		}
	}
}

func TestNewAndDefault(t *testing.T) {
	now := time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	d := Default(now)
	if d.Status != Available || !d.Timestamp.Equal(now) {
		t.Errorf("Default = %+v", d)
	}

	s := New(Busy, Info{Name: "Samuel Toro Fuentes", Location: "Cancha 1"}, now)
	if s.Status != Busy || s.Name != "Samuel Toro Fuentes" || s.Location != "Cancha 1" {
		t.Errorf("New = %+v", s)
	}
	if !s.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", s.UpdatedAt, now)
	}
}

func TestLabel(t *testing.T) {
	tests := map[Availability]string{
		Available: "Disponible",
		Busy:      "Ocupado",
		Emergency: "Emergencia",
		"other":   "Desconocido",
	}
	for s, want := range tests {
		if got := Label(s); got != want {
			t.Errorf("Label(%q) = %q, want %q", s, got, want)
		}
	}
}
