package club

import "testing"

func TestDefaultRoster(t *testing.T) {
	d := Default()
	if len(d.Clubs) != 4 {
		t.Fatalf("len(Clubs) = %d, want 4", len(d.Clubs))
	}
	sum := 0
	for _, c := range d.Clubs {
		sum += c.Players
	}
	if sum != d.TotalPlayers {
		t.Errorf("players sum = %d, TotalPlayers = %d", sum, d.TotalPlayers)
	}
	if d.ActiveClubs() != 4 {
		t.Errorf("ActiveClubs() = %d, want 4", d.ActiveClubs())
	}
	if c, ok := d.Find("Escuela Tormenta FC"); !ok || c.Field != "Cancha 3" {
		t.Errorf("Find(Tormenta) = %+v, %v", c, ok)
	}
}

func TestEmptyRoster(t *testing.T) {
	d := Empty()
	if d.Clubs == nil || len(d.Clubs) != 0 {
		t.Errorf("Empty().Clubs = %v, want empty non-nil slice", d.Clubs)
	}
	if d.TotalClubs != 0 || d.TotalPlayers != 0 {
		t.Errorf("Empty() totals = %d/%d, want 0/0", d.TotalClubs, d.TotalPlayers)
	}
}
