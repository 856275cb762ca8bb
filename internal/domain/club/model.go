package club

import "time"

// Club status values
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Club is one participating school and the field it plays on.
type Club struct {
	Name     string `json:"name"`
	Field    string `json:"field"`
	Category string `json:"category"`
	Status   string `json:"status"`
	Players  int    `json:"players"`
}

// Data is the league roster document.
type Data struct {
	Clubs        []Club    `json:"clubs"`
	TotalClubs   int       `json:"totalClubs"`
	ActiveFields int       `json:"activeFields"`
	TotalPlayers int       `json:"totalPlayers"`
	UpdatedAt    time.Time `json:"updatedAt,omitempty"`
}

// Default returns the roster served when none has been stored yet.
// POST: four active clubs, one field each, 84 players in total
func Default() Data {
	clubs := []Club{
		{Name: "Escuela Los Halcones", Field: "Cancha 1", Category: "Sub-15", Status: StatusActive, Players: 22},
		{Name: "Escuela Águilas Doradas", Field: "Cancha 2", Category: "Sub-17", Status: StatusActive, Players: 20},
		{Name: "Escuela Tormenta FC", Field: "Cancha 3", Category: "Sub-13", Status: StatusActive, Players: 18},
		{Name: "Escuela Estrellas Rojas", Field: "Cancha 4", Category: "Sub-19", Status: StatusActive, Players: 24},
	}
	return Data{
		Clubs:        clubs,
		TotalClubs:   4,
		ActiveFields: 4,
		TotalPlayers: 84,
	}
}

// Empty is the roster returned when the stored one cannot be read.
func Empty() Data {
	return Data{Clubs: []Club{}}
}

// ActiveClubs counts clubs whose status is active.
// INVARIANT: Data is not mutated
func (d Data) ActiveClubs() int {
	n := 0
	for _, c := range d.Clubs {
		if c.Status == StatusActive {
			n++
		}
	}
	return n
}

// Find returns the club with the given name.
func (d Data) Find(name string) (Club, bool) {
	for _, c := range d.Clubs {
		if c.Name == name {
			return c, true
		}
	}
	return Club{}, false
}
