package providers

import (
	"math/rand"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

var rosterPositions = []string{"PG", "SG", "SF", "PF", "C"}

var rosterTeams = []string{"Lakers", "Warriors", "Celtics", "Heat", "Bucks", "Nuggets", "Suns", "Mavericks"}

var rosterNames = []string{
	"LeBron James", "Stephen Curry", "Kevin Durant", "Giannis Antetokounmpo",
	"Luka Doncic", "Jayson Tatum", "Joel Embiid", "Nikola Jokic",
	"Damian Lillard", "Anthony Davis", "Kawhi Leonard", "Jimmy Butler",
	"Devin Booker", "Trae Young", "Donovan Mitchell", "Ja Morant",
	"Zion Williamson", "Jaylen Brown", "Paul George", "Bradley Beal",
	"Kyrie Irving", "James Harden", "Anthony Edwards", "Tyrese Haliburton",
	"DeMar DeRozan", "Karl-Anthony Towns", "Bam Adebayo", "Pascal Siakam",
	"Julius Randle", "Draymond Green", "Klay Thompson", "Khris Middleton",
	"CJ McCollum", "De'Aaron Fox", "Shai Gilgeous-Alexander", "Jrue Holiday",
	"Fred VanVleet", "Dejounte Murray", "Darius Garland", "LaMelo Ball",
	"Jaren Jackson Jr.", "Scottie Barnes", "Franz Wagner", "Cade Cunningham",
	"Evan Mobley", "Paolo Banchero", "Jalen Green", "Alperen Sengun",
	"Keegan Murray", "Bennedict Mathurin",
}

// Roster is the static table of named players the chat assistant draws on.
type Roster struct {
	players []models.RosterPlayer
	byID    map[int]models.RosterPlayer
}

// NewRoster generates the roster from a fixed seed so every process with the
// same seed serves the same players.
func NewRoster(seed int64) *Roster {
	rng := rand.New(rand.NewSource(seed))

	players := make([]models.RosterPlayer, 0, len(rosterNames))
	byID := make(map[int]models.RosterPlayer, len(rosterNames))
	for i, name := range rosterNames {
		p := models.RosterPlayer{
			ID:                i + 1,
			Name:              name,
			Position:          rosterPositions[i%len(rosterPositions)],
			RecentPerformance: uniform(rng, 15, 48),
			Consistency:       uniform(rng, 0.65, 0.95),
			NFTValue:          uniform(rng, 0.5, 15),
			Trend:             uniform(rng, -0.3, 0.5),
			Team:              rosterTeams[i%len(rosterTeams)],
		}
		players = append(players, p)
		byID[p.ID] = p
	}

	return &Roster{players: players, byID: byID}
}

// All returns a copy of every roster player in id order.
func (r *Roster) All() []models.RosterPlayer {
	out := make([]models.RosterPlayer, len(r.players))
	copy(out, r.players)
	return out
}

// Find looks a player up by id.
func (r *Roster) Find(id int) (models.RosterPlayer, bool) {
	p, ok := r.byID[id]
	return p, ok
}

// Len is the roster size.
func (r *Roster) Len() int {
	return len(r.players)
}
