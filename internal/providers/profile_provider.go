package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

// ProfileProvider supplies player profiles for scoring. Ids it knows nothing
// about are simply absent from the returned map.
type ProfileProvider interface {
	Profiles(ctx context.Context, ids []int) (map[int]models.PlayerProfile, error)
}

// Attribute ranges of synthesized profiles.
const (
	seededPerformanceMin = 40.0
	seededPerformanceMax = 95.0
	seededValueMin       = 50.0
	seededValueMax       = 2000.0
	seededConsistencyMin = 0.3
	seededConsistencyMax = 0.95
	seededInjuryMax      = 0.4
)

// trending labels weighted toward up
var seededTrending = []models.Trending{
	models.TrendingUp, models.TrendingUp, models.TrendingStable, models.TrendingDown,
}

// SeededProvider synthesizes a deterministic profile for every positive id,
// seeding a private generator with the id itself.
type SeededProvider struct{}

// NewSeededProvider creates a provider of deterministic mock profiles.
func NewSeededProvider() *SeededProvider {
	return &SeededProvider{}
}

func (p *SeededProvider) Profiles(ctx context.Context, ids []int) (map[int]models.PlayerProfile, error) {
	profiles := make(map[int]models.PlayerProfile, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if id <= 0 {
			continue
		}
		if _, done := profiles[id]; done {
			continue
		}
		profile, err := seededProfile(id)
		if err != nil {
			return nil, err
		}
		profiles[id] = profile
	}
	return profiles, nil
}

func seededProfile(id int) (models.PlayerProfile, error) {
	rng := rand.New(rand.NewSource(int64(id)))
	return models.NewPlayerProfile(
		id,
		uniform(rng, seededPerformanceMin, seededPerformanceMax),
		uniform(rng, seededValueMin, seededValueMax),
		uniform(rng, seededConsistencyMin, seededConsistencyMax),
		uniform(rng, 0, seededInjuryMax),
		seededTrending[rng.Intn(len(seededTrending))],
	)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// StaticProvider serves profiles from a table loaded once at start.
type StaticProvider struct {
	profiles map[int]models.PlayerProfile
}

// NewStaticProvider validates every profile and indexes it by id.
func NewStaticProvider(profiles []models.PlayerProfile) (*StaticProvider, error) {
	table := make(map[int]models.PlayerProfile, len(profiles))
	for _, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, dup := table[p.ID]; dup {
			return nil, fmt.Errorf("duplicate player profile %d", p.ID)
		}
		table[p.ID] = p
	}
	return &StaticProvider{profiles: table}, nil
}

// LoadStaticProvider reads a JSON array of profiles from disk.
func LoadStaticProvider(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read player data file %s: %w", path, err)
	}
	var profiles []models.PlayerProfile
	if err := json.Unmarshal(data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse player data file %s: %w", path, err)
	}
	return NewStaticProvider(profiles)
}

func (p *StaticProvider) Profiles(ctx context.Context, ids []int) (map[int]models.PlayerProfile, error) {
	profiles := make(map[int]models.PlayerProfile, len(ids))
	for _, id := range ids {
		if profile, ok := p.profiles[id]; ok {
			profiles[id] = profile
		}
	}
	return profiles, nil
}

// Len is the number of profiles in the table.
func (p *StaticProvider) Len() int {
	return len(p.profiles)
}
