package sampler

import (
	"math/rand"
	"time"

	"supermarket-sim/pkg/geometry"
	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
)

// DefaultDetectionProbability : chance d'être détecté à chaque minute.
const DefaultDetectionProbability = 0.4

// Sampler transforme un segment en pings minute par minute.
// Il ne garde aucun état entre deux appels.
type Sampler struct {
	geo       *geometry.Provider
	accuracy  map[models.Role]*models.AccuracyRange
	detection float64
}

func New(geo *geometry.Provider, accuracy map[models.Role]*models.AccuracyRange, detection float64) *Sampler {
	if detection <= 0 {
		detection = DefaultDetectionProbability
	}
	return &Sampler{geo: geo, accuracy: accuracy, detection: detection}
}

// Accuracy tire la précision du rôle ; 0 si le rôle n'a pas de plage.
func (s *Sampler) Accuracy(r *rand.Rand, role models.Role) float64 {
	rng := s.accuracy[role]
	if rng == nil {
		return 0
	}
	return randx.Uniform(r, rng.Min, rng.Max)
}

// Sample parcourt [Start, End] minute par minute, bornes incluses.
func (s *Sampler) Sample(r *rand.Rand, actorID string, role models.Role, seg models.Segment) ([]models.Ping, error) {
	poly, err := s.geo.Polygon(seg.Area)
	if err != nil {
		return nil, err
	}
	var pings []models.Ping
	for ts := seg.Start; !ts.After(seg.End); ts = ts.Add(time.Minute) {
		if !randx.Chance(r, s.detection) {
			continue
		}
		pt := poly.Sample(r)
		pings = append(pings, models.Ping{
			DeviceID:  actorID,
			Lat:       pt.Lat,
			Lon:       pt.Lon,
			Timestamp: ts,
			AccuracyM: s.Accuracy(r, role),
			Role:      role,
			Area:      seg.Area,
		})
	}
	return pings, nil
}
