// Package scenario porte les données de configuration de la simulation :
// polygones, horaires, jours fériés, pools d'acteurs et taux de taxe.
package scenario

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"

	"supermarket-sim/pkg/calendar"
	"supermarket-sim/pkg/geometry"
	"supermarket-sim/pkg/models"
)

// RoleConfig : taille du pool et plage de précision (nil = 0 m).
type RoleConfig struct {
	Count    int
	Accuracy *models.AccuracyRange
}

// Scenario est immuable une fois validé.
type Scenario struct {
	TaxRate              float64
	DetectionProbability float64
	Location             *time.Location
	Hours                map[time.Weekday]calendar.Hours
	Holidays             []time.Time
	SpecialDays          []time.Time
	Areas                map[models.AreaID]geometry.Polygon
	Roles                map[models.Role]RoleConfig
}

func rect(lat1, lon1, lat2, lon2 float64) geometry.Polygon {
	return geometry.Polygon{
		{Lat: lat1, Lon: lon1}, {Lat: lat1, Lon: lon2},
		{Lat: lat2, Lon: lon2}, {Lat: lat2, Lon: lon1},
	}
}

func acc(min, max float64) *models.AccuracyRange {
	return &models.AccuracyRange{Min: min, Max: max}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Default renvoie le scénario de référence du supermarché.
// Les polygones sont des rectangles de substitution.
func Default() *Scenario {
	std := calendar.Hours{Open: calendar.Clock{Hour: 7, Minute: 30}, Close: calendar.Clock{Hour: 21}}
	late := calendar.Hours{Open: calendar.Clock{Hour: 7, Minute: 30}, Close: calendar.Clock{Hour: 22}}

	return &Scenario{
		TaxRate:              0.18,
		DetectionProbability: 0.4,
		Location:             time.UTC,
		Hours: map[time.Weekday]calendar.Hours{
			time.Sunday:    std,
			time.Monday:    std,
			time.Tuesday:   std,
			time.Wednesday: late,
			time.Thursday:  late,
			time.Friday:    {Open: calendar.Clock{Hour: 7}, Close: calendar.Clock{Hour: 15}},
		},
		Holidays:    []time.Time{day(2024, 1, 23), day(2024, 5, 26)},
		SpecialDays: []time.Time{day(2024, 1, 21), day(2024, 1, 26)},
		Areas: map[models.AreaID]geometry.Polygon{
			models.AreaParking:       rect(32.070, 34.780, 32.075, 34.786),
			models.AreaSupermarket:   rect(32.0702, 34.7802, 32.0748, 34.7858),
			models.AreaCashRegisters: rect(32.0740, 34.7850, 32.0748, 34.7858),
			models.AreaButchery:      rect(32.0725, 34.7835, 32.0735, 34.7845),
			models.AreaWarehouse:     rect(32.0702, 34.7802, 32.0710, 34.7810),
			models.AreaHeadOffice:    rect(32.0736, 34.7845, 32.0740, 34.7850),
		},
		Roles: map[models.Role]RoleConfig{
			models.RoleManager:             {Count: 1, Accuracy: acc(5, 15)},
			models.RoleCashier:             {Count: 15, Accuracy: acc(3, 8)},
			models.RoleButcher:             {Count: 4, Accuracy: acc(3, 8)},
			models.RoleDeliveryWorker:      {Count: 8, Accuracy: acc(5, 15)},
			models.RoleGeneralWorker:       {Count: 10, Accuracy: acc(4, 12)},
			models.RoleSeniorGeneralWorker: {Count: 1, Accuracy: acc(4, 10)},
			models.RoleSecurityGuard:       {Count: 4, Accuracy: acc(15, 40)},
			models.RoleRepeatCustomer:      {Count: 100, Accuracy: acc(5, 20)},
			models.RoleOneTimeCustomer:     {Count: 400, Accuracy: acc(5, 20)},
			models.RoleNoPhone:             {Count: 300},
			models.RoleNotPaying:           {Count: 300, Accuracy: acc(5, 25)},
		},
	}
}

// Validate vérifie les contraintes du scénario.
func (s *Scenario) Validate() error {
	if s.TaxRate < 0 || s.TaxRate >= 1 {
		return errors.Errorf("tax_rate hors de [0, 1): %v", s.TaxRate)
	}
	if s.DetectionProbability <= 0 || s.DetectionProbability > 1 {
		return errors.Errorf("detection_probability hors de (0, 1]: %v", s.DetectionProbability)
	}
	if s.Location == nil {
		return errors.New("fuseau horaire manquant")
	}
	for wd, h := range s.Hours {
		if !h.Open.On(day(2024, 1, 1)).Before(h.Close.On(day(2024, 1, 1))) {
			return errors.Errorf("horaires %s: ouverture %s >= fermeture %s", wd, h.Open, h.Close)
		}
	}
	for _, id := range models.Areas {
		poly, ok := s.Areas[id]
		if !ok {
			return errors.Errorf("polygone manquant pour la zone %s", id)
		}
		if len(poly) < 3 {
			return errors.Errorf("polygone %s: %d sommets (minimum 3)", id, len(poly))
		}
	}
	for _, r := range models.Roles {
		rc, ok := s.Roles[r]
		if !ok || rc.Count < 1 {
			return errors.Errorf("pool vide pour le rôle %s", r)
		}
		if rc.Accuracy != nil && rc.Accuracy.Min > rc.Accuracy.Max {
			return errors.Errorf("précision %s: min %v > max %v", r, rc.Accuracy.Min, rc.Accuracy.Max)
		}
	}
	return nil
}

func (s *Scenario) Calendar() *calendar.Calendar {
	return calendar.New(s.Hours, s.inLocation(s.Holidays), s.inLocation(s.SpecialDays))
}

func (s *Scenario) inLocation(days []time.Time) []time.Time {
	out := make([]time.Time, len(days))
	for i, d := range days {
		out[i] = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.Location)
	}
	return out
}

func (s *Scenario) Geometry() *geometry.Provider {
	return geometry.NewProvider(s.Areas)
}

// Pool renvoie les identifiants du rôle : "cas_001" ... "cas_015".
func (s *Scenario) Pool(role models.Role) []string {
	n := s.Roles[role].Count
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("%s_%03d", role.IDPrefix(), i+1)
	}
	return ids
}

func (s *Scenario) Accuracy(role models.Role) *models.AccuracyRange {
	return s.Roles[role].Accuracy
}

/*
FICHIER → surcharge TOML du scénario par défaut.
*/

type fileScenario struct {
	TaxRate              *float64                  `toml:"tax_rate"`
	DetectionProbability *float64                  `toml:"detection_probability"`
	Timezone             string                    `toml:"timezone"`
	Hours                map[string]calendar.Hours `toml:"hours"`
	Holidays             []string                  `toml:"holidays"`
	SpecialDays          []string                  `toml:"special_days"`
	Areas                []fileArea                `toml:"areas"`
	Roles                map[string]fileRole       `toml:"roles"`
}

type fileArea struct {
	ID      string      `toml:"id"`
	Polygon [][]float64 `toml:"polygon"`
}

type fileRole struct {
	Count       *int     `toml:"count"`
	AccuracyMin *float64 `toml:"accuracy_min"`
	AccuracyMax *float64 `toml:"accuracy_max"`
	NoAccuracy  bool     `toml:"no_accuracy"`
}

// Load lit un fichier TOML ; path vide -> scénario par défaut.
func Load(path string) (*Scenario, error) {
	if path == "" {
		s := Default()
		return s, s.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "lecture du scénario")
	}
	s, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "scénario %s", path)
	}
	return s, nil
}

// Parse applique le contenu TOML par-dessus Default().
func Parse(data []byte) (*Scenario, error) {
	var f fileScenario
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "toml")
	}

	s := Default()
	if f.TaxRate != nil {
		s.TaxRate = *f.TaxRate
	}
	if f.DetectionProbability != nil {
		s.DetectionProbability = *f.DetectionProbability
	}
	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return nil, errors.Wrapf(err, "timezone %q", f.Timezone)
		}
		s.Location = loc
	}
	if len(f.Hours) > 0 {
		s.Hours = make(map[time.Weekday]calendar.Hours, len(f.Hours))
		for name, h := range f.Hours {
			wd, err := parseWeekday(name)
			if err != nil {
				return nil, err
			}
			s.Hours[wd] = h
		}
	}
	if f.Holidays != nil {
		days, err := parseDates(f.Holidays)
		if err != nil {
			return nil, errors.Wrap(err, "holidays")
		}
		s.Holidays = days
	}
	if f.SpecialDays != nil {
		days, err := parseDates(f.SpecialDays)
		if err != nil {
			return nil, errors.Wrap(err, "special_days")
		}
		s.SpecialDays = days
	}
	for _, a := range f.Areas {
		poly := make(geometry.Polygon, 0, len(a.Polygon))
		for _, v := range a.Polygon {
			if len(v) != 2 {
				return nil, errors.Errorf("zone %s: sommet %v (attendu [lat, lon])", a.ID, v)
			}
			poly = append(poly, models.Point{Lat: v[0], Lon: v[1]})
		}
		id := models.AreaID(strings.ToUpper(a.ID))
		if !knownArea(id) {
			return nil, errors.Wrapf(geometry.ErrUnknownArea, "%q", a.ID)
		}
		s.Areas[id] = poly
	}
	for name, fr := range f.Roles {
		role := models.Role(strings.ToLower(name))
		rc, ok := s.Roles[role]
		if !ok {
			return nil, errors.Errorf("rôle inconnu %q", name)
		}
		if fr.Count != nil {
			rc.Count = *fr.Count
		}
		switch {
		case fr.NoAccuracy:
			rc.Accuracy = nil
		case fr.AccuracyMin != nil || fr.AccuracyMax != nil:
			r := models.AccuracyRange{}
			if rc.Accuracy != nil {
				r = *rc.Accuracy
			}
			if fr.AccuracyMin != nil {
				r.Min = *fr.AccuracyMin
			}
			if fr.AccuracyMax != nil {
				r.Max = *fr.AccuracyMax
			}
			rc.Accuracy = &r
		}
		s.Roles[role] = rc
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func knownArea(id models.AreaID) bool {
	for _, a := range models.Areas {
		if a == id {
			return true
		}
	}
	return false
}

func parseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, nil
		}
	}
	return 0, errors.Errorf("jour de semaine inconnu %q", name)
}

func parseDates(in []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(in))
	for _, s := range in {
		d, err := calendar.ParseDate(s, time.UTC)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
