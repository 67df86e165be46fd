package simulator

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"supermarket-sim/pkg/calendar"
	"supermarket-sim/pkg/logger"
	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
	"supermarket-sim/pkg/sales"
	"supermarket-sim/pkg/sampler"
	"supermarket-sim/pkg/scenario"
	"supermarket-sim/pkg/schedule"
)

const (
	// Probabilité de venue d'un client régulier selon le jour.
	repeatBusyDayRate   = 0.7  // jeudi, vendredi
	repeatQuietDayRate  = 0.35 // dimanche -> mercredi
	repeatSpecialRescue = 0.15 // seconde chance un jour spécial

	specialDayBoost = 1.3
)

// cohortSize : bornes du tirage quotidien par rôle client.
var cohortSize = map[models.Role][2]int{
	models.RoleOneTimeCustomer: {3, 7},
	models.RoleNotPaying:       {10, 35},
	models.RoleNoPhone:         {15, 25},
}

// Result regroupe les deux tables produites.
type Result struct {
	Pings   []models.Ping
	Sales   []models.Sale
	Summary models.Summary
}

// Simulator enchaîne calendrier, plannings, échantillonnage et ventes.
type Simulator struct {
	cal     *calendar.Calendar
	sampler *sampler.Sampler
	tickets *sales.Synthesizer
	pools   map[models.Role][]string
}

func New(sc *scenario.Scenario) *Simulator {
	accuracy := make(map[models.Role]*models.AccuracyRange, len(models.Roles))
	pools := make(map[models.Role][]string, len(models.Roles))
	for _, role := range models.Roles {
		accuracy[role] = sc.Accuracy(role)
		pools[role] = sc.Pool(role)
	}
	return &Simulator{
		cal:     sc.Calendar(),
		sampler: sampler.New(sc.Geometry(), accuracy, sc.DetectionProbability),
		tickets: sales.New(sc.TaxRate),
		pools:   pools,
	}
}

// Run est un raccourci pour New(sc).Run(cfg).
func Run(sc *scenario.Scenario, cfg models.RunConfig) (*Result, error) {
	return New(sc).Run(cfg)
}

// Run simule chaque jour de [cfg.Start, cfg.End] avec une seule source aléatoire.
func (s *Simulator) Run(cfg models.RunConfig) (*Result, error) {
	if cfg.End.Before(cfg.Start) {
		return nil, errors.New("end < start")
	}
	days := calendar.DaysBetweenInclusive(cfg.Start, cfg.End)

	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = progressbar.Default(int64(len(days)), "simulation")
	} else {
		bar = progressbar.DefaultSilent(int64(len(days)))
	}

	r := randx.New(cfg.Seed)
	res := &Result{Summary: models.Summary{Days: len(days), PingsByRole: map[models.Role]int{}}}

	repeatIDs := randx.Sample(r, s.pools[models.RoleRepeatCustomer], len(s.pools[models.RoleRepeatCustomer]))

	for _, day := range days {
		_ = bar.Add(1)
		if !s.cal.IsOpen(day) {
			logger.Log.Debug("magasin fermé", zap.String("date", calendar.DateKey(day)))
			continue
		}
		res.Summary.OpenDays++

		pingsBefore, salesBefore := len(res.Pings), len(res.Sales)
		if err := s.simulateDay(r, day, repeatIDs, res); err != nil {
			return nil, errors.Wrapf(err, "simulation %s", calendar.DateKey(day))
		}
		if cfg.Verbose {
			logger.Log.Info("jour simulé",
				zap.String("date", calendar.DateKey(day)),
				zap.String("weekday", day.Weekday().String()),
				zap.Bool("special", s.cal.IsSpecial(day)),
				zap.Int("pings", len(res.Pings)-pingsBefore),
				zap.Int("sales", len(res.Sales)-salesBefore),
			)
		}
	}
	_ = bar.Finish()

	res.Summary.Pings = len(res.Pings)
	res.Summary.Sales = len(res.Sales)
	for _, p := range res.Pings {
		res.Summary.PingsByRole[p.Role]++
	}
	logger.Log.Info("simulation terminée",
		zap.Int("days", res.Summary.Days),
		zap.Int("open_days", res.Summary.OpenDays),
		zap.Int("pings", res.Summary.Pings),
		zap.Int("sales", res.Summary.Sales),
	)
	return res, nil
}

func (s *Simulator) simulateDay(r *rand.Rand, day time.Time, repeatIDs []string, res *Result) error {
	if err := s.simulateWorkers(r, day, res); err != nil {
		return err
	}

	special := s.cal.IsSpecial(day)
	visitors := []struct {
		role models.Role
		ids  []string
	}{
		{models.RoleRepeatCustomer, s.repeatVisitors(r, day, special, repeatIDs)},
		{models.RoleOneTimeCustomer, s.drawCohort(r, models.RoleOneTimeCustomer, special)},
		{models.RoleNotPaying, s.drawCohort(r, models.RoleNotPaying, special)},
	}
	noPhone := s.drawCohort(r, models.RoleNoPhone, special)

	for _, c := range visitors {
		flags := schedule.FlagsFor(c.role, special)
		for _, id := range c.ids {
			segs := schedule.PlanCustomerTrip(r, s.cal, day, flags)
			for _, seg := range segs {
				if err := s.emit(r, id, c.role, seg, res); err != nil {
					return err
				}
			}
			if err := s.checkout(r, id, flags, segs, res); err != nil {
				return err
			}
		}
	}

	// Sans téléphone : aucun ping, seulement le ticket.
	flags := schedule.FlagsFor(models.RoleNoPhone, special)
	for _, id := range noPhone {
		segs := schedule.PlanCustomerTrip(r, s.cal, day, flags)
		if err := s.checkout(r, id, flags, segs, res); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) simulateWorkers(r *rand.Rand, day time.Time, res *Result) error {
	for _, rule := range schedule.WorkerRules {
		segs := rule.Shifts(r, s.cal, day)
		if len(segs) == 0 {
			continue
		}
		pool := s.pools[rule.Role]

		switch rule.Staffing {
		case schedule.SingleActor:
			for _, seg := range segs {
				if err := s.emit(r, pool[0], rule.Role, seg, res); err != nil {
					return err
				}
			}
		case schedule.OnePerSegment:
			// pool plus petit que le nombre de segments : on ignore le surplus
			for i, id := range randx.Sample(r, pool, len(segs)) {
				if err := s.emit(r, id, rule.Role, segs[i], res); err != nil {
					return err
				}
			}
		case schedule.CrewPerSegment:
			for _, seg := range segs {
				for _, id := range randx.Sample(r, pool, rule.Crew) {
					if err := s.emit(r, id, rule.Role, seg, res); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func (s *Simulator) emit(r *rand.Rand, id string, role models.Role, seg models.Segment, res *Result) error {
	pings, err := s.sampler.Sample(r, id, role, seg)
	if err != nil {
		return err
	}
	res.Pings = append(res.Pings, pings...)
	return nil
}

// checkout émet le ticket d'un client payant passé en caisse.
func (s *Simulator) checkout(r *rand.Rand, id string, flags schedule.TripFlags, segs []models.Segment, res *Result) error {
	if !flags.Pays() {
		return nil
	}
	reg, ok := schedule.LastRegisterVisit(segs)
	if !ok {
		return nil
	}
	sale, err := s.tickets.Build(r, id, reg.End, schedule.DwellMinutes(segs))
	if err != nil {
		return err
	}
	res.Sales = append(res.Sales, sale)
	return nil
}

func (s *Simulator) repeatVisitors(r *rand.Rand, day time.Time, special bool, repeatIDs []string) []string {
	rate := 0.0
	switch day.Weekday() {
	case time.Thursday, time.Friday:
		rate = repeatBusyDayRate
	case time.Sunday, time.Monday, time.Tuesday, time.Wednesday:
		rate = repeatQuietDayRate
	}

	var today []string
	for _, id := range repeatIDs {
		comes := rate > 0 && randx.Chance(r, rate)
		if special && !comes && randx.Chance(r, repeatSpecialRescue) {
			comes = true
		}
		if comes {
			today = append(today, id)
		}
	}
	return today
}

func (s *Simulator) drawCohort(r *rand.Rand, role models.Role, special bool) []string {
	bounds := cohortSize[role]
	n := randx.IntBetween(r, bounds[0], bounds[1])
	if special {
		n = int(math.Ceil(float64(n) * specialDayBoost))
	}
	return randx.Sample(r, s.pools[role], n)
}
