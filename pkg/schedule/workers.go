// Package schedule produit, pour une date, les segments de visite de chaque rôle.
// Chaque règle est une fonction pure de (source aléatoire, calendrier, jour).
package schedule

import (
	"math/rand"
	"sort"
	"time"

	"supermarket-sim/pkg/calendar"
	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
)

// ShiftFunc renvoie les segments d'un rôle pour un jour ; vide si fermé.
type ShiftFunc func(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment

// Staffing décrit l'affectation des identités aux segments.
type Staffing int

const (
	// SingleActor : le premier identifiant du pool couvre tous les segments.
	SingleActor Staffing = iota
	// OnePerSegment : un identifiant distinct par segment, tirés sans remise.
	OnePerSegment
	// CrewPerSegment : Crew identifiants tirés pour chaque segment.
	CrewPerSegment
)

type WorkerRule struct {
	Role     models.Role
	Shifts   ShiftFunc
	Staffing Staffing
	Crew     int
}

// WorkerRules est parcourue dans cet ordre par le pilote.
var WorkerRules = []WorkerRule{
	{Role: models.RoleManager, Shifts: ManagerShift, Staffing: SingleActor},
	{Role: models.RoleCashier, Shifts: CashierShifts, Staffing: OnePerSegment},
	{Role: models.RoleButcher, Shifts: ButcheryShifts, Staffing: OnePerSegment},
	{Role: models.RoleDeliveryWorker, Shifts: DeliveryShifts, Staffing: CrewPerSegment, Crew: 2},
	{Role: models.RoleGeneralWorker, Shifts: GeneralWorkerShifts, Staffing: CrewPerSegment, Crew: 2},
	{Role: models.RoleSeniorGeneralWorker, Shifts: SeniorGeneralShift, Staffing: SingleActor},
	{Role: models.RoleSecurityGuard, Shifts: SecurityShift, Staffing: CrewPerSegment, Crew: 1},
}

// Lookup renvoie la règle d'un rôle employé.
func Lookup(role models.Role) (WorkerRule, bool) {
	for _, rule := range WorkerRules {
		if rule.Role == role {
			return rule, true
		}
	}
	return WorkerRule{}, false
}

func minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// appendClamped ajoute le segment borné aux horaires, s'il n'est pas vide.
func appendClamped(segs []models.Segment, cal *calendar.Calendar, day time.Time, area models.AreaID, start, end time.Time) []models.Segment {
	s, e, ok := cal.Clamp(day, start, end)
	if !ok {
		return segs
	}
	return append(segs, models.Segment{Area: area, Start: s, End: e})
}

func repeatSegment(seg models.Segment, n int) []models.Segment {
	out := make([]models.Segment, n)
	for i := range out {
		out[i] = seg
	}
	return out
}

// ManagerShift : ~08:00 -> ~17:00 au bureau, avec deux tournées de 10-20 min en magasin.
func ManagerShift(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment {
	if !cal.IsOpen(day) {
		return nil
	}
	start := calendar.At(day, 8, 0).Add(minutes(randx.IntBetween(r, -20, 30)))
	end := calendar.At(day, 17, 0).Add(minutes(randx.IntBetween(r, -30, 30)))
	s, e, ok := cal.Clamp(day, start, end)
	if !ok {
		return nil
	}

	total := int(e.Sub(s) / time.Minute)
	var tours []int
	if total > 120 {
		offsets := make([]int, 0, total-120)
		for m := 60; m < total-60; m++ {
			offsets = append(offsets, m)
		}
		tours = randx.Sample(r, offsets, 2)
		sort.Ints(tours)
	}

	var segs []models.Segment
	last := s
	for _, tp := range append(tours, total) {
		mid := s.Add(minutes(tp))
		if mid.Before(last) {
			mid = last
		}
		segs = appendClamped(segs, cal, day, models.AreaHeadOffice, last, mid)
		if tp == total {
			break
		}
		tourEnd := minTime(mid.Add(minutes(randx.IntBetween(r, 10, 20))), e)
		segs = appendClamped(segs, cal, day, models.AreaSupermarket, mid, tourEnd)
		last = tourEnd
	}
	return segs
}

// CashierShifts : 3 créneaux de 6-8 h (4 le jeudi et le vendredi),
// plus deux caisses de renfort 16:00-20:00 le jeudi et 08:00-14:00 le vendredi.
func CashierShifts(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment {
	open, close, ok := cal.OpeningWindow(day)
	if !ok {
		return nil
	}
	wd := day.Weekday()

	slots := 3
	if wd == time.Thursday || wd == time.Friday {
		slots = 4
	}
	var segs []models.Segment
	for i := 0; i < slots; i++ {
		dur := time.Duration(randx.IntBetween(r, 6, 8)) * time.Hour
		start := open.Add(time.Duration(randx.IntBetween(r, 0, 6)) * time.Hour)
		end := minTime(start.Add(dur), close)
		segs = appendClamped(segs, cal, day, models.AreaCashRegisters, start, end)
	}

	var peak []models.Segment
	switch wd {
	case time.Thursday:
		peak = appendClamped(nil, cal, day, models.AreaCashRegisters, calendar.At(day, 16, 0), calendar.At(day, 20, 0))
	case time.Friday:
		peak = appendClamped(nil, cal, day, models.AreaCashRegisters, calendar.At(day, 8, 0), calendar.At(day, 14, 0))
	}
	if len(peak) == 1 {
		segs = append(segs, repeatSegment(peak[0], 2)...)
	}
	return segs
}

// ButcheryShifts : deux bouchers simultanés, 10:00-19:00 (09:00-14:00 le vendredi).
func ButcheryShifts(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment {
	start, end := calendar.At(day, 10, 0), calendar.At(day, 19, 0)
	if day.Weekday() == time.Friday {
		start, end = calendar.At(day, 9, 0), calendar.At(day, 14, 0)
	}
	seg := appendClamped(nil, cal, day, models.AreaButchery, start, end)
	if len(seg) == 0 {
		return nil
	}
	return repeatSegment(seg[0], 2)
}

// DeliveryShifts : livraison de ~30 min vers 06:00 le lundi et le jeudi.
// Une livraison qui tomberait avant l'ouverture est décalée à l'ouverture,
// le décalage aléatoire étant conservé en valeur absolue.
func DeliveryShifts(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment {
	wd := day.Weekday()
	if wd != time.Monday && wd != time.Thursday {
		return nil
	}
	open, _, ok := cal.OpeningWindow(day)
	if !ok {
		return nil
	}
	jitter := randx.IntBetween(r, -10, 10)
	start := calendar.At(day, 6, 0).Add(minutes(jitter))
	if start.Before(open) {
		if jitter < 0 {
			jitter = -jitter
		}
		start = open.Add(minutes(jitter))
	}
	return appendClamped(nil, cal, day, models.AreaWarehouse, start, start.Add(30*time.Minute))
}

// GeneralWorkerShifts : en magasin de 08:00 à 20:00 (22:00 le jeudi, 15:00 le vendredi).
func GeneralWorkerShifts(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment {
	endHour := 20
	switch day.Weekday() {
	case time.Thursday:
		endHour = 22
	case time.Friday:
		endHour = 15
	}
	return appendClamped(nil, cal, day, models.AreaSupermarket, calendar.At(day, 8, 0), calendar.At(day, endHour, 0))
}

// SeniorGeneralShift : 06:30 -> 20:00, dès 06:00 les jours de livraison.
func SeniorGeneralShift(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment {
	startMin := 30
	if wd := day.Weekday(); wd == time.Monday || wd == time.Thursday {
		startMin = 0
	}
	return appendClamped(nil, cal, day, models.AreaSupermarket, calendar.At(day, 6, startMin), calendar.At(day, 20, 0))
}

// SecurityShift : toute la plage d'ouverture, au parking.
func SecurityShift(r *rand.Rand, cal *calendar.Calendar, day time.Time) []models.Segment {
	open, close, ok := cal.OpeningWindow(day)
	if !ok {
		return nil
	}
	return []models.Segment{{Area: models.AreaParking, Start: open, End: close}}
}
