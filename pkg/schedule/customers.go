package schedule

import (
	"math/rand"
	"time"

	"supermarket-sim/pkg/calendar"
	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
)

// ParkingDetectionRate : part des clients vus au parking avant d'entrer.
const ParkingDetectionRate = 0.8

// TripFlags paramètre le trajet d'un client.
type TripFlags struct {
	Repeat    bool
	NoPhone   bool
	NotPaying bool
	Special   bool
}

// Pays : passage en caisse. Un client sans téléphone paie aussi,
// il est seulement invisible pour la géolocalisation.
func (f TripFlags) Pays() bool {
	return !f.NotPaying
}

// FlagsFor renvoie les drapeaux d'un rôle client.
func FlagsFor(role models.Role, special bool) TripFlags {
	return TripFlags{
		Repeat:    role == models.RoleRepeatCustomer,
		NoPhone:   role == models.RoleNoPhone,
		NotPaying: role == models.RoleNotPaying,
		Special:   special,
	}
}

func arrivalHours(wd time.Weekday) []int {
	switch wd {
	case time.Thursday:
		return []int{10, 12, 16, 18}
	case time.Friday:
		return []int{8, 9, 11, 12, 13}
	default:
		return []int{9, 11, 13, 17}
	}
}

// PlanCustomerTrip : parking (80 %), déambulation en magasin, puis caisse si le client paie.
func PlanCustomerTrip(r *rand.Rand, cal *calendar.Calendar, day time.Time, flags TripFlags) []models.Segment {
	open, close, ok := cal.OpeningWindow(day)
	if !ok {
		return nil
	}
	wd := day.Weekday()

	arrive := calendar.At(day, randx.Choice(r, arrivalHours(wd)), randx.IntBetween(r, 0, 59))
	if earliest := open.Add(minutes(randx.IntBetween(r, 0, 60))); arrive.Before(earliest) {
		arrive = earliest
	}

	dwell := randx.IntBetween(r, 10, 90)
	if flags.Repeat && (wd == time.Thursday || wd == time.Friday) {
		dwell += randx.IntBetween(r, 15, 45)
	}
	if flags.Special {
		dwell += randx.IntBetween(r, 5, 20)
	}
	leave := minTime(arrive.Add(minutes(dwell)), close.Add(-time.Minute))

	var segs []models.Segment
	floorStart := arrive
	if randx.Chance(r, ParkingDetectionRate) {
		parkEnd := arrive.Add(minutes(randx.IntBetween(r, 2, 10)))
		segs = appendClamped(segs, cal, day, models.AreaParking, arrive, parkEnd)
		floorStart = parkEnd
	}

	roamEnd := minTime(leave.Add(-time.Minute), floorStart.Add(minutes(max(3, dwell-3))))
	payStart := floorStart
	if roamEnd.After(floorStart) {
		segs = appendClamped(segs, cal, day, models.AreaSupermarket, floorStart, roamEnd)
		payStart = roamEnd
	}

	if flags.Pays() {
		payEnd := minTime(leave, payStart.Add(minutes(randx.IntBetween(r, 2, 10))))
		segs = appendClamped(segs, cal, day, models.AreaCashRegisters, payStart, payEnd)
	}
	return segs
}

// LastRegisterVisit renvoie le dernier segment en caisse.
func LastRegisterVisit(segs []models.Segment) (models.Segment, bool) {
	for i := len(segs) - 1; i >= 0; i-- {
		if segs[i].Area == models.AreaCashRegisters {
			return segs[i], true
		}
	}
	return models.Segment{}, false
}

// DwellMinutes somme les minutes passées hors du parking.
func DwellMinutes(segs []models.Segment) int {
	total := 0
	for _, s := range segs {
		if s.Area != models.AreaParking {
			total += s.Minutes()
		}
	}
	return total
}
