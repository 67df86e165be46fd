package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const dateLayout = "2006-01-02"

// Clock est une heure murale "HH:MM".
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock("07:30") -> Clock{7, 30}
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return Clock{}, errors.Wrapf(err, "heure invalide %q", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// UnmarshalText permet de lire "HH:MM" depuis un fichier TOML.
func (c *Clock) UnmarshalText(b []byte) error {
	parsed, err := ParseClock(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Clock) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On place l'heure sur le jour donné.
func (c Clock) On(day time.Time) time.Time {
	return At(day, c.Hour, c.Minute)
}

// Hours est la plage d'ouverture d'un jour de semaine.
type Hours struct {
	Open  Clock `toml:"open"`
	Close Clock `toml:"close"`
}

// Calendar résout l'ouverture du magasin pour une date.
// Un jour de semaine absent de la table est toujours fermé.
type Calendar struct {
	hours    map[time.Weekday]Hours
	holidays map[string]struct{}
	special  map[string]struct{}
}

func New(hours map[time.Weekday]Hours, holidays, specialDays []time.Time) *Calendar {
	c := &Calendar{
		hours:    make(map[time.Weekday]Hours, len(hours)),
		holidays: make(map[string]struct{}, len(holidays)),
		special:  make(map[string]struct{}, len(specialDays)),
	}
	for wd, h := range hours {
		c.hours[wd] = h
	}
	for _, d := range holidays {
		c.holidays[DateKey(d)] = struct{}{}
	}
	for _, d := range specialDays {
		c.special[DateKey(d)] = struct{}{}
	}
	return c
}

// IsOpen: faux pour un jour sans règle ou un jour férié.
func (c *Calendar) IsOpen(day time.Time) bool {
	if _, ok := c.holidays[DateKey(day)]; ok {
		return false
	}
	_, ok := c.hours[day.Weekday()]
	return ok
}

// IsSpecial indique un jour à forte affluence (horaires inchangés).
func (c *Calendar) IsSpecial(day time.Time) bool {
	_, ok := c.special[DateKey(day)]
	return ok
}

// OpeningWindow renvoie [ouverture, fermeture] du jour, ok=false si fermé.
func (c *Calendar) OpeningWindow(day time.Time) (open, close time.Time, ok bool) {
	if !c.IsOpen(day) {
		return time.Time{}, time.Time{}, false
	}
	h := c.hours[day.Weekday()]
	return h.Open.On(day), h.Close.On(day), true
}

// Clamp intersecte [start, end) avec la plage du jour.
// ok=false si le magasin est fermé ou si l'intersection est vide.
func (c *Calendar) Clamp(day, start, end time.Time) (time.Time, time.Time, bool) {
	open, close, ok := c.OpeningWindow(day)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if start.Before(open) {
		start = open
	}
	if end.After(close) {
		end = close
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// At(day, 8, 0) -> day à 08:00, même fuseau.
func At(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// Midnight tronque à minuit dans le fuseau de t.
func Midnight(t time.Time) time.Time {
	return At(t, 0, 0)
}

func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate("2024-01-21") dans le fuseau loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "date invalide %q (attendu YYYY-MM-DD)", s)
	}
	return t, nil
}

// DaysBetweenInclusive énumère les jours de start à end inclus.
func DaysBetweenInclusive(start, end time.Time) []time.Time {
	cur := Midnight(start)
	last := Midnight(end)
	var out []time.Time
	for !cur.After(last) {
		out = append(out, cur)
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}
