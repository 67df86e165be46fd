package simulator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermarket-sim/pkg/calendar"
	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
	"supermarket-sim/pkg/sales"
	"supermarket-sim/pkg/scenario"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func run(t *testing.T, start, end time.Time, seed int64) *Result {
	t.Helper()
	res, err := Run(scenario.Default(), models.RunConfig{Start: start, End: end, Seed: seed})
	require.NoError(t, err)
	return res
}

func TestClosedDaysProduceNoRows(t *testing.T) {
	for _, day := range []time.Time{date(2024, 1, 27), date(2024, 1, 23)} {
		res := run(t, day, day, 7)
		assert.Empty(t, res.Pings)
		assert.Empty(t, res.Sales)
		assert.Equal(t, 1, res.Summary.Days)
		assert.Zero(t, res.Summary.OpenDays)
	}
}

func TestWednesdayScenario(t *testing.T) {
	wednesday := date(2024, 1, 24)
	res := run(t, wednesday, wednesday, 7)

	managerInOffice := false
	cashiers := map[string]bool{}
	butchers := map[string]bool{}
	for _, p := range res.Pings {
		switch p.Role {
		case models.RoleManager:
			if p.Area == models.AreaHeadOffice {
				managerInOffice = true
			}
		case models.RoleCashier:
			cashiers[p.DeviceID] = true
		case models.RoleButcher:
			butchers[p.DeviceID] = true
			assert.Equal(t, models.AreaButchery, p.Area)
			assert.False(t, p.Timestamp.Before(calendar.At(wednesday, 10, 0)))
			assert.False(t, p.Timestamp.After(calendar.At(wednesday, 19, 0)))
		}
	}
	assert.True(t, managerInOffice)
	assert.GreaterOrEqual(t, len(cashiers), 3)
	assert.Len(t, butchers, 2)

	require.NotEmpty(t, res.Sales)
	for _, s := range res.Sales {
		assert.Equal(t, sales.Round2(s.Subtotal*sales.DefaultTaxRate), s.Tax)
		assert.GreaterOrEqual(t, s.Subtotal, sales.MinSubtotal)
		assert.LessOrEqual(t, s.Subtotal, sales.MaxSubtotal)
		assert.InDelta(t, s.Subtotal+s.Tax, s.Total, 0.0051)
	}
}

func TestPingInvariantsOverAWeek(t *testing.T) {
	sc := scenario.Default()
	cal := sc.Calendar()
	geo := sc.Geometry()
	res := run(t, date(2024, 1, 21), date(2024, 1, 27), 3)

	require.NotEmpty(t, res.Pings)
	for _, p := range res.Pings {
		open, close, ok := cal.OpeningWindow(calendar.Midnight(p.Timestamp))
		require.True(t, ok, "ping on a closed day: %+v", p)
		require.False(t, p.Timestamp.Before(open))
		require.False(t, p.Timestamp.After(close))

		inside, err := geo.ContainsPoint(p.Area, models.Point{Lat: p.Lat, Lon: p.Lon})
		require.NoError(t, err)
		require.True(t, inside, "%+v", p)

		require.NotEqual(t, models.RoleNoPhone, p.Role)
	}
	assert.Equal(t, 5, res.Summary.OpenDays, "saturday and the tuesday holiday are closed")
	assert.Equal(t, len(res.Pings), res.Summary.Pings)
}

func TestNoPhoneCustomersBuyWithoutPings(t *testing.T) {
	res := run(t, date(2024, 1, 24), date(2024, 1, 24), 11)

	noPhoneSales := 0
	for _, s := range res.Sales {
		if strings.HasPrefix(s.CustomerID, models.RoleNoPhone.IDPrefix()+"_") {
			noPhoneSales++
		}
		assert.False(t, strings.HasPrefix(s.CustomerID, models.RoleNotPaying.IDPrefix()+"_"), "not-paying customer billed")
	}
	assert.GreaterOrEqual(t, noPhoneSales, 1)
	assert.Zero(t, res.Summary.PingsByRole[models.RoleNoPhone])
}

func TestDeterministicForSameSeed(t *testing.T) {
	a := run(t, date(2024, 1, 21), date(2024, 1, 26), 7)
	b := run(t, date(2024, 1, 21), date(2024, 1, 26), 7)
	assert.Equal(t, a.Pings, b.Pings)
	assert.Equal(t, a.Sales, b.Sales)

	c := run(t, date(2024, 1, 21), date(2024, 1, 26), 8)
	assert.NotEqual(t, a.Sales, c.Sales)
}

func TestEndBeforeStart(t *testing.T) {
	_, err := Run(scenario.Default(), models.RunConfig{Start: date(2024, 1, 2), End: date(2024, 1, 1)})
	assert.Error(t, err)
}

func TestRepeatVisitors(t *testing.T) {
	s := New(scenario.Default())
	ids := s.pools[models.RoleRepeatCustomer]

	assert.Empty(t, s.repeatVisitors(randx.New(1), date(2024, 1, 27), false, ids), "no rate on saturday")

	quiet := len(s.repeatVisitors(randx.New(1), date(2024, 1, 24), false, ids))
	busy := len(s.repeatVisitors(randx.New(1), date(2024, 1, 25), false, ids))
	assert.Greater(t, busy, quiet)
}

func TestDrawCohortSpecialBoost(t *testing.T) {
	s := New(scenario.Default())
	for i := int64(0); i < 20; i++ {
		n := len(s.drawCohort(randx.New(i), models.RoleNoPhone, false))
		assert.GreaterOrEqual(t, n, 15)
		assert.LessOrEqual(t, n, 25)

		boosted := len(s.drawCohort(randx.New(i), models.RoleNoPhone, true))
		assert.GreaterOrEqual(t, boosted, 20)
		assert.LessOrEqual(t, boosted, 33)
	}
}

func TestCohortCappedToPool(t *testing.T) {
	sc := scenario.Default()
	rc := sc.Roles[models.RoleNotPaying]
	rc.Count = 4
	sc.Roles[models.RoleNotPaying] = rc
	rc = sc.Roles[models.RoleCashier]
	rc.Count = 2
	sc.Roles[models.RoleCashier] = rc

	res, err := Run(sc, models.RunConfig{Start: date(2024, 1, 25), End: date(2024, 1, 25), Seed: 1})
	require.NoError(t, err)

	ids := map[string]bool{}
	for _, p := range res.Pings {
		if p.Role == models.RoleNotPaying || p.Role == models.RoleCashier {
			ids[p.DeviceID] = true
		}
	}
	assert.LessOrEqual(t, len(ids), 6)
}
