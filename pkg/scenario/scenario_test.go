package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermarket-sim/pkg/calendar"
	"supermarket-sim/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	require.NoError(t, s.Validate())
	assert.InDelta(t, 0.18, s.TaxRate, 1e-9)

	cal := s.Calendar()
	assert.False(t, cal.IsOpen(time.Date(2024, 1, 27, 0, 0, 0, 0, time.UTC)), "saturday")
	assert.False(t, cal.IsOpen(time.Date(2024, 1, 23, 0, 0, 0, 0, time.UTC)), "holiday")
	assert.True(t, cal.IsSpecial(time.Date(2024, 1, 26, 0, 0, 0, 0, time.UTC)))
}

func TestPool(t *testing.T) {
	s := Default()
	ids := s.Pool(models.RoleCashier)
	require.Len(t, ids, 15)
	assert.Equal(t, "cas_001", ids[0])
	assert.Equal(t, "cas_015", ids[14])

	assert.Equal(t, []string{"man_001"}, s.Pool(models.RoleManager))
	assert.Nil(t, s.Accuracy(models.RoleNoPhone))
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
tax_rate = 0.17
detection_probability = 0.5
holidays = ["2024-01-01"]

[hours.wednesday]
open = "08:00"
close = "20:00"

[[areas]]
id = "parking"
polygon = [[1.0, 1.0], [1.0, 2.0], [2.0, 2.0]]

[roles.cashier]
count = 5
accuracy_max = 9.5

[roles.security_guard]
no_accuracy = true
`)
	s, err := Parse(data)
	require.NoError(t, err)

	assert.InDelta(t, 0.17, s.TaxRate, 1e-9)
	assert.InDelta(t, 0.5, s.DetectionProbability, 1e-9)
	require.Len(t, s.Hours, 1, "an hours table replaces the weekly rules")
	assert.Equal(t, calendar.Clock{Hour: 8}, s.Hours[time.Wednesday].Open)
	assert.Len(t, s.Areas[models.AreaParking], 3)
	assert.Equal(t, 5, s.Roles[models.RoleCashier].Count)
	assert.Equal(t, models.AccuracyRange{Min: 3, Max: 9.5}, *s.Roles[models.RoleCashier].Accuracy)
	assert.Nil(t, s.Roles[models.RoleSecurityGuard].Accuracy)

	cal := s.Calendar()
	assert.False(t, cal.IsOpen(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsOpen(time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)), "sunday dropped from the table")
}

func TestParseRejectsBadInput(t *testing.T) {
	cases := map[string]string{
		"tax":       `tax_rate = 1.5`,
		"polygon":   "[[areas]]\nid = \"butchery\"\npolygon = [[1.0, 1.0], [2.0, 2.0]]",
		"area":      "[[areas]]\nid = \"roof\"\npolygon = [[1.0, 1.0], [1.0, 2.0], [2.0, 2.0]]",
		"role":      "[roles.astronaut]\ncount = 1",
		"empty":     "[roles.butcher]\ncount = 0",
		"weekday":   "[hours.funday]\nopen = \"08:00\"\nclose = \"09:00\"",
		"inverted":  "[hours.monday]\nopen = \"18:00\"\nclose = \"09:00\"",
		"holiday":   `holidays = ["01/01/2024"]`,
		"timezone":  `timezone = "Mars/Olympus"`,
		"malformed": `tax_rate = `,
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.toml")
	require.NoError(t, os.WriteFile(path, []byte("tax_rate = 0.17\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.InDelta(t, 0.17, s.TaxRate, 1e-9)

	s, err = Load("")
	require.NoError(t, err)
	assert.InDelta(t, 0.18, s.TaxRate, 1e-9)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
