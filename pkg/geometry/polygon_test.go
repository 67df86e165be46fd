package geometry

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
)

var square = Polygon{
	{Lat: 32.070, Lon: 34.780},
	{Lat: 32.070, Lon: 34.786},
	{Lat: 32.075, Lon: 34.786},
	{Lat: 32.075, Lon: 34.780},
}

// triangle occupying half of its bounding box
var triangle = Polygon{
	{Lat: 0, Lon: 0},
	{Lat: 10, Lon: 0},
	{Lat: 0, Lon: 10},
}

func TestContains(t *testing.T) {
	assert.True(t, square.Contains(models.Point{Lat: 32.072, Lon: 34.783}))
	assert.False(t, square.Contains(models.Point{Lat: 32.080, Lon: 34.783}))
	assert.False(t, square.Contains(models.Point{Lat: 32.072, Lon: 34.790}))

	assert.True(t, triangle.Contains(models.Point{Lat: 2, Lon: 2}))
	assert.False(t, triangle.Contains(models.Point{Lat: 8, Lon: 8}))
}

func TestSampleStaysInside(t *testing.T) {
	r := randx.New(11)
	for i := 0; i < 500; i++ {
		pt := triangle.Sample(r)
		require.True(t, triangle.Contains(pt), "sampled %+v outside triangle", pt)
	}
}

func TestSampleDegenerateFallsBackToCentroid(t *testing.T) {
	r := randx.New(5)

	line := Polygon{{Lat: 1, Lon: 1}, {Lat: 3, Lon: 1}, {Lat: 5, Lon: 1}}
	assert.Equal(t, models.Point{Lat: 3, Lon: 1}, line.Sample(r))

	single := Polygon{{Lat: 2, Lon: 4}}
	assert.Equal(t, models.Point{Lat: 2, Lon: 4}, single.Sample(r))

	assert.Equal(t, models.Point{}, Polygon{}.Sample(r))
}

func TestProviderUnknownArea(t *testing.T) {
	g := NewProvider(map[models.AreaID]Polygon{models.AreaParking: square})

	_, err := g.SamplePoint(randx.New(1), models.AreaButchery)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownArea))

	ok, err := g.ContainsPoint(models.AreaParking, models.Point{Lat: 32.072, Lon: 34.783})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, g.Has(models.AreaParking))
}
