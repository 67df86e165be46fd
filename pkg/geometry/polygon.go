package geometry

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"

	"supermarket-sim/pkg/models"
	"supermarket-sim/pkg/randx"
)

// MaxSampleAttempts borne le tirage par rejet dans la boîte englobante.
const MaxSampleAttempts = 1000

const edgeEpsilon = 1e-12

var ErrUnknownArea = errors.New("zone inconnue")

// Polygon est une suite de sommets (lat, lon), implicitement fermée.
type Polygon []models.Point

// Contains : test pair/impair par lancer de rayon.
func (p Polygon) Contains(pt models.Point) bool {
	x, y := pt.Lat, pt.Lon
	inside := false
	n := len(p)
	for i := 0; i < n; i++ {
		x1, y1 := p[i].Lat, p[i].Lon
		x2, y2 := p[(i+1)%n].Lat, p[(i+1)%n].Lon
		if (y1 > y) != (y2 > y) && x < (x2-x1)*(y-y1)/(y2-y1+edgeEpsilon)+x1 {
			inside = !inside
		}
	}
	return inside
}

// Bounds renvoie les coins min et max de la boîte englobante.
func (p Polygon) Bounds() (min, max models.Point) {
	if len(p) == 0 {
		return models.Point{}, models.Point{}
	}
	min = models.Point{Lat: math.Inf(1), Lon: math.Inf(1)}
	max = models.Point{Lat: math.Inf(-1), Lon: math.Inf(-1)}
	for _, v := range p {
		min.Lat = math.Min(min.Lat, v.Lat)
		min.Lon = math.Min(min.Lon, v.Lon)
		max.Lat = math.Max(max.Lat, v.Lat)
		max.Lon = math.Max(max.Lon, v.Lon)
	}
	return min, max
}

// Centroid de la boîte englobante (repli du tirage).
func (p Polygon) Centroid() models.Point {
	min, max := p.Bounds()
	return models.Point{Lat: (min.Lat + max.Lat) / 2, Lon: (min.Lon + max.Lon) / 2}
}

// Sample tire un point uniforme dans le polygone par rejet.
// Après MaxSampleAttempts échecs, renvoie le centre de la boîte englobante.
func (p Polygon) Sample(r *rand.Rand) models.Point {
	if len(p) == 0 {
		return models.Point{}
	}
	min, max := p.Bounds()
	for i := 0; i < MaxSampleAttempts; i++ {
		pt := models.Point{
			Lat: randx.Uniform(r, min.Lat, max.Lat),
			Lon: randx.Uniform(r, min.Lon, max.Lon),
		}
		if p.Contains(pt) {
			return pt
		}
	}
	return p.Centroid()
}

// Provider fournit les polygones des zones, immuables après construction.
type Provider struct {
	areas map[models.AreaID]Polygon
}

func NewProvider(areas map[models.AreaID]Polygon) *Provider {
	cp := make(map[models.AreaID]Polygon, len(areas))
	for id, poly := range areas {
		cp[id] = append(Polygon(nil), poly...)
	}
	return &Provider{areas: cp}
}

func (g *Provider) Polygon(area models.AreaID) (Polygon, error) {
	poly, ok := g.areas[area]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownArea, "%q", area)
	}
	return poly, nil
}

func (g *Provider) Has(area models.AreaID) bool {
	_, ok := g.areas[area]
	return ok
}

func (g *Provider) ContainsPoint(area models.AreaID, pt models.Point) (bool, error) {
	poly, err := g.Polygon(area)
	if err != nil {
		return false, err
	}
	return poly.Contains(pt), nil
}

func (g *Provider) SamplePoint(r *rand.Rand, area models.AreaID) (models.Point, error) {
	poly, err := g.Polygon(area)
	if err != nil {
		return models.Point{}, err
	}
	return poly.Sample(r), nil
}
