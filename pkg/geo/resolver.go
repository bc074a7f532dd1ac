// Package geo resolves geolocation samples to one representative coordinate
// per postal-code prefix. The presentation layer joins the result against
// customer zip prefixes to place map markers; no plotting or network I/O
// happens here.
package geo

import (
	"github.com/ecomlabs/orderlake/pkg/dataset"
)

// Point is a latitude/longitude pair in decimal degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Resolve maps every distinct zip prefix to the centroid of its samples.
// Averaging is preferred over first-seen because individual samples are
// noisy. Samples without a prefix are skipped; empty input yields an empty
// map.
func Resolve(points []dataset.GeoPoint) map[string]Point {
	type acc struct {
		lat, lng float64
		n        int
	}
	sums := make(map[string]*acc)
	for _, p := range points {
		if p.ZipPrefix == "" {
			continue
		}
		a, ok := sums[p.ZipPrefix]
		if !ok {
			a = &acc{}
			sums[p.ZipPrefix] = a
		}
		a.lat += p.Latitude
		a.lng += p.Longitude
		a.n++
	}

	out := make(map[string]Point, len(sums))
	for prefix, a := range sums {
		out[prefix] = Point{
			Latitude:  a.lat / float64(a.n),
			Longitude: a.lng / float64(a.n),
		}
	}
	return out
}
