package grid

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// CosLatWeights returns the cosine-of-latitude area weight for each latitude.
func CosLatWeights(lats []float64) []float64 {
	weights := make([]float64, len(lats))
	for i, lat := range lats {
		weights[i] = math.Cos(lat * math.Pi / 180)
	}
	return weights
}

// AreaMean collapses the spatial dimensions into a series using a
// cosine-of-latitude weighted mean. Weights come from the field's own
// latitude coordinate, so sub-fields are weighted by their subset
// latitudes rather than the parent grid's.
func (f *Field) AreaMean() (*Series, error) {
	out, err := NewSeries(f.Members, f.Times)
	if err != nil {
		return nil, err
	}
	latW := CosLatWeights(f.Lats)
	ny, nx := f.NumLats(), f.NumLons()
	weights := make([]float64, ny*nx)
	for y := 0; y < ny; y++ {
		for x := 0; x < nx; x++ {
			weights[y*nx+x] = latW[y]
		}
	}
	values := make([]float64, ny*nx)
	for m := 0; m < f.NumMembers(); m++ {
		for t := range f.Times {
			for y := 0; y < ny; y++ {
				for x := 0; x < nx; x++ {
					values[y*nx+x] = f.Value(m, t, y, x)
				}
			}
			out.SetValue(stat.Mean(values, weights), m, t)
		}
	}
	return out, nil
}
