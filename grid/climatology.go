package grid

import (
	"time"

	"github.com/ctessum/sparse"
)

// Climatology holds one mean map per calendar month, shape [12, lat, lon].
type Climatology struct {
	Lats []float64
	Lons []float64
	Data *sparse.DenseArray
}

// NewClimatology allocates a zero-filled climatology on the given grid.
func NewClimatology(lats, lons []float64) *Climatology {
	return &Climatology{
		Lats: lats,
		Lons: lons,
		Data: sparse.ZerosDense(12, len(lats), len(lons)),
	}
}

// Value reads the climatological mean for a calendar month at one grid cell.
func (c *Climatology) Value(mon time.Month, y, x int) float64 {
	return c.Data.Get(int(mon)-1, y, x)
}

// SetValue writes the climatological mean for a calendar month at one grid cell.
func (c *Climatology) SetValue(v float64, mon time.Month, y, x int) {
	c.Data.Set(v, int(mon)-1, y, x)
}
