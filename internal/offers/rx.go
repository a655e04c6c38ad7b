package offers

import (
	"github.com/shopspring/decimal"
)

// RxAdjustment is a lens price after power-band surcharges.
type RxAdjustment struct {
	BasePrice     decimal.Decimal
	AdjustedPrice decimal.Decimal
	Charges       []RxCharge
}

type bandAxis struct {
	name  string
	min   *decimal.Decimal
	max   *decimal.Decimal
	value *decimal.Decimal
}

func (b PowerBand) axes() []bandAxis {
	return []bandAxis{
		{name: "sph", min: b.SphMin, max: b.SphMax},
		{name: "cyl", min: b.CylMin, max: b.CylMax},
		{name: "add", min: b.AddMin, max: b.AddMax},
	}
}

// Matches reports whether every bounded axis holds the prescribed value, inclusive.
// Axes the band leaves open or the prescription leaves out are satisfied.
func (b PowerBand) Matches(rx Prescription) bool {
	axes := b.axes()
	axes[0].value, axes[1].value, axes[2].value = rx.Sph, rx.Cyl, rx.Add
	for _, axis := range axes {
		if axis.value == nil {
			continue
		}
		if axis.min != nil && axis.value.LessThan(*axis.min) {
			return false
		}
		if axis.max != nil && axis.value.GreaterThan(*axis.max) {
			return false
		}
	}
	return true
}

// MatchPowerBands adds the surcharge of every matching band to the lens price.
// Matching bands stack; bands are reported in the order supplied.
func MatchPowerBands(lensPrice decimal.Decimal, rx *Prescription, bands []PowerBand) RxAdjustment {
	base := roundMoney(lensPrice)
	adj := RxAdjustment{BasePrice: base, AdjustedPrice: base, Charges: []RxCharge{}}
	if rx == nil {
		return adj
	}
	for _, band := range bands {
		if !band.Matches(*rx) {
			continue
		}
		charge := roundMoney(band.ExtraCharge)
		adj.AdjustedPrice = adj.AdjustedPrice.Add(charge)
		adj.Charges = append(adj.Charges, RxCharge{
			BandID:      band.ID,
			Label:       band.Label,
			ExtraCharge: units(charge),
		})
	}
	return adj
}
