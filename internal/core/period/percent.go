package period

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent is a share rounded half up to 2 decimals, rendered as a JSON number like 33.33
type Percent struct{ d decimal.Decimal }

// Percentage computes part / total * 100 through a 4 decimal intermediate; a zero total gives 0
func Percentage(part, total int64) Percent {
	if total == 0 {
		return Percent{d: decimal.Zero}
	}
	raw := decimal.NewFromInt(part).Mul(hundred).DivRound(decimal.NewFromInt(total), 4)
	return Percent{d: raw.Round(2)}
}

// Decimal exposes the rounded value
func (p Percent) Decimal() decimal.Decimal { return p.d }

// String renders with exactly two decimals
func (p Percent) String() string { return p.d.StringFixed(2) }

// MarshalJSON writes an unquoted fixed point number
func (p Percent) MarshalJSON() ([]byte, error) { return []byte(p.d.StringFixed(2)), nil }

// UnmarshalJSON accepts a number or a quoted number
func (p *Percent) UnmarshalJSON(b []byte) error { return p.d.UnmarshalJSON(b) }

// Sum adds percentages, used to check closure
func Sum(ps ...Percent) Percent {
	acc := decimal.Zero
	for _, p := range ps {
		acc = acc.Add(p.d)
	}
	return Percent{d: acc}
}
