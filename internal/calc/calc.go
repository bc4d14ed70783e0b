// Package calc implements the price-to-quantity best-fit arithmetic: given
// a unit price and a target amount, find the quantities whose total stays
// at or under the target and pick the closest fit.
package calc

import "math"

// Option is one candidate quantity.
type Option struct {
	Quantity   int     `json:"quantity"`
	Total      float64 `json:"total"`
	Difference float64 `json:"difference"`
}

// Options enumerates every quantity from the largest affordable down to 1.
// A non-positive price yields no options.
func Options(price, target float64) []Option {
	if price <= 0 {
		return nil
	}
	max := int(target / price)
	opts := make([]Option, 0, max)
	for qty := max; qty >= 1; qty-- {
		total := float64(qty) * price
		if total <= target {
			opts = append(opts, Option{
				Quantity:   qty,
				Total:      total,
				Difference: target - total,
			})
		}
	}
	return opts
}

// Best picks the option with the smallest remainder. Remainders within one
// cent are treated as ties and the smaller quantity wins.
func Best(opts []Option) *Option {
	if len(opts) == 0 {
		return nil
	}
	best := opts[0]
	for _, o := range opts[1:] {
		if math.Abs(o.Difference-best.Difference) < 0.01 {
			if o.Quantity < best.Quantity {
				best = o
			}
			continue
		}
		if o.Difference < best.Difference {
			best = o
		}
	}
	return &best
}
