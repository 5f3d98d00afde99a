package nutrition

import (
	"math"
	"strconv"
	"strings"
)

// Vector is a complete per-metric numeric mapping. All six metrics are always
// present; JSON records missing a key decode that metric as 0, so a decoded
// vector is canonical by construction.
type Vector struct {
	Kcal    float64 `json:"kcal"`
	Protein float64 `json:"protein"`
	Sugar   float64 `json:"sugar"`
	Fat     float64 `json:"fat"`
	Fiber   float64 `json:"fiber"`
	Carbs   float64 `json:"carbs"`
}

// Value returns the amount stored for m.
func (v Vector) Value(m Metric) float64 {
	switch m {
	case MetricKcal:
		return v.Kcal
	case MetricProtein:
		return v.Protein
	case MetricSugar:
		return v.Sugar
	case MetricFat:
		return v.Fat
	case MetricFiber:
		return v.Fiber
	case MetricCarbs:
		return v.Carbs
	}
	return 0
}

// Set stores amount for m. Unknown metrics are ignored.
func (v *Vector) Set(m Metric, amount float64) {
	switch m {
	case MetricKcal:
		v.Kcal = amount
	case MetricProtein:
		v.Protein = amount
	case MetricSugar:
		v.Sugar = amount
	case MetricFat:
		v.Fat = amount
	case MetricFiber:
		v.Fiber = amount
	case MetricCarbs:
		v.Carbs = amount
	}
}

// Plus returns the metric-wise sum of v and other.
func (v Vector) Plus(other Vector) Vector {
	var sum Vector
	for _, m := range metrics {
		sum.Set(m, v.Value(m)+other.Value(m))
	}
	return sum
}

// Scale returns v with every metric multiplied by factor.
func (v Vector) Scale(factor float64) Vector {
	var out Vector
	for _, m := range metrics {
		out.Set(m, v.Value(m)*factor)
	}
	return out
}

// Rounded returns v with every metric rounded half away from zero.
func (v Vector) Rounded() Vector {
	var out Vector
	for _, m := range metrics {
		out.Set(m, math.Round(v.Value(m)))
	}
	return out
}

// IsZero reports whether every metric is exactly 0.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Sum adds up all vectors. The empty set sums to the zero vector.
func Sum(vectors ...Vector) Vector {
	var sum Vector
	for _, v := range vectors {
		sum = sum.Plus(v)
	}
	return sum
}

// AmountsForWeight derives the absolute amounts consumed when eating the
// given grams of a food described by a per-100g profile. Every metric is
// rounded half away from zero, so 50g of a profile with 1g sugar yields 1,
// not 0.
func AmountsForWeight(profile Vector, grams float64) Vector {
	var out Vector
	for _, m := range metrics {
		out.Set(m, math.Round(grams*profile.Value(m)/100))
	}
	return out
}

// ParseAmount converts free-form numeric input to a float. Empty or
// non-numeric text counts as 0, never as an error.
func ParseAmount(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseVector builds a vector from per-metric textual input, coercing
// unparseable fields to 0.
func ParseVector(fields map[Metric]string) Vector {
	var out Vector
	for _, m := range metrics {
		out.Set(m, ParseAmount(fields[m]))
	}
	return out
}

// DisplayNumbers formats a vector for fixed-width numeric display: every
// metric is rounded, then left-padded with '0' to the width of the widest
// rounded value so digit changes never shift the layout.
func DisplayNumbers(v Vector) map[Metric]string {
	rounded := v.Rounded()

	max := 0
	for _, m := range metrics {
		s := strconv.FormatFloat(rounded.Value(m), 'f', -1, 64)
		if len(s) > max {
			max = len(s)
		}
	}

	out := make(map[Metric]string, len(metrics))
	for _, m := range metrics {
		s := strconv.FormatFloat(rounded.Value(m), 'f', -1, 64)
		out[m] = strings.Repeat("0", max-len(s)) + s
	}
	return out
}
