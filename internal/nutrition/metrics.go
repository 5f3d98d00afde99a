package nutrition

// Metric identifies one tracked nutritional quantity.
type Metric string

const (
	MetricKcal    Metric = "kcal"
	MetricProtein Metric = "protein"
	MetricSugar   Metric = "sugar"
	MetricFat     Metric = "fat"
	MetricFiber   Metric = "fiber"
	MetricCarbs   Metric = "carbs"
)

// metrics holds the closed metric set in canonical order. The order is used
// everywhere: preference sorting, rendering, summation.
var metrics = []Metric{
	MetricKcal,
	MetricProtein,
	MetricSugar,
	MetricFat,
	MetricFiber,
	MetricCarbs,
}

var labels = map[Metric]string{
	MetricKcal:    "Kcal",
	MetricProtein: "Grams of protein",
	MetricSugar:   "Grams of sugar",
	MetricFat:     "Grams of fat",
	MetricFiber:   "Grams of fiber",
	MetricCarbs:   "Grams of carbs",
}

// Metrics returns the full metric set in canonical order.
func Metrics() []Metric {
	out := make([]Metric, len(metrics))
	copy(out, metrics)
	return out
}

// Valid reports whether m belongs to the closed metric set.
func (m Metric) Valid() bool {
	_, ok := labels[m]
	return ok
}

// Index returns the canonical position of m, or len(metrics) for unknown
// metrics so they sort last.
func (m Metric) Index() int {
	for i, known := range metrics {
		if known == m {
			return i
		}
	}
	return len(metrics)
}

// Label returns the human readable label for m.
func (m Metric) Label() string {
	return labels[m]
}

// Unit returns the value unit rendered directly after the number. Kcal is
// unitless, everything else is grams.
func (m Metric) Unit() string {
	if m == MetricKcal {
		return ""
	}
	return "g"
}

// Suffix returns the short word rendered after the unit, e.g. "186 kcal".
func (m Metric) Suffix() string {
	return string(m)
}
