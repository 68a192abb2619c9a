package domain

// Factor names one matching dimension.
type Factor string

const (
	FactorSize      Factor = "size"
	FactorLaycan    Factor = "laycan"
	FactorGeography Factor = "geography"
	FactorRate      Factor = "rate"
	FactorAge       Factor = "age"
	FactorCargo     Factor = "cargo"
)

// Factors returns every factor in scorer declaration order. Reasons, warnings
// and weighted sums always follow this order.
func Factors() []Factor {
	return []Factor{FactorSize, FactorLaycan, FactorGeography, FactorRate, FactorAge, FactorCargo}
}

// Weights is an immutable weight vector: methods return modified copies and
// never change the receiver.
type Weights struct {
	Size      float64 `json:"size" mapstructure:"size" yaml:"size"`
	Laycan    float64 `json:"laycan" mapstructure:"laycan" yaml:"laycan"`
	Geography float64 `json:"geography" mapstructure:"geography" yaml:"geography"`
	Rate      float64 `json:"rate" mapstructure:"rate" yaml:"rate"`
	Age       float64 `json:"age" mapstructure:"age" yaml:"age"`
	Cargo     float64 `json:"cargo" mapstructure:"cargo" yaml:"cargo"`
}

// DefaultWeights returns the fallback vector used when a caller supplies an
// all-zero vector. Size, schedule and geography dominate commercial fit.
func DefaultWeights() Weights {
	return Weights{
		Size:      0.25,
		Laycan:    0.20,
		Geography: 0.20,
		Rate:      0.15,
		Age:       0.10,
		Cargo:     0.10,
	}
}

// WeightsFromMap builds a vector from factor-name keys. Unknown keys are ignored.
func WeightsFromMap(m map[string]float64) Weights {
	var w Weights
	for _, f := range Factors() {
		if v, ok := m[string(f)]; ok {
			w = w.With(f, v)
		}
	}
	return w
}

// Get returns the weight for f, or 0 for an unknown factor.
func (w Weights) Get(f Factor) float64 {
	switch f {
	case FactorSize:
		return w.Size
	case FactorLaycan:
		return w.Laycan
	case FactorGeography:
		return w.Geography
	case FactorRate:
		return w.Rate
	case FactorAge:
		return w.Age
	case FactorCargo:
		return w.Cargo
	}
	return 0
}

// With returns a copy of w with factor f set to v.
func (w Weights) With(f Factor, v float64) Weights {
	switch f {
	case FactorSize:
		w.Size = v
	case FactorLaycan:
		w.Laycan = v
	case FactorGeography:
		w.Geography = v
	case FactorRate:
		w.Rate = v
	case FactorAge:
		w.Age = v
	case FactorCargo:
		w.Cargo = v
	}
	return w
}

// Sum adds the weights in declaration order so repeated calls produce
// bit-identical totals.
func (w Weights) Sum() float64 {
	var sum float64
	for _, f := range Factors() {
		sum += w.Get(f)
	}
	return sum
}

// Map returns the vector keyed by factor name.
func (w Weights) Map() map[string]float64 {
	out := make(map[string]float64, len(Factors()))
	for _, f := range Factors() {
		out[string(f)] = w.Get(f)
	}
	return out
}
