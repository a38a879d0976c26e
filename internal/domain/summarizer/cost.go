package summarizer

import "math"

// Currency of all cost estimates.
const Currency = "USD"

// Direction distinguishes prompt tokens from generated tokens.
type Direction string

const (
	DirectionInput  Direction = "input"
	DirectionOutput Direction = "output"
)

// Pricing holds per-token rates.
type Pricing struct {
	InputPerToken  float64
	OutputPerToken float64
}

// DefaultPricing matches the rates the service has always quoted.
var DefaultPricing = Pricing{InputPerToken: 0.001, OutputPerToken: 0.002}

func (p Pricing) rate(dir Direction) float64 {
	if dir == DirectionOutput {
		return p.OutputPerToken
	}
	return p.InputPerToken
}

// Cost prices a token count in the given direction, rounded to precision digits.
func (p Pricing) Cost(tokens int, dir Direction, precision int) float64 {
	return roundTo(p.rate(dir)*float64(tokens), precision)
}

func roundTo(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow10(precision)
	return math.Round(v*scale) / scale
}
