// Package scoring computes composite investment scores, demand indices, and
// data-quality ratios from country snapshots and city records.
//
// Missing-input policy: population and GDP per capita are floored at 1 so
// their logarithms stay defined (ln(1)=0 contribution); every other missing
// input is coerced to 0 before entering the formula. Coercion silently
// flatters incomplete countries, so the data-quality ratio is reported
// alongside the scores as a trust signal.
package scoring

import "math"

// Weights are the user-tunable nonnegative weights of the composite score.
// Inflation and Unemployment weigh negatively in the formula, so larger
// weights there mean stronger penalties.
type Weights struct {
	Population   float64 `json:"population"`
	GDPPerCapita float64 `json:"gdp_pc"`
	Inflation    float64 `json:"inflation"`
	Unemployment float64 `json:"unemployment"`
	Growth       float64 `json:"growth"`
	Risk         float64 `json:"risk"`
}

// DefaultWeights returns the default weight vector.
func DefaultWeights() Weights {
	return Weights{
		Population:   1.2,
		GDPPerCapita: 1.0,
		Inflation:    1.0,
		Unemployment: 1.0,
		Growth:       0.8,
		Risk:         0.6,
	}
}

// Composite computes the city investment-attractiveness score. Population
// and income enter logarithmically so megacities do not drown out every
// other factor. For nonnegative weights the score is monotonically
// non-decreasing in population, GDP per capita, growth, and risk score, and
// non-increasing in inflation and unemployment.
func Composite(cityPopulation *int64, gdpPerCapita, inflation, unemployment, growth, riskScore *float64, w Weights) float64 {
	popScore := lnFloor(floatOrZero64(cityPopulation))
	gdpScore := lnFloor(orZero(gdpPerCapita))
	return w.Population*popScore +
		w.GDPPerCapita*gdpScore -
		w.Inflation*orZero(inflation) -
		w.Unemployment*orZero(unemployment) +
		w.Growth*orZero(growth) +
		w.Risk*orZero(riskScore)
}

// DemandIndex is a fixed-weight market size/wealth proxy, independent of the
// investor's risk weighting.
func DemandIndex(cityPopulation *int64, density, gdpPerCapita *float64) float64 {
	return 0.5*lnFloor(floatOrZero64(cityPopulation)) +
		0.3*lnFloor(orZero(density)) +
		0.2*lnFloor(orZero(gdpPerCapita))
}

// DataQuality is the percentage of non-nil values among the expected
// indicator set.
func DataQuality(values []*float64) float64 {
	if len(values) == 0 {
		return 0
	}
	available := 0
	for _, v := range values {
		if v != nil {
			available++
		}
	}
	return float64(available) / float64(len(values)) * 100
}

// PotentialClients estimates the employable customer base of a city from
// its population, the labor force participation rate, and the unemployment
// rate. Without a city population there is no estimate; without a labor
// force rate the raw population is returned.
func PotentialClients(cityPopulation *int64, laborForce, unemployment *float64) *float64 {
	if cityPopulation == nil {
		return nil
	}
	pop := float64(*cityPopulation)
	if laborForce == nil {
		return &pop
	}
	participation := *laborForce / 100
	employmentRate := 1 - orZero(unemployment)/100
	estimate := pop * participation * employmentRate
	return &estimate
}

// RiskLevel buckets a WGI-average risk score. WGI scores run roughly -2.5
// (weak governance) to 2.5 (strong).
type RiskLevel string

const (
	RiskUnknown RiskLevel = "unknown"
	RiskLow     RiskLevel = "low"
	RiskMedium  RiskLevel = "medium"
	RiskHigh    RiskLevel = "high"
)

// ClassifyRisk maps a risk score to its level.
func ClassifyRisk(score *float64) RiskLevel {
	switch {
	case score == nil:
		return RiskUnknown
	case *score >= 1:
		return RiskLow
	case *score >= 0:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func lnFloor(v float64) float64 {
	return math.Log(math.Max(v, 1))
}

func orZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatOrZero64(v *int64) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}
