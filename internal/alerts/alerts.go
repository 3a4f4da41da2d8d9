// Package alerts evaluates indicator values against configured thresholds.
package alerts

// Evaluator holds the alert thresholds. Inflation and unemployment alert
// above their thresholds; risk alerts below (lower WGI scores mean weaker
// governance).
type Evaluator struct {
	InflationAbove    float64
	UnemploymentAbove float64
	RiskBelow         float64
}

// Flags are the per-indicator alert results of one evaluation.
type Flags struct {
	Inflation    bool `json:"inflation"`
	Unemployment bool `json:"unemployment"`
	Risk         bool `json:"risk"`
}

// Default returns an Evaluator with the default thresholds.
func Default() Evaluator {
	return Evaluator{
		InflationAbove:    10.0,
		UnemploymentAbove: 12.0,
		RiskBelow:         -0.5,
	}
}

// Evaluate checks each indicator independently. A nil value never fires its
// alert: absence of data is not a violation.
func (e Evaluator) Evaluate(inflation, unemployment, riskScore *float64) Flags {
	var f Flags
	if inflation != nil && *inflation > e.InflationAbove {
		f.Inflation = true
	}
	if unemployment != nil && *unemployment > e.UnemploymentAbove {
		f.Unemployment = true
	}
	if riskScore != nil && *riskScore < e.RiskBelow {
		f.Risk = true
	}
	return f
}

// Any reports whether any alert fired.
func (f Flags) Any() bool {
	return f.Inflation || f.Unemployment || f.Risk
}
