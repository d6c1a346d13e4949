package diff

import "renderdiff/internal/model"

// RiskBand maps ratios strictly below Max to a tier. Bands are evaluated in
// order; a ratio past every band falls through to critical.
type RiskBand struct {
	Max   float64
	Tier  model.RiskTier
	Label string
}

// DefaultRiskBands is the threshold ladder on the client-rendered ratio.
var DefaultRiskBands = []RiskBand{
	{Max: 5, Tier: model.RiskLow, Label: "content substantially present without scripting"},
	{Max: 25, Tier: model.RiskModerate, Label: "some meaningful content requires scripting"},
	{Max: 50, Tier: model.RiskHigh, Label: "significant content is script-dependent"},
}

const criticalLabel = "majority of content is script-dependent"

// Classify maps a client-rendered ratio to its risk tier using the given
// band table.
func Classify(ratio float64, bands []RiskBand) model.RiskTier {
	for _, band := range bands {
		if ratio < band.Max {
			return band.Tier
		}
	}
	return model.RiskCritical
}

// Label returns the human description of the tier under the given bands.
func Label(tier model.RiskTier, bands []RiskBand) string {
	for _, band := range bands {
		if band.Tier == tier {
			return band.Label
		}
	}
	return criticalLabel
}
