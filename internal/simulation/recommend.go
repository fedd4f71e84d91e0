package simulation

// Recommendation kinds.
const (
	RecommendInvest         = "invest"
	RecommendTargetHighRisk = "target-high-risk"
)

// Recommendation is the advisory shown next to a projection.
type Recommendation struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Recommend turns a projection into an advisory. Expanding follow-up care is
// recommended only when it pays for itself.
func Recommend(r Result) Recommendation {
	if r.NetFinancialBalance > 0 {
		return Recommendation{
			Kind:    RecommendInvest,
			Message: "Expanding follow-up care is cost-effective: avoided readmissions outweigh the added placements.",
		}
	}
	return Recommendation{
		Kind:    RecommendTargetHighRisk,
		Message: "Follow-up care costs exceed readmission savings; focus the expansion on high-risk groups only.",
	}
}
