package models

const PlanFree = "free"

type Plan struct {
	Name           string `json:"name"`
	PaddlePriceID  string `json:"paddle_price_id"`
	MonthlyCredits int    `json:"monthly_credits"`
}

// PlanNameByPriceID resolves a Paddle price id to a plan name. First
// match wins; unknown price ids map to the free plan.
func PlanNameByPriceID(plans []Plan, priceID string) string {
	for _, plan := range plans {
		if plan.PaddlePriceID != "" && plan.PaddlePriceID == priceID {
			return plan.Name
		}
	}
	return PlanFree
}
