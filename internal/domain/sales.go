package domain

type RevenuePeriod string

const (
	RevenueDaily   RevenuePeriod = "daily"
	RevenueWeekly  RevenuePeriod = "weekly"
	RevenueMonthly RevenuePeriod = "monthly"
	RevenueYearly  RevenuePeriod = "yearly"
)

func (p RevenuePeriod) Valid() bool {
	switch p {
	case RevenueDaily, RevenueWeekly, RevenueMonthly, RevenueYearly:
		return true
	default:
		return false
	}
}

// SalesSummary is the headline reporting card.
type SalesSummary struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	TotalSubscriptions  int     `json:"totalSubscriptions"`
	ActiveSubscriptions int     `json:"activeSubscriptions"`
	RefundedAmount      float64 `json:"refundedAmount"`
}

// PlanGroup aggregates subscriptions and revenue per plan.
type PlanGroup struct {
	PlanName      string  `json:"planName"`
	Subscriptions int     `json:"subscriptions"`
	Revenue       float64 `json:"revenue"`
}

// FreePlanUsage reports adoption of the free tier.
type FreePlanUsage struct {
	Users          int     `json:"users"`
	VideosUploaded int     `json:"videosUploaded"`
	ConversionRate float64 `json:"conversionRate"`
}

// RevenuePoint is one bucket of the revenue-by-period series.
type RevenuePoint struct {
	Period  string  `json:"period"`
	Revenue float64 `json:"revenue"`
	Count   int     `json:"count"`
}

// StatusDistribution is one slice of the subscription-status breakdown.
type StatusDistribution struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}
