package domain

type PlanPeriod string

const (
	PeriodDaily     PlanPeriod = "DAILY"
	PeriodWeekly    PlanPeriod = "WEEKLY"
	PeriodMonthly   PlanPeriod = "MONTHLY"
	PeriodQuarterly PlanPeriod = "QUARTERLY"
	PeriodYearly    PlanPeriod = "YEARLY"
)

// SubscriptionPlan mirrors the billing provider's plan record exposed by the
// admin plan endpoints.
type SubscriptionPlan struct {
	ID            string     `json:"id"`
	PlanID        string     `json:"planId"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	Interval      int        `json:"interval"`
	Period        PlanPeriod `json:"period"`
	Description   string     `json:"description,omitempty"`
	VideoPerMonth int        `json:"videoPerMonth"`
	Duration      int        `json:"duration"`
	Workspace     int        `json:"workspace"`
	AIFeature     bool       `json:"aiFeature"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     string     `json:"createdAt,omitempty"`
	UpdatedAt     string     `json:"updatedAt,omitempty"`
}

// NewPlan carries the fields an operator supplies when creating a plan; the
// provider assigns identifiers and activation state.
type NewPlan struct {
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	Interval      int        `json:"interval"`
	Period        PlanPeriod `json:"period"`
	Description   string     `json:"description,omitempty"`
	VideoPerMonth int        `json:"videoPerMonth"`
	Duration      int        `json:"duration"`
	Workspace     int        `json:"workspace"`
	AIFeature     bool       `json:"aiFeature"`
}
