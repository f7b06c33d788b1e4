package domain

// Payment is one billing transaction as reported by the payments endpoints.
type Payment struct {
	ID       string  `json:"id"`
	UserID   string  `json:"userId"`
	PlanName string  `json:"planName,omitempty"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency,omitempty"`
	Status   string  `json:"status"`
	Date     string  `json:"date,omitempty"`
}

type PaymentPage struct {
	Payments   []Payment  `json:"payments"`
	Pagination Pagination `json:"pagination"`
}

// PaymentStatusSummary groups payment counts by terminal status.
type PaymentStatusSummary struct {
	Succeeded int `json:"succeeded"`
	Pending   int `json:"pending"`
	Failed    int `json:"failed"`
	Refunded  int `json:"refunded"`
}
