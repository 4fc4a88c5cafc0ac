package plan

// Plan describes one subscription product.
type Plan struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Billing     string  `json:"billing"`
	Description string  `json:"description"`
}

// AvailablePlans returns the subscription products on offer.
func AvailablePlans() []Plan {
	return []Plan{
		{Name: "Premium", Price: 14.99, Currency: "USD", Billing: "monthly", Description: "All meditations, sleep stories and breathing exercises"},
		{Name: "Monthly", Price: 9.99, Currency: "USD", Billing: "monthly", Description: "Core meditation library, billed monthly"},
		{Name: "Annual", Price: 69.99, Currency: "USD", Billing: "yearly", Description: "Core meditation library, billed yearly"},
		{Name: "Sleep Plan", Price: 7.99, Currency: "USD", Billing: "monthly", Description: "Sleep stories and soundscapes only"},
		{Name: "Family Plan", Price: 19.99, Currency: "USD", Billing: "monthly", Description: "Up to 6 accounts, full library"},
	}
}

// Find returns the plan with the given name.
func Find(name string) (Plan, bool) {
	for _, p := range AvailablePlans() {
		if p.Name == name {
			return p, true
		}
	}
	return Plan{}, false
}
