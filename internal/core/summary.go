package core

// DailyTotal is the derived per-day income/expense pair for a month view.
// Not persisted; one value per date that has at least one transaction.
type DailyTotal struct {
	Date    string
	Income  float64
	Expense float64
}

// CategoryStat is a ranked share of the month's expense grouped by the
// parent segment of the category.
type CategoryStat struct {
	Category   string
	Amount     float64
	Percentage float64
}
