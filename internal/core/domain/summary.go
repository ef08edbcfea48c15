package domain

import "math"

// Summary is the income/expense reduction over a wallet's transactions.
type Summary struct {
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	Balance  float64 `json:"balance"`
	Goal     float64 `json:"goal"`
	Progress float64 `json:"progress"` // percent of goal reached, capped at 100
	Count    int     `json:"count"`
}

// Summarize reduces txs into totals. Amounts are summed in whole cents.
// Entries of unknown type are counted but not summed.
func Summarize(txs []Transaction, goal float64) Summary {
	var income, expense int64
	for _, t := range txs {
		cents := toCents(t.Amount)
		switch t.Type {
		case Income:
			income += cents
		case Expense:
			expense += cents
		}
	}

	s := Summary{
		Income:  fromCents(income),
		Expense: fromCents(expense),
		Balance: fromCents(income - expense),
		Goal:    goal,
		Count:   len(txs),
	}
	if goal > 0 && s.Balance > 0 {
		s.Progress = math.Min(s.Balance/goal*100, 100)
	}
	return s
}

func toCents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func fromCents(cents int64) float64 {
	return float64(cents) / 100
}
