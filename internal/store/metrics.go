package store

// savingsPotential is a placeholder pending a real derivation from the
// insight list (product decision outstanding).
const savingsPotential = 285

// MentalLoad is the derived summary over the item collection. It is never
// stored; compute it fresh on every read.
type MentalLoad struct {
	Score            int     // 0..100
	PendingCount     int
	UrgentCount      int
	SavingsPotential float64 // euros/month
	TotalExpenses    float64
}

// ComputeMentalLoad maps the item collection to its mental-load snapshot.
// Score is min(100, 15 per non-completed item + 10). Absent amounts count
// as zero toward total expenses.
func ComputeMentalLoad(items []Item) MentalLoad {
	m := MentalLoad{SavingsPotential: savingsPotential}
	open := 0
	for _, it := range items {
		if it.Status != StatusCompleted {
			open++
		}
		switch it.Status {
		case StatusPending:
			m.PendingCount++
		case StatusUrgent:
			m.UrgentCount++
		}
		if it.Amount != nil {
			m.TotalExpenses += *it.Amount
		}
	}
	m.Score = open*15 + 10
	if m.Score > 100 {
		m.Score = 100
	}
	return m
}
