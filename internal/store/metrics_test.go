package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeMentalLoadEmpty(t *testing.T) {
	t.Parallel()
	m := ComputeMentalLoad(nil)
	require.Equal(t, 10, m.Score)
	require.Equal(t, 0, m.PendingCount)
	require.Equal(t, 0, m.UrgentCount)
	require.Equal(t, 0.0, m.TotalExpenses)
	require.Equal(t, 285.0, m.SavingsPotential)
}

func TestComputeMentalLoadScore(t *testing.T) {
	t.Parallel()
	items := []Item{
		{Status: StatusPending},
		{Status: StatusUrgent},
		{Status: StatusCompleted},
	}
	m := ComputeMentalLoad(items)
	require.Equal(t, 2*15+10, m.Score)
	require.Equal(t, 1, m.PendingCount)
	require.Equal(t, 1, m.UrgentCount)
}

func TestComputeMentalLoadScoreClamped(t *testing.T) {
	t.Parallel()
	// 7 open items would score 115; clamp at 100
	var items []Item
	for i := 0; i < 7; i++ {
		items = append(items, Item{Status: StatusPending})
	}
	require.Equal(t, 100, ComputeMentalLoad(items).Score)
}

func TestComputeMentalLoadExpenses(t *testing.T) {
	t.Parallel()
	items := []Item{
		{Status: StatusPending, Amount: amt(142.50)},
		{Status: StatusCompleted, Amount: amt(17.99)},
		{Status: StatusUrgent}, // absent amount counts as zero
	}
	m := ComputeMentalLoad(items)
	require.InDelta(t, 160.49, m.TotalExpenses, 1e-9)
}

func TestExpensesAddRemoveRoundTrip(t *testing.T) {
	t.Parallel()
	s := New()
	s.CreateItem(ItemDraft{Title: "EDF", Amount: amt(142.50)})
	before := s.MentalLoad().TotalExpenses

	zero := s.CreateItem(ItemDraft{Title: "Gratuit", Amount: amt(0)})
	require.Equal(t, before, s.MentalLoad().TotalExpenses)

	require.NoError(t, s.DeleteItem(zero.ID))
	require.Equal(t, before, s.MentalLoad().TotalExpenses)
}
