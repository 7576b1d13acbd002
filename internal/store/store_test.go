package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func amt(v float64) *float64 { return &v }

func TestCreateItemDefaults(t *testing.T) {
	t.Parallel()
	s := New()

	it := s.CreateItem(ItemDraft{})
	require.NotEmpty(t, it.ID)
	require.Equal(t, "Untitled", it.Title)
	require.Equal(t, "Unknown", it.Provider)
	require.Equal(t, "Autre", it.Category)
	require.NotEmpty(t, it.DueDate)
	require.Equal(t, StatusPending, it.Status)
	require.Nil(t, it.Amount)

	// ids are unique across creates
	other := s.CreateItem(ItemDraft{Title: "EDF"})
	require.NotEqual(t, it.ID, other.ID)
}

func TestCreateItemNewestFirst(t *testing.T) {
	t.Parallel()
	s := New()
	s.CreateItem(ItemDraft{Title: "first"})
	s.CreateItem(ItemDraft{Title: "second"})

	items := s.Items()
	require.Len(t, items, 2)
	require.Equal(t, "second", items[0].Title)
	require.Equal(t, "first", items[1].Title)
}

func TestCreateItemRejectsNegativeAmount(t *testing.T) {
	t.Parallel()
	s := New()
	it := s.CreateItem(ItemDraft{Title: "x", Amount: amt(-5)})
	require.Nil(t, it.Amount)
}

func TestUpdateItemStrict(t *testing.T) {
	t.Parallel()
	s := New()
	it := s.CreateItem(ItemDraft{Title: "Assurance"})

	it.Title = "Assurance Voiture"
	it.Status = StatusUrgent
	require.NoError(t, s.UpdateItem(it))
	require.Equal(t, "Assurance Voiture", s.Items()[0].Title)
	require.Equal(t, StatusUrgent, s.Items()[0].Status)

	// unknown id must fail loudly, not silently drop the edit
	ghost := it
	ghost.ID = "nope"
	err := s.UpdateItem(ghost)
	require.ErrorIs(t, err, ErrItemNotFound)
}

func TestDeleteItem(t *testing.T) {
	t.Parallel()
	s := New()
	it := s.CreateItem(ItemDraft{Title: "Netflix"})
	require.NoError(t, s.DeleteItem(it.ID))
	require.Empty(t, s.Items())
	require.ErrorIs(t, s.DeleteItem(it.ID), ErrItemNotFound)
}

func TestAddCategoryCaseInsensitiveDuplicate(t *testing.T) {
	t.Parallel()
	s := New()
	require.ErrorIs(t, s.AddCategory("finance"), ErrDuplicateCategory)
	require.ErrorIs(t, s.AddCategory("  Finance  "), ErrDuplicateCategory)
	require.ErrorIs(t, s.AddCategory("   "), ErrEmptyCategory)
	require.NoError(t, s.AddCategory("Travail"))
	require.Contains(t, s.Categories(), "Travail")
}

func TestRenameCategoryCascades(t *testing.T) {
	t.Parallel()
	s := New()
	s.CreateItem(ItemDraft{Title: "Mutuelle", Category: "Santé"})
	s.CreateItem(ItemDraft{Title: "Loyer", Category: "Logement"})

	require.NoError(t, s.RenameCategory("Santé", "Health"))

	cats := s.Categories()
	require.Contains(t, cats, "Health")
	require.NotContains(t, cats, "Santé")

	items := s.Items()
	require.Equal(t, "Logement", items[0].Category) // untouched
	require.Equal(t, "Health", items[1].Category)
}

func TestRenameCategoryNoOps(t *testing.T) {
	t.Parallel()
	s := New()
	require.NoError(t, s.RenameCategory("Finance", ""))
	require.NoError(t, s.RenameCategory("Finance", "Finance"))
	require.Contains(t, s.Categories(), "Finance")

	require.ErrorIs(t, s.RenameCategory("Finance", "santé"), ErrDuplicateCategory)
	require.ErrorIs(t, s.RenameCategory("Inconnue", "X"), ErrCategoryNotFound)
}

func TestDeleteCategoryGuarded(t *testing.T) {
	t.Parallel()
	s := New()
	s.CreateItem(ItemDraft{Title: "Impôt revenu", Category: "Impôts"})

	before := s.Categories()
	err := s.DeleteCategory("Impôts")
	require.ErrorIs(t, err, ErrCategoryNotEmpty)
	require.Equal(t, before, s.Categories())
	require.Len(t, s.Items(), 1)

	require.NoError(t, s.DeleteCategory("Véhicule"))
	require.NotContains(t, s.Categories(), "Véhicule")
	require.ErrorIs(t, s.DeleteCategory("Véhicule"), ErrCategoryNotFound)
}

func TestReplaceRestoresState(t *testing.T) {
	t.Parallel()
	s := New()
	s.Replace([]Item{{ID: "1", Title: "EDF", Category: "Logement"}}, []string{"Logement"})
	require.Len(t, s.Items(), 1)
	require.Equal(t, []string{"Logement"}, s.Categories())

	// nil categories fall back to defaults
	s.Replace(nil, nil)
	require.Empty(t, s.Items())
	require.Equal(t, DefaultCategories, s.Categories())
}

func TestCountByCategory(t *testing.T) {
	t.Parallel()
	s := New()
	s.CreateItem(ItemDraft{Category: "Finance"})
	s.CreateItem(ItemDraft{Category: "Finance"})
	s.CreateItem(ItemDraft{Category: "Santé"})
	require.Equal(t, 2, s.CountByCategory("Finance"))
	require.Equal(t, 0, s.CountByCategory("Véhicule"))
}
