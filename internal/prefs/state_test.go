package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mchv/adminpilot/internal/store"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	amount := 17.99
	st := State{
		Items: []store.Item{{
			ID: "1", Title: "Abonnement Netflix", Provider: "Netflix",
			Category: "Abonnements", DueDate: "2024-11-15",
			Amount: &amount, Status: store.StatusCompleted,
		}},
		Categories: []string{"Abonnements", "Santé"},
	}
	require.NoError(t, SaveState(path, st))

	got, err := LoadState(path)
	require.NoError(t, err)
	require.Equal(t, st, got)

	// atomic write leaves no tmp file behind
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestLoadStateMissingFile(t *testing.T) {
	t.Parallel()
	got, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	require.Empty(t, got.Items)
	require.Empty(t, got.Categories)
}

func TestLoadStateCorruptFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadState(path)
	require.Error(t, err)
}
