package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mchv/adminpilot/internal/store"
)

// form field order
const (
	fieldTitle = iota
	fieldProvider
	fieldCategory
	fieldDueDate
	fieldAmount
	fieldStatus
	fieldRenewal
	fieldNotes
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Titre", "Fournisseur", "Catégorie", "Échéance (YYYY-MM-DD)",
	"Montant", "Statut", "Renouvellement (YYYY-MM-DD)", "Notes",
}

var statusCycle = []store.Status{store.StatusPending, store.StatusUrgent, store.StatusCompleted}

// itemForm is the add/edit modal state: one value per field plus a field
// cursor. Category and status cycle with left/right; the rest are typed.
type itemForm struct {
	values     [fieldCount]string
	cursor     int
	categories []string
	editingID  string // empty when creating
}

func emptyForm(categories []string) itemForm {
	var f itemForm
	f.categories = categories
	f.values[fieldStatus] = string(store.StatusPending)
	if len(categories) > 0 {
		f.values[fieldCategory] = categories[0]
	}
	return f
}

func draftForm(d store.ItemDraft, categories []string) itemForm {
	f := emptyForm(categories)
	f.values[fieldTitle] = d.Title
	f.values[fieldProvider] = d.Provider
	if d.Category != "" {
		f.values[fieldCategory] = d.Category
	}
	f.values[fieldDueDate] = d.DueDate
	if d.Amount != nil {
		f.values[fieldAmount] = strconv.FormatFloat(*d.Amount, 'f', -1, 64)
	}
	if d.Status != "" {
		f.values[fieldStatus] = string(d.Status)
	}
	f.values[fieldRenewal] = d.RenewalDate
	f.values[fieldNotes] = d.Notes
	return f
}

func itemToForm(it store.Item, categories []string) itemForm {
	f := emptyForm(categories)
	f.editingID = it.ID
	f.values[fieldTitle] = it.Title
	f.values[fieldProvider] = it.Provider
	f.values[fieldCategory] = it.Category
	f.values[fieldDueDate] = it.DueDate
	if it.Amount != nil {
		f.values[fieldAmount] = strconv.FormatFloat(*it.Amount, 'f', -1, 64)
	}
	f.values[fieldStatus] = string(it.Status)
	f.values[fieldRenewal] = it.RenewalDate
	f.values[fieldNotes] = it.Notes
	return f
}

func (a *App) openForm(f itemForm, editingID string) {
	if editingID != "" {
		f.editingID = editingID
	}
	a.form = f
	a.modal = modalItemForm
}

func (a *App) handleFormKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &a.form
	switch m.Type {
	case tea.KeyEsc:
		a.modal = modalNone
		return a, nil
	case tea.KeyUp, tea.KeyShiftTab:
		if f.cursor > 0 {
			f.cursor--
		}
		return a, nil
	case tea.KeyDown, tea.KeyTab:
		if f.cursor < fieldCount-1 {
			f.cursor++
		}
		return a, nil
	case tea.KeyLeft:
		f.cycle(-1)
		return a, nil
	case tea.KeyRight:
		f.cycle(1)
		return a, nil
	case tea.KeyEnter:
		return a.submitForm()
	case tea.KeyBackspace, tea.KeyCtrlH:
		if f.editable() && len(f.values[f.cursor]) > 0 {
			runes := []rune(f.values[f.cursor])
			f.values[f.cursor] = string(runes[:len(runes)-1])
		}
		return a, nil
	case tea.KeySpace:
		if f.editable() {
			f.values[f.cursor] += " "
		}
		return a, nil
	case tea.KeyRunes:
		if f.editable() {
			f.values[f.cursor] += string(m.Runes)
		}
		return a, nil
	}
	return a, nil
}

// editable reports whether the focused field takes free text.
func (f *itemForm) editable() bool {
	return f.cursor != fieldStatus
}

// cycle steps category or status fields through their vocabularies.
func (f *itemForm) cycle(dir int) {
	switch f.cursor {
	case fieldCategory:
		if len(f.categories) == 0 {
			return
		}
		idx := 0
		for i, c := range f.categories {
			if c == f.values[fieldCategory] {
				idx = i
				break
			}
		}
		idx = (idx + dir + len(f.categories)) % len(f.categories)
		f.values[fieldCategory] = f.categories[idx]
	case fieldStatus:
		idx := 0
		for i, s := range statusCycle {
			if string(s) == f.values[fieldStatus] {
				idx = i
				break
			}
		}
		idx = (idx + dir + len(statusCycle)) % len(statusCycle)
		f.values[fieldStatus] = string(statusCycle[idx])
	}
}

func (a *App) submitForm() (tea.Model, tea.Cmd) {
	f := &a.form

	var amount *float64
	if raw := strings.TrimSpace(f.values[fieldAmount]); raw != "" {
		raw = strings.ReplaceAll(raw, ",", ".")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			a.status = "montant invalide"
			return a, nil
		}
		amount = &v
	}

	draft := store.ItemDraft{
		Title:       f.values[fieldTitle],
		Provider:    f.values[fieldProvider],
		Category:    f.values[fieldCategory],
		DueDate:     f.values[fieldDueDate],
		Amount:      amount,
		Status:      store.Status(f.values[fieldStatus]),
		RenewalDate: f.values[fieldRenewal],
		Notes:       f.values[fieldNotes],
	}

	a.modal = modalNone
	if f.editingID == "" {
		a.store.CreateItem(draft)
		return a, a.itemsChanged("ligne ajoutée")
	}

	it := store.Item{
		ID:          f.editingID,
		Title:       strings.TrimSpace(draft.Title),
		Provider:    strings.TrimSpace(draft.Provider),
		Category:    strings.TrimSpace(draft.Category),
		DueDate:     strings.TrimSpace(draft.DueDate),
		Amount:      draft.Amount,
		Status:      draft.Status,
		RenewalDate: strings.TrimSpace(draft.RenewalDate),
		Notes:       draft.Notes,
	}
	if it.Title == "" {
		it.Title = "Untitled"
	}
	if it.Provider == "" {
		it.Provider = "Unknown"
	}
	if err := a.store.UpdateItem(it); err != nil {
		a.status = err.Error()
		return a, nil
	}
	return a, a.itemsChanged("ligne modifiée")
}

func (a *App) renderForm() string {
	f := &a.form
	heading := "Nouvelle ligne"
	if f.editingID != "" {
		heading = "Modifier la ligne"
	}
	out := titleStyle.Render(heading) + "\n"
	for i := 0; i < fieldCount; i++ {
		marker := " "
		if i == f.cursor {
			marker = "▶"
		}
		hint := ""
		if i == fieldCategory || i == fieldStatus {
			hint = " (←/→)"
		}
		out += fmt.Sprintf("%s %-28s %s%s\n", marker, fieldLabels[i]+":", f.values[i], hint)
	}
	out += "[enter] Enregistrer  [tab/↑↓] Champ  [esc] Annuler"
	return out
}
