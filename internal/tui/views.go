package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mchv/adminpilot/internal/store"
)

func (a *App) View() string {
	var body string
	switch a.state {
	case viewInventory:
		body = a.renderInventory()
	case viewInsights:
		body = a.renderInsights()
	case viewCategories:
		body = a.renderCategories()
	default:
		body = a.renderDashboard()
	}
	if a.modal != modalNone {
		body += "\n\n" + a.renderModal()
	}
	return body
}

func (a *App) renderDashboard() string {
	title := titleStyle.Render("AdminPilot - Tableau de bord")
	load := a.store.MentalLoad()

	body := fmt.Sprintf("Charge mentale: %d/100\nEn attente: %d  Urgent: %d\nDépenses totales: %.2f %s  Économies potentielles: %.0f %s/mois",
		load.Score, load.PendingCount, load.UrgentCount,
		load.TotalExpenses, a.currency, load.SavingsPotential, a.currency)

	advisory := a.advisory
	if a.loading {
		advisory = a.spin.View() + " analyse en cours..."
	}
	body += "\n\nConseil: " + advisory

	body += "\n\nDernières lignes:"
	shown := a.items
	if len(shown) > 5 {
		shown = shown[:5]
	}
	if len(shown) == 0 {
		body += "\n  (aucune ligne)"
	}
	for _, it := range shown {
		body += "\n- " + a.itemLine(it)
	}
	body += "\n\n[a] Ajouter  [i] Inventaire  [s] Conseils  [c] Catégories  [r] Actualiser IA  [q] Quitter"
	if a.status != "" {
		body += "\n" + a.status
	}
	return fmt.Sprintf("%s\n%s", title, body)
}

func (a *App) renderInventory() string {
	title := titleStyle.Render("Inventaire")
	out := title + "\n"
	if len(a.items) == 0 {
		out += "(aucune ligne - [a] pour ajouter, [x] pour analyser un texte)\n"
	}
	for i, it := range a.items {
		marker := " "
		if i == a.itemCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %s\n", marker, a.itemLine(it))
	}
	out += "[a] Ajouter  [x] Analyser texte  [f] Analyser fichier  [enter] Modifier  [del] Supprimer  [d] Tableau de bord  [q] Quitter"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) itemLine(it store.Item) string {
	amount := "     -  "
	if it.Amount != nil {
		amount = fmt.Sprintf("%8.2f", *it.Amount)
	}
	line := fmt.Sprintf("%-30s  %-16s  %-12s  %s  %s %s  [%s]",
		truncate(it.Title, 30), truncate(it.Provider, 16), truncate(it.Category, 12),
		a.formatDate(it.DueDate), amount, a.currency, it.Status)
	switch it.Status {
	case store.StatusUrgent:
		return urgentStyle.Render(line)
	case store.StatusCompleted:
		return doneStyle.Render(line)
	default:
		return line
	}
}

func (a *App) renderInsights() string {
	title := titleStyle.Render("Conseils & Offres")
	out := title + "\n"
	out += "Conseil: " + a.advisory + "\n\n"
	switch {
	case a.loading:
		out += a.spin.View() + " recherche des meilleures offres...\n"
	case len(a.insights) == 0:
		out += "(aucune offre trouvée - [r] pour relancer la recherche)\n"
	}
	for _, ins := range a.insights {
		out += fmt.Sprintf("[%s] %s\n", ins.Type, ins.Title)
		if ins.Description != "" {
			out += "    " + ins.Description + "\n"
		}
		if ins.Savings != "" {
			out += "    Économie estimée: " + ins.Savings + "\n"
		}
		if ins.URL != "" {
			out += "    " + ins.URL + "\n"
		}
	}
	out += "\n[r] Actualiser  [d] Tableau de bord  [i] Inventaire  [q] Quitter"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderCategories() string {
	title := titleStyle.Render("Catégories")
	out := title + "\n"
	for i, c := range a.categories {
		marker := " "
		if i == a.catCursor {
			marker = "▶"
		}
		out += fmt.Sprintf("%s %-20s (%d ligne(s))\n", marker, c, a.store.CountByCategory(c))
	}
	out += "[n] Nouvelle  [enter] Renommer  [del] Supprimer  [d] Tableau de bord  [q] Quitter"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderModal() string {
	switch a.modal {
	case modalItemForm:
		return a.renderForm()
	case modalConfirmDelete:
		return titleStyle.Render("Supprimer cette ligne ?") + "\n[y] Oui  [n] Non"
	case modalConfirmCatDel:
		return titleStyle.Render(fmt.Sprintf("Supprimer la catégorie %q ?", a.deletingCat)) + "\n[y] Oui  [n] Non"
	case modalNewCategory:
		return titleStyle.Render("Nouvelle catégorie") + fmt.Sprintf("\n%s\n[enter] Enregistrer  [esc] Annuler", a.inputBuffer)
	case modalRenameCat:
		return titleStyle.Render("Renommer la catégorie") + fmt.Sprintf("\n%s\n[enter] Enregistrer  [esc] Annuler", a.inputBuffer)
	case modalAnalyzeText:
		return titleStyle.Render("Analyser un texte de document") + fmt.Sprintf("\nCollez le texte puis [enter]:\n%s\n[esc] Annuler", a.inputBuffer)
	case modalAnalyzeFile:
		return titleStyle.Render("Analyser un document (image/PDF)") + fmt.Sprintf("\nChemin du fichier: %s\n[enter] Analyser  [esc] Annuler", a.inputBuffer)
	default:
		return ""
	}
}

// formatDate renders a stored YYYY-MM-DD date in the configured display
// format. Anything that does not parse is shown as-is.
func (a *App) formatDate(s string) string {
	if s == "" || a.dateFormat == "" {
		return s
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return s
	}
	return t.Format(a.dateFormat)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n-1])) + "…"
}
