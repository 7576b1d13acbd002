// Package tui is the single-page terminal UI: dashboard, inventory and
// insights over one owned store. The view layer only issues store commands
// and re-renders; it never mutates collections directly.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mchv/adminpilot/internal/config"
	"github.com/mchv/adminpilot/internal/prefs"
	"github.com/mchv/adminpilot/internal/service"
	"github.com/mchv/adminpilot/internal/store"
)

// Services are the AI-facing collaborators.
type Services struct {
	Analyzer  *service.Analyzer
	Refresher *service.Refresher
}

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	store    *store.Store
	services Services

	state      appState
	items      []store.Item
	categories []string
	itemCursor int
	catCursor  int

	advisory string
	insights []store.Insight
	loading  bool
	spin     spinner.Model

	modal         modalState
	form          itemForm
	inputBuffer   string
	confirmItemID string
	renamingCat   string
	deletingCat   string

	status     string
	currency   string
	dateFormat string
}

type appState string

const (
	viewDashboard  appState = "dashboard"
	viewInventory  appState = "inventory"
	viewInsights   appState = "insights"
	viewCategories appState = "categories"
)

type modalState string

const (
	modalNone          modalState = ""
	modalItemForm      modalState = "itemForm"
	modalConfirmDelete modalState = "confirmDelete"
	modalNewCategory   modalState = "newCategory"
	modalRenameCat     modalState = "renameCategory"
	modalConfirmCatDel modalState = "confirmCategoryDelete"
	modalAnalyzeText   modalState = "analyzeText"
	modalAnalyzeFile   modalState = "analyzeFile"
)

func New(ctx context.Context, cfg config.Config, st *store.Store, services Services) *App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	a := &App{
		ctx:      ctx,
		cfg:      cfg,
		store:    st,
		services: services,
		advisory:   "Analyse de votre situation en cours...",
		spin:       sp,
		currency:   cfg.UI.CurrencySymbol,
		dateFormat: cfg.UI.DateFormat,
	}
	a.syncFromStore()
	return a
}

func (a *App) Init() tea.Cmd {
	if len(a.items) == 0 {
		a.advisory = advisorEmptyText
		return nil
	}
	a.loading = true
	return tea.Batch(a.spin.Tick, a.refreshCmd())
}

// advisorEmptyText mirrors the advisor's own empty-inventory fallback so the
// dashboard is sensible before the first refresh.
const advisorEmptyText = "Votre inventaire est vide. Commencez par ajouter un document pour réduire votre charge mentale."

// syncFromStore snapshots the collections for rendering and clamps cursors.
func (a *App) syncFromStore() {
	a.items = a.store.Items()
	a.categories = a.store.Categories()
	if a.itemCursor >= len(a.items) {
		a.itemCursor = 0
	}
	if a.catCursor >= len(a.categories) {
		a.catCursor = 0
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.modal != modalNone {
			return a.handleModalKey(m)
		}
		return a.handleKey(m)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(m)
		return a, cmd

	case refreshMsg:
		// last-request-wins: a stale pair is dropped, not applied
		if !a.services.Refresher.Latest(m.Result.Gen) {
			return a, nil
		}
		a.loading = false
		if m.Result.Advisory != "" {
			a.advisory = m.Result.Advisory
		}
		a.insights = m.Result.Insights
		if m.Result.Err != nil {
			a.status = "analyse IA indisponible: réessayez plus tard"
		}
		return a, nil

	case analyzedMsg:
		a.openForm(draftForm(m.Draft, a.categories), "")
		if m.Draft.IsZero() {
			a.status = "aucune donnée exploitable - remplissez manuellement"
		} else {
			a.status = "champs pré-remplis par l'analyse"
		}
		return a, nil

	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "erreur: " + m.Error()
	}
	return a, nil
}

func (a *App) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "d":
		a.state = viewDashboard
		a.status = ""
	case "i":
		a.state = viewInventory
		a.status = ""
	case "s":
		a.state = viewInsights
		a.status = ""
	case "c":
		a.state = viewCategories
		a.status = ""
	case "r":
		if len(a.items) > 0 && !a.loading {
			a.loading = true
			return a, tea.Batch(a.spin.Tick, a.refreshCmd())
		}
	case "up", "k":
		if a.state == viewInventory && a.itemCursor > 0 {
			a.itemCursor--
		}
		if a.state == viewCategories && a.catCursor > 0 {
			a.catCursor--
		}
	case "down", "j":
		if a.state == viewInventory && a.itemCursor < len(a.items)-1 {
			a.itemCursor++
		}
		if a.state == viewCategories && a.catCursor < len(a.categories)-1 {
			a.catCursor++
		}
	case "a":
		if a.state == viewInventory || a.state == viewDashboard {
			a.openForm(emptyForm(a.categories), "")
			a.state = viewInventory
		}
	case "x":
		if a.state == viewInventory {
			a.modal = modalAnalyzeText
			a.inputBuffer = ""
		}
	case "f":
		if a.state == viewInventory {
			a.modal = modalAnalyzeFile
			a.inputBuffer = ""
		}
	case "enter", "e":
		if a.state == viewInventory && len(a.items) > 0 {
			it := a.items[a.itemCursor]
			a.openForm(itemToForm(it, a.categories), it.ID)
		}
		if a.state == viewCategories && len(a.categories) > 0 {
			a.renamingCat = a.categories[a.catCursor]
			a.inputBuffer = a.renamingCat
			a.modal = modalRenameCat
		}
	case "n":
		if a.state == viewCategories {
			a.modal = modalNewCategory
			a.inputBuffer = ""
		}
	case "backspace", "delete":
		if a.state == viewInventory && len(a.items) > 0 {
			a.confirmItemID = a.items[a.itemCursor].ID
			a.modal = modalConfirmDelete
		}
		if a.state == viewCategories && len(a.categories) > 0 {
			name := a.categories[a.catCursor]
			// guarded: a non-empty category surfaces a warning, not a delete
			if n := a.store.CountByCategory(name); n > 0 {
				a.status = fmt.Sprintf("supprimez d'abord les %d ligne(s) associée(s) à %q", n, name)
				return a, nil
			}
			a.deletingCat = name
			a.modal = modalConfirmCatDel
		}
	}
	return a, nil
}

func (a *App) handleModalKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.modal {
	case modalItemForm:
		return a.handleFormKey(m)

	case modalConfirmDelete:
		switch m.String() {
		case "y", "Y":
			id := a.confirmItemID
			a.modal = modalNone
			a.confirmItemID = ""
			if err := a.store.DeleteItem(id); err != nil {
				a.status = err.Error()
				return a, nil
			}
			return a, a.itemsChanged("ligne supprimée")
		case "n", "N", "esc":
			a.modal = modalNone
			a.confirmItemID = ""
		}

	case modalConfirmCatDel:
		switch m.String() {
		case "y", "Y":
			name := a.deletingCat
			a.modal = modalNone
			a.deletingCat = ""
			if err := a.store.DeleteCategory(name); err != nil {
				a.status = err.Error()
				return a, nil
			}
			a.syncFromStore()
			return a, tea.Batch(a.saveStateCmd(), statusCmd("catégorie supprimée"))
		case "n", "N", "esc":
			a.modal = modalNone
			a.deletingCat = ""
		}

	case modalNewCategory, modalRenameCat, modalAnalyzeText, modalAnalyzeFile:
		switch m.Type {
		case tea.KeyEsc:
			a.modal = modalNone
			a.inputBuffer = ""
			a.renamingCat = ""
		case tea.KeyEnter:
			text := strings.TrimSpace(a.inputBuffer)
			mode := a.modal
			a.modal = modalNone
			a.inputBuffer = ""
			switch mode {
			case modalNewCategory:
				if err := a.store.AddCategory(text); err != nil {
					a.status = err.Error()
					return a, nil
				}
				a.syncFromStore()
				return a, tea.Batch(a.saveStateCmd(), statusCmd("catégorie ajoutée"))
			case modalRenameCat:
				old := a.renamingCat
				a.renamingCat = ""
				if err := a.store.RenameCategory(old, text); err != nil {
					a.status = err.Error()
					return a, nil
				}
				a.syncFromStore()
				return a, tea.Batch(a.saveStateCmd(), statusCmd("catégorie renommée"))
			case modalAnalyzeText:
				if text == "" {
					a.status = "collez le texte du document"
					return a, nil
				}
				a.status = "analyse du document..."
				return a, a.analyzeTextCmd(text)
			case modalAnalyzeFile:
				if text == "" {
					a.status = "indiquez le chemin du fichier"
					return a, nil
				}
				a.status = "analyse du document..."
				return a, a.analyzeFileCmd(text)
			}
		case tea.KeyBackspace, tea.KeyCtrlH:
			if len(a.inputBuffer) > 0 {
				runes := []rune(a.inputBuffer)
				a.inputBuffer = string(runes[:len(runes)-1])
			}
		case tea.KeySpace:
			a.inputBuffer += " "
		case tea.KeyRunes:
			a.inputBuffer += string(m.Runes)
		}
	}
	return a, nil
}

// itemsChanged runs after any mutation of the item collection: persist the
// session state and fire the advisory+insights pair.
func (a *App) itemsChanged(note string) tea.Cmd {
	a.syncFromStore()
	cmds := []tea.Cmd{a.saveStateCmd(), statusCmd(note)}
	if len(a.items) > 0 {
		a.loading = true
		cmds = append(cmds, a.spin.Tick, a.refreshCmd())
	} else {
		a.loading = false
		a.advisory = advisorEmptyText
		a.insights = nil
	}
	return tea.Batch(cmds...)
}

// commands

func (a *App) refreshCmd() tea.Cmd {
	items := a.store.Items()
	return func() tea.Msg {
		return refreshMsg{Result: a.services.Refresher.Refresh(a.ctx, items)}
	}
}

func (a *App) analyzeTextCmd(text string) tea.Cmd {
	return func() tea.Msg {
		draft, err := a.services.Analyzer.AnalyzeText(a.ctx, text)
		if err != nil {
			return errMsg{err}
		}
		return analyzedMsg{Draft: draft}
	}
}

func (a *App) analyzeFileCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return errMsg{fmt.Errorf("lecture %s: %w", path, err)}
		}
		draft, err := a.services.Analyzer.AnalyzeImage(a.ctx, data, detectMime(path))
		if err != nil {
			return errMsg{err}
		}
		return analyzedMsg{Draft: draft}
	}
}

func (a *App) saveStateCmd() tea.Cmd {
	st := prefs.State{Items: a.store.Items(), Categories: a.store.Categories()}
	path := a.cfg.State.Path
	return func() tea.Msg {
		if err := prefs.SaveState(path, st); err != nil {
			return statusMsg("avertissement: sauvegarde impossible: " + err.Error())
		}
		return nil
	}
}

func statusCmd(s string) tea.Cmd {
	return func() tea.Msg { return statusMsg(s) }
}

func detectMime(path string) string {
	switch {
	case strings.HasSuffix(path, ".png"):
		return "image/png"
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(path, ".webp"):
		return "image/webp"
	case strings.HasSuffix(path, ".pdf"):
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

// messages

type refreshMsg struct {
	Result service.RefreshResult
}

type analyzedMsg struct {
	Draft store.ItemDraft
}

type statusMsg string

type errMsg struct{ error }

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
