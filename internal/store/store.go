// Package store owns the authoritative in-memory item and category
// collections. All mutations are synchronous and atomic from the caller's
// perspective; derived metrics are recomputed on every read.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	defaultTitle    = "Untitled"
	defaultProvider = "Unknown"
	defaultCategory = "Autre"
)

// DefaultCategories is the vocabulary seeded on first run.
var DefaultCategories = []string{
	"Finance", "Santé", "Logement", "Abonnements", "Impôts", "Véhicule", "Autre",
}

// Store holds items newest-first and an ordered category set that is unique
// under case-insensitive comparison at all times.
type Store struct {
	mu         sync.RWMutex
	items      []Item
	categories []string
	now        func() time.Time
}

func New() *Store {
	return &Store{
		categories: append([]string(nil), DefaultCategories...),
		now:        time.Now,
	}
}

// Replace swaps in restored state, e.g. from the session state file.
// A nil category list falls back to the defaults.
func (s *Store) Replace(items []Item, categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]Item(nil), items...)
	if categories == nil {
		categories = DefaultCategories
	}
	s.categories = append([]string(nil), categories...)
}

// Items returns a defensive copy, newest first.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Item(nil), s.items...)
}

// Categories returns a defensive copy in insertion order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.categories...)
}

// MentalLoad recomputes the derived snapshot from the current items.
func (s *Store) MentalLoad() MentalLoad {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeMentalLoad(s.items)
}

// CreateItem assigns a fresh id, fills defaults and prepends the item.
// Blank title/provider become "Untitled"/"Unknown", the due date defaults to
// today, the status to pending. A negative amount is treated as absent.
func (s *Store) CreateItem(draft ItemDraft) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	it := Item{
		ID:          uuid.NewString(),
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
		it.Title = defaultTitle
	}
	if it.Provider == "" {
		it.Provider = defaultProvider
	}
	if it.Category == "" {
		it.Category = defaultCategory
	}
	if it.DueDate == "" {
		it.DueDate = s.now().Format("2006-01-02")
	}
	switch it.Status {
	case StatusPending, StatusCompleted, StatusUrgent:
	default:
		it.Status = StatusPending
	}
	if it.Amount != nil && *it.Amount < 0 {
		it.Amount = nil
	}

	s.items = append([]Item{it}, s.items...)
	return it
}

// UpdateItem replaces the stored item matching item.ID.
// Returns ErrItemNotFound rather than silently dropping the edit.
func (s *Store) UpdateItem(item Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return nil
		}
	}
	return fmt.Errorf("update %q: %w", item.ID, ErrItemNotFound)
}

// DeleteItem removes the item with the given id. Confirmation is the
// caller's concern; the store operation itself is unconditional.
func (s *Store) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete %q: %w", id, ErrItemNotFound)
}

// AddCategory appends a new category label. Uniqueness is checked
// case-insensitively against the trimmed input.
func (s *Store) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findCategoryFold(name) >= 0 {
		return fmt.Errorf("%q: %w", name, ErrDuplicateCategory)
	}
	s.categories = append(s.categories, name)
	return nil
}

// RenameCategory updates the category entry and cascades the new name onto
// every item referencing the old one, under a single lock so no caller can
// observe the intermediate state. A blank or unchanged new name is a no-op.
func (s *Store) RenameCategory(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" || newName == oldName {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, c := range s.categories {
		if c == oldName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("rename %q: %w", oldName, ErrCategoryNotFound)
	}
	if j := s.findCategoryFold(newName); j >= 0 && j != idx {
		return fmt.Errorf("%q: %w", newName, ErrDuplicateCategory)
	}

	s.categories[idx] = newName
	for i := range s.items {
		if s.items[i].Category == oldName {
			s.items[i].Category = newName
		}
	}
	return nil
}

// DeleteCategory removes an empty category. Deleting a category that still
// has referencing items fails with ErrCategoryNotEmpty and changes nothing.
func (s *Store) DeleteCategory(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.Category == name {
			return fmt.Errorf("%q: %w", name, ErrCategoryNotEmpty)
		}
	}
	for i, c := range s.categories {
		if c == name {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%q: %w", name, ErrCategoryNotFound)
}

// CountByCategory reports how many items reference the given category.
func (s *Store) CountByCategory(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		if it.Category == name {
			n++
		}
	}
	return n
}

// findCategoryFold returns the index of a case-insensitive match, or -1.
// Caller holds the lock.
func (s *Store) findCategoryFold(name string) int {
	for i, c := range s.categories {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}
