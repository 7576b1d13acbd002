package store

// Status is the lifecycle state of an item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusUrgent    Status = "urgent"
)

// Item is a tracked administrative obligation: a bill, contract or renewal.
// JSON tags match the extraction schema wire names so model output decodes
// straight into drafts.
type Item struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Provider    string   `json:"provider"`
	Category    string   `json:"category"`
	DueDate     string   `json:"dueDate"` // YYYY-MM-DD
	Amount      *float64 `json:"amount,omitempty"`
	Status      Status   `json:"status"`
	RenewalDate string   `json:"renewalDate,omitempty"` // YYYY-MM-DD
	Notes       string   `json:"notes,omitempty"`
}

// ItemDraft is a partial item: manual form input or the best-effort output
// of document analysis. Every field is optional; an all-zero draft is a
// valid (if useless) result.
type ItemDraft struct {
	Title       string   `json:"title,omitempty"`
	Provider    string   `json:"provider,omitempty"`
	Category    string   `json:"category,omitempty"`
	DueDate     string   `json:"dueDate,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	Status      Status   `json:"status,omitempty"`
	RenewalDate string   `json:"renewalDate,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

// IsZero reports whether the draft carries no extracted data at all.
func (d ItemDraft) IsZero() bool {
	return d.Title == "" && d.Provider == "" && d.Category == "" &&
		d.DueDate == "" && d.Amount == nil && d.Status == "" &&
		d.RenewalDate == "" && d.Notes == ""
}

// InsightType classifies a discovered suggestion.
type InsightType string

const (
	InsightOptimization InsightType = "optimization"
	InsightWarning      InsightType = "warning"
	InsightReminder     InsightType = "reminder"
	InsightDeal         InsightType = "deal"
)

// Insight is an AI-sourced savings or optimization suggestion. Insights are
// ephemeral: each discovery refresh replaces the previous list wholesale.
type Insight struct {
	ID          string      `json:"id"`
	Type        InsightType `json:"type"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ActionLabel string      `json:"actionLabel"`
	URL         string      `json:"url,omitempty"`
	Savings     string      `json:"savings,omitempty"`
}
