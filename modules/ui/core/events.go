package core

// TriggerType identifies a refresh trigger class
type TriggerType string

const (
	// Pull triggers
	TriggerSearch     TriggerType = "search"
	TriggerSiteFilter TriggerType = "site_filter"
	TriggerPrevPage   TriggerType = "prev_page"
	TriggerNextPage   TriggerType = "next_page"
	TriggerSort       TriggerType = "sort"
	TriggerRefresh    TriggerType = "refresh"

	// Write triggers
	TriggerAddProduct    TriggerType = "add_product"
	TriggerDeleteProduct TriggerType = "delete_product"
)

// Trigger represents a user action that can initiate a pull
type Trigger struct {
	Type  TriggerType `json:"type"`
	Value string      `json:"value,omitempty"`
}

// NewTrigger creates a new trigger
func NewTrigger(triggerType TriggerType) *Trigger {
	return &Trigger{Type: triggerType}
}

// WithValue sets the trigger payload (search text, site, sort field, id)
func (t *Trigger) WithValue(value string) *Trigger {
	t.Value = value
	return t
}

// ============================================
// Notifications (from the engine to the user)
// ============================================

// NotifyLevel identifies the severity of a notification
type NotifyLevel string

const (
	NotifyInfo    NotifyLevel = "info"
	NotifySuccess NotifyLevel = "success"
	NotifyWarning NotifyLevel = "warning"
	NotifyError   NotifyLevel = "error"
)

// Notification is a transient message to display to the user
type Notification struct {
	Level   NotifyLevel `json:"level"`
	Message string      `json:"message"`
}
