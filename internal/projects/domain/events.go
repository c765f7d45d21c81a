package domain

// Event names emitted by the reconcile pass.
const (
	EventFinishedUpdate      = "orbis_project_finished_update"
	EventInvoiceNumberUpdate = "orbis_project_invoice_number_update"
)

// Event is a project notification delivered to observers.
type Event interface {
	Name() string
	ProjectPostID() int64
}

// FinishedStateChanged is emitted when a published project's finished flag flips.
type FinishedStateChanged struct {
	PostID     int64 `json:"post_id"`
	IsFinished bool  `json:"is_finished"`
}

func (e FinishedStateChanged) Name() string         { return EventFinishedUpdate }
func (e FinishedStateChanged) ProjectPostID() int64 { return e.PostID }

// InvoiceNumberChanged is emitted when a published project's invoice number changes.
type InvoiceNumberChanged struct {
	PostID    int64  `json:"post_id"`
	OldNumber string `json:"old_number"`
	NewNumber string `json:"new_number"`
}

func (e InvoiceNumberChanged) Name() string         { return EventInvoiceNumberUpdate }
func (e InvoiceNumberChanged) ProjectPostID() int64 { return e.PostID }
