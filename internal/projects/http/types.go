package http

import (
	"context"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/service"
)

// PostStore is the subset of the post repository the handlers need.
type PostStore interface {
	Get(ctx context.Context, id int64) (*domain.Post, error)
	UpdateContent(ctx context.Context, id int64, title, status string) (*domain.Post, error)
}

// NonceIssuer creates meta box nonces.
type NonceIssuer interface {
	Create(action string, userID, postID int64) (string, error)
}

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	posts  PostStore
	ctrl   *service.Controller
	hooks  *hooks.Registry
	nonces NonceIssuer
	locale form.Locale
}

func New(posts PostStore, ctrl *service.Controller, registry *hooks.Registry, nonces NonceIssuer, locale form.Locale) *Handler {
	return &Handler{posts: posts, ctrl: ctrl, hooks: registry, nonces: nonces, locale: locale}
}

type principalView struct {
	PostID    int64  `json:"post_id"`
	Name      string `json:"name"`
	Permalink string `json:"permalink"`
}

type invoiceView struct {
	domain.Invoice
	IsFinal bool `json:"is_final"`
}

type projectView struct {
	PostID        int64          `json:"post_id"`
	ProjectID     int64          `json:"project_id,omitempty"`
	Title         string         `json:"title"`
	Status        string         `json:"status"`
	Principal     *principalView `json:"principal,omitempty"`
	Price         float64        `json:"price"`
	PriceLabel    string         `json:"price_label"`
	Seconds       int64          `json:"seconds_available"`
	TimeLabel     string         `json:"time_label"`
	InvoiceNumber string         `json:"invoice_number"`
	IsFinished    bool           `json:"is_finished"`
	IsInvoicable  bool           `json:"is_invoicable"`
	IsInvoiced    bool           `json:"is_invoiced"`
	Invoices      []invoiceView  `json:"invoices"`
}
