package service

import (
	"time"

	"github.com/orbis-25/orbis-projects-backend/internal/format"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
)

// Controller owns the admin behaviour of the project post type: list-table
// columns, meta boxes and the save handlers.
type Controller struct {
	meta      MetaStore
	projects  ProjectStore
	invoices  InvoiceStore
	nonces    NonceVerifier
	events    Emitter
	loader    *Loader
	numbers   format.NumberFormat
	permalink string
	now       func() time.Time
}

// Deps are the collaborators of a Controller.
type Deps struct {
	Meta     MetaStore
	Projects ProjectStore
	Invoices InvoiceStore
	Nonces   NonceVerifier
	Events   Emitter
	// Numbers formats prices in list-table columns.
	Numbers format.NumberFormat
	// PermalinkFormat turns a post id into a URL, e.g. "/?p=%d".
	PermalinkFormat string
}

// NewController creates a controller.
func NewController(d Deps) *Controller {
	permalink := d.PermalinkFormat
	if permalink == "" {
		permalink = "/?p=%d"
	}
	return &Controller{
		meta:      d.Meta,
		projects:  d.Projects,
		invoices:  d.Invoices,
		nonces:    d.Nonces,
		events:    d.Events,
		loader:    NewLoader(d.Meta, d.Projects, d.Invoices),
		numbers:   d.Numbers,
		permalink: permalink,
		now:       time.Now,
	}
}

// Loader returns the accessor loader sharing the controller's stores.
func (c *Controller) Loader() *Loader {
	return c.loader
}

// Numbers returns the number format used for prices.
func (c *Controller) Numbers() format.NumberFormat {
	return c.numbers
}

// Register attaches the save handlers. Sync runs after every other handler
// so it sees the reconciled metadata.
func (c *Controller) Register(r *hooks.Registry) {
	r.Add("save_project", hooks.PriorityDefault, c.SaveProject)
	r.Add("save_project_invoices", hooks.PriorityDefault+10, c.SaveInvoices)
	r.Add("save_project_sync", hooks.PriorityLate, c.SyncProject)
}
