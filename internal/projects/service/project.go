package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
)

// Loader builds Project accessors.
type Loader struct {
	meta     MetaStore
	projects ProjectStore
	invoices InvoiceStore
}

// NewLoader creates a project loader.
func NewLoader(meta MetaStore, projects ProjectStore, invoices InvoiceStore) *Loader {
	return &Loader{meta: meta, projects: projects, invoices: invoices}
}

// Load reads the metadata and relational row of a project post. A post that
// was never published has no row; the accessor then answers from metadata only.
func (l *Loader) Load(ctx context.Context, postID int64) (*Project, error) {
	meta, err := l.meta.All(ctx, postID)
	if err != nil {
		return nil, err
	}

	row, principal, err := l.projects.GetByPostID(ctx, postID)
	if err != nil && !errors.Is(err, domain.ErrProjectNotFound) {
		return nil, err
	}

	return &Project{
		postID:    postID,
		meta:      meta,
		row:       row,
		principal: principal,
		invoices:  l.invoices,
	}, nil
}

// Project is a read-only view of one project.
type Project struct {
	postID    int64
	meta      map[string]string
	row       *domain.ProjectRow
	principal *domain.Principal
	invoices  InvoiceStore
}

// PostID returns the id of the project's content item.
func (p *Project) PostID() int64 {
	return p.postID
}

// RowID returns the orbis_projects id, or 0 when no row exists yet.
func (p *Project) RowID() int64 {
	if p.row == nil {
		return 0
	}
	return p.row.ID
}

func (p *Project) HasPrincipal() bool {
	return p.principal != nil
}

// PrincipalPostID returns the content item id of the principal company, 0 if unset.
func (p *Project) PrincipalPostID() int64 {
	if p.principal == nil {
		return 0
	}
	return p.principal.PostID
}

func (p *Project) PrincipalName() string {
	if p.principal == nil {
		return ""
	}
	return p.principal.Name
}

// Price returns the stored price without formatting.
func (p *Project) Price() float64 {
	return form.ToFloat(p.meta[domain.MetaPrice])
}

func (p *Project) AvailableTime() domain.Duration {
	return domain.NewDuration(form.ToInt(p.meta[domain.MetaSecondsAvailable]))
}

// InvoiceNumber returns the current (final) invoice number, "" when none.
func (p *Project) InvoiceNumber() string {
	return p.meta[domain.MetaInvoiceNumber]
}

func (p *Project) IsFinished() bool {
	return form.ToBool(p.meta[domain.MetaIsFinished])
}

func (p *Project) IsInvoicable() bool {
	return form.ToBool(p.meta[domain.MetaIsInvoicable])
}

func (p *Project) IsInvoiced() bool {
	return form.ToBool(p.meta[domain.MetaIsInvoiced])
}

// Invoices returns the invoices of the project row ordered by creation date.
// Invoices hang off the row id, so a project without a row has none.
func (p *Project) Invoices(ctx context.Context) ([]domain.Invoice, error) {
	if p.row == nil {
		return nil, nil
	}
	invoices, err := p.invoices.ListByProject(ctx, p.row.ID)
	if err != nil {
		return nil, fmt.Errorf("invoices of post %d: %w", p.postID, err)
	}
	return invoices, nil
}

// IsFinalInvoice reports whether candidate is the project's current invoice
// number. An empty or "0" candidate matches a project without one.
func (p *Project) IsFinalInvoice(candidate string) bool {
	if candidate == domain.NoFinalInvoice {
		candidate = ""
	}
	return candidate == p.InvoiceNumber()
}
