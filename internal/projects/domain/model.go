package domain

import "time"

// PostType is the content type that owns project records.
const PostType = "orbis_project"

const (
	StatusPublish  = "publish"
	StatusDraft    = "draft"
	StatusPending  = "pending"
	StatusRevision = "inherit"
)

// Post is the CMS content item a project is attached to.
type Post struct {
	ID          int64      `json:"id"`
	Type        string     `json:"post_type"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	ParentID    int64      `json:"parent_id,omitempty"`
	IsRevision  bool       `json:"is_revision"`
}

// IsPublished reports whether the post currently has the publish status.
func (p *Post) IsPublished() bool {
	return p != nil && p.Status == StatusPublish
}

// ProjectRow is the denormalized copy of a project in the orbis_projects table.
type ProjectRow struct {
	ID            int64      `json:"id"`
	PostID        int64      `json:"post_id"`
	Name          string     `json:"name"`
	PrincipalID   *int64     `json:"principal_id,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	NumberSeconds int64      `json:"number_seconds"`
	Invoicable    bool       `json:"invoicable"`
	Invoiced      bool       `json:"invoiced"`
	InvoiceNumber *string    `json:"invoice_number,omitempty"`
	Finished      bool       `json:"finished"`
}

// Principal is the client company a project is done for.
type Principal struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	Name   string `json:"name"`
}

// Invoice is a single invoice registered against a project row.
type Invoice struct {
	ID            int64     `json:"id"`
	ProjectID     int64     `json:"project_id"`
	CreateDate    time.Time `json:"create_date"`
	Amount        float64   `json:"amount"`
	Seconds       int64     `json:"seconds"`
	InvoiceNumber string    `json:"invoice_number"`
	UserID        int64     `json:"user_id,omitempty"`
	DisplayName   string    `json:"display_name"`
}
