package service

import (
	"context"
	"fmt"

	"golang.org/x/net/html"

	"github.com/orbis-25/orbis-projects-backend/internal/format"
)

// Column is a list-table column of the project overview.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Column keys rendered by RenderColumn.
const (
	ColumnPrincipal = "orbis_project_principal"
	ColumnPrice     = "orbis_project_price"
	ColumnTime      = "orbis_project_time"
)

// Columns returns the project list-table columns in display order.
func (c *Controller) Columns() []Column {
	return []Column{
		{Key: "cb", Label: `<input type="checkbox" />`},
		{Key: "title", Label: "Title"},
		{Key: ColumnPrincipal, Label: "Principal"},
		{Key: ColumnPrice, Label: "Price"},
		{Key: ColumnTime, Label: "Time"},
		{Key: "author", Label: "Author"},
		{Key: "comments", Label: "Comments"},
		{Key: "date", Label: "Date"},
	}
}

// RenderColumn renders the project-specific cell of column for a post.
// Columns owned by the CMS render as "".
func (c *Controller) RenderColumn(ctx context.Context, column string, postID int64) (string, error) {
	switch column {
	case ColumnPrincipal, ColumnPrice, ColumnTime:
	default:
		return "", nil
	}

	p, err := c.loader.Load(ctx, postID)
	if err != nil {
		return "", err
	}

	switch column {
	case ColumnPrincipal:
		if !p.HasPrincipal() {
			return "", nil
		}
		return fmt.Sprintf(
			`<a href="%s">%s</a>`,
			html.EscapeString(c.Permalink(p.PrincipalPostID())),
			html.EscapeString(p.PrincipalName()),
		), nil
	case ColumnPrice:
		return html.EscapeString(format.Price(p.Price(), c.numbers)), nil
	default:
		return html.EscapeString(p.AvailableTime().Format()), nil
	}
}

// Permalink returns the public URL of a post.
func (c *Controller) Permalink(postID int64) string {
	return fmt.Sprintf(c.permalink, postID)
}

// MetaBox describes an edit-screen panel of the project post type.
type MetaBox struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Screen   string `json:"screen"`
	Context  string `json:"context"`
	Priority string `json:"priority"`
}

// MetaBoxes returns the panels shown on the project edit screen.
func (c *Controller) MetaBoxes() []MetaBox {
	return []MetaBox{
		{ID: "orbis_project", Title: "Project Information", Screen: "orbis_project", Context: "normal", Priority: "high"},
		{ID: "orbis_project_invoices", Title: "Project Invoices", Screen: "orbis_project", Context: "normal", Priority: "high"},
	}
}
