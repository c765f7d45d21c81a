package service

import (
	"context"
	"strconv"

	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/repository"
)

// SyncProject copies the reconciled metadata of a published project into its
// orbis_projects row, creating the row on first publish.
func (c *Controller) SyncProject(ctx context.Context, sc *hooks.SaveContext) {
	if sc.Autosave || sc.Post == nil {
		return
	}
	post := sc.Post
	if post.Type != domain.PostType {
		return
	}
	if post.IsRevision {
		return
	}
	if !post.IsPublished() {
		return
	}

	log := logging.NewLogger(ctx).With("post_id", post.ID)

	rowID := c.resolveRowID(ctx, log, post.ID)

	meta, err := c.meta.All(ctx, post.ID)
	if err != nil {
		log.LogError("save_project_sync", err)
		return
	}

	cols := c.syncColumns(post, meta)

	if rowID == 0 {
		cols = append(cols, repository.Column{Name: "post_id", Value: post.ID, Format: repository.FormatInt})
		id, err := c.projects.Insert(ctx, cols)
		if err != nil {
			log.LogError("save_project_sync", err)
		} else {
			rowID = id
		}
	} else if err := c.projects.Update(ctx, rowID, cols); err != nil {
		log.LogError("save_project_sync", err)
	}

	if rowID == 0 {
		return
	}
	if err := c.meta.Set(ctx, post.ID, domain.MetaProjectID, strconv.FormatInt(rowID, 10)); err != nil {
		log.LogError("save_project_sync", err)
	}
}

// resolveRowID looks up the row of a post. The metadata copy of the id is
// only consulted when the table cannot be queried.
func (c *Controller) resolveRowID(ctx context.Context, log *logging.Logger, postID int64) int64 {
	id, found, err := c.projects.FindIDByPostID(ctx, postID)
	if err == nil {
		if !found {
			return 0
		}
		return id
	}

	log.LogWarnf("save_project_sync", "row lookup failed, using cached id: %v", err)
	cached, _, merr := c.meta.Get(ctx, postID, domain.MetaProjectID)
	if merr != nil {
		log.LogError("save_project_sync", merr)
		return 0
	}
	return form.ToInt(cached)
}

func (c *Controller) syncColumns(post *domain.Post, meta map[string]string) []repository.Column {
	principalID := meta[domain.MetaPrincipalID]
	invoiceNumber := meta[domain.MetaInvoiceNumber]

	startDate := c.now()
	if post.PublishedAt != nil {
		startDate = *post.PublishedAt
	}

	cols := []repository.Column{
		{Name: "name", Value: post.Title, Format: repository.FormatString},
	}
	if !form.IsEmpty(principalID) {
		cols = append(cols, repository.Column{Name: "principal_id", Value: principalID, Format: repository.FormatInt})
	}
	cols = append(cols,
		repository.Column{Name: "start_date", Value: startDate.Format("2006-01-02"), Format: repository.FormatString},
		repository.Column{Name: "number_seconds", Value: meta[domain.MetaSecondsAvailable], Format: repository.FormatInt},
		repository.Column{Name: "invoicable", Value: meta[domain.MetaIsInvoicable], Format: repository.FormatInt},
		repository.Column{Name: "invoiced", Value: meta[domain.MetaIsInvoiced], Format: repository.FormatInt},
	)
	if !form.IsEmpty(invoiceNumber) {
		cols = append(cols, repository.Column{Name: "invoice_number", Value: invoiceNumber, Format: repository.FormatString})
	}
	cols = append(cols,
		repository.Column{Name: "finished", Value: meta[domain.MetaIsFinished], Format: repository.FormatInt},
	)
	return cols
}
