package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/orbis-25/orbis-projects-backend/internal/logging"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

// AuditReport summarizes one cache audit run.
type AuditReport struct {
	Checked  int `json:"checked"`
	Repaired int `json:"repaired"`
	Cleared  int `json:"cleared"`
	Failed   int `json:"failed"`
}

// CacheAuditor keeps the _orbis_project_id metadata copy in line with the
// orbis_projects table.
type CacheAuditor struct {
	posts    PostStore
	projects ProjectStore
	meta     MetaStore
}

// NewCacheAuditor creates an auditor.
func NewCacheAuditor(posts PostStore, projects ProjectStore, meta MetaStore) *CacheAuditor {
	return &CacheAuditor{posts: posts, projects: projects, meta: meta}
}

// Run checks every published project. Rows are never created here; a
// project without a row only loses a stale cached id.
func (a *CacheAuditor) Run(ctx context.Context) (AuditReport, error) {
	var report AuditReport
	log := logging.NewLogger(ctx)

	ids, err := a.posts.ListPublishedIDs(ctx, domain.PostType)
	if err != nil {
		return report, fmt.Errorf("audit: %w", err)
	}

	for _, postID := range ids {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Checked++

		rowID, found, err := a.projects.FindIDByPostID(ctx, postID)
		if err != nil {
			report.Failed++
			log.With("post_id", postID).LogError("cache_audit", err)
			continue
		}
		cached, hasCached, err := a.meta.Get(ctx, postID, domain.MetaProjectID)
		if err != nil {
			report.Failed++
			log.With("post_id", postID).LogError("cache_audit", err)
			continue
		}

		switch {
		case found && cached != strconv.FormatInt(rowID, 10):
			err = a.meta.Set(ctx, postID, domain.MetaProjectID, strconv.FormatInt(rowID, 10))
			if err == nil {
				report.Repaired++
			}
		case !found && hasCached:
			err = a.meta.Delete(ctx, postID, domain.MetaProjectID)
			if err == nil {
				report.Cleared++
			}
		}
		if err != nil {
			report.Failed++
			log.With("post_id", postID).LogError("cache_audit", err)
		}
	}

	log.LogInfof("cache_audit", "checked=%d repaired=%d cleared=%d failed=%d",
		report.Checked, report.Repaired, report.Cleared, report.Failed)
	return report, nil
}
