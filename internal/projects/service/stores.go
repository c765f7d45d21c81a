package service

import (
	"context"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/repository"
)

// MetaStore is the per-post key-value metadata store.
type MetaStore interface {
	Get(ctx context.Context, postID int64, key string) (string, bool, error)
	Set(ctx context.Context, postID int64, key, value string) error
	Delete(ctx context.Context, postID int64, key string) error
	All(ctx context.Context, postID int64) (map[string]string, error)
}

// ProjectStore is the orbis_projects table.
type ProjectStore interface {
	FindIDByPostID(ctx context.Context, postID int64) (int64, bool, error)
	Insert(ctx context.Context, cols []repository.Column) (int64, error)
	Update(ctx context.Context, id int64, cols []repository.Column) error
	GetByPostID(ctx context.Context, postID int64) (*domain.ProjectRow, *domain.Principal, error)
}

// InvoiceStore is the project invoices table.
type InvoiceStore interface {
	ListByProject(ctx context.Context, projectID int64) ([]domain.Invoice, error)
	Create(ctx context.Context, projectID, userID int64, in repository.InvoiceInput) (int64, error)
	Update(ctx context.Context, projectID, invoiceID int64, in repository.InvoiceInput) error
	Delete(ctx context.Context, projectID int64, invoiceIDs []int64) (int64, error)
}

// PostStore reads CMS content items.
type PostStore interface {
	Get(ctx context.Context, id int64) (*domain.Post, error)
	ListPublishedIDs(ctx context.Context, postType string) ([]int64, error)
}

// NonceVerifier checks form nonces.
type NonceVerifier interface {
	Verify(token, action string, userID, postID int64) bool
}

// Emitter delivers project events without waiting for their handlers.
type Emitter interface {
	Emit(ctx context.Context, e domain.Event)
}
