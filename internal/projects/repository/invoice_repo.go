package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

// InvoiceRepository provides persistence operations for project invoices.
type InvoiceRepository struct {
	db *sql.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *sql.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// InvoiceInput holds the editable fields of an invoice.
type InvoiceInput struct {
	CreateDate    time.Time
	Amount        float64
	Seconds       int64
	InvoiceNumber string
}

// ListByProject returns the invoices of a project row ordered by creation date.
func (r *InvoiceRepository) ListByProject(ctx context.Context, projectID int64) ([]domain.Invoice, error) {
	const q = `
SELECT i.id, i.project_id, i.create_date, i.amount, i.seconds, i.invoice_number,
       COALESCE(i.user_id, 0), COALESCE(u.display_name, '')
FROM orbis_projects_invoices AS i
LEFT JOIN users AS u ON u.id = i.user_id
WHERE i.project_id = $1
ORDER BY i.create_date;
`
	rows, err := r.db.QueryContext(ctx, q, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices for project %d: %w", projectID, err)
	}
	defer rows.Close()

	out := make([]domain.Invoice, 0, 8)
	for rows.Next() {
		var (
			inv    domain.Invoice
			amount sql.NullFloat64
			secs   sql.NullInt64
			number sql.NullString
		)
		if err := rows.Scan(&inv.ID, &inv.ProjectID, &inv.CreateDate, &amount, &secs, &number, &inv.UserID, &inv.DisplayName); err != nil {
			return nil, err
		}
		inv.Amount = amount.Float64
		inv.Seconds = secs.Int64
		inv.InvoiceNumber = number.String
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts an invoice for a project row owned by userID.
func (r *InvoiceRepository) Create(ctx context.Context, projectID, userID int64, in InvoiceInput) (int64, error) {
	const q = `
INSERT INTO orbis_projects_invoices (project_id, create_date, amount, seconds, invoice_number, user_id)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id;
`
	var id int64
	err := r.db.QueryRowContext(ctx, q, projectID, in.CreateDate, in.Amount, in.Seconds, in.InvoiceNumber, userID).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create invoice: %w", err)
	}
	return id, nil
}

// Update changes an invoice of the given project row.
func (r *InvoiceRepository) Update(ctx context.Context, projectID, invoiceID int64, in InvoiceInput) error {
	const q = `
UPDATE orbis_projects_invoices
SET create_date = $3, amount = $4, seconds = $5, invoice_number = $6
WHERE id = $1 AND project_id = $2;
`
	res, err := r.db.ExecContext(ctx, q, invoiceID, projectID, in.CreateDate, in.Amount, in.Seconds, in.InvoiceNumber)
	if err != nil {
		return fmt.Errorf("failed to update invoice %d: %w", invoiceID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// Delete removes invoices of the given project row. It returns how many were removed.
func (r *InvoiceRepository) Delete(ctx context.Context, projectID int64, invoiceIDs []int64) (int64, error) {
	if len(invoiceIDs) == 0 {
		return 0, nil
	}
	const q = `
DELETE FROM orbis_projects_invoices
WHERE project_id = $1 AND id = ANY($2);
`
	res, err := r.db.ExecContext(ctx, q, projectID, pq.Array(invoiceIDs))
	if err != nil {
		return 0, fmt.Errorf("failed to delete invoices: %w", err)
	}
	return res.RowsAffected()
}
