package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/orbis-25/orbis-projects-backend/internal/projects/domain"
)

// Format is the declared storage type of a column value.
type Format string

const (
	FormatString Format = "%s"
	FormatInt    Format = "%d"
)

// Column is one value written to the orbis_projects table.
type Column struct {
	Name   string
	Value  any
	Format Format
}

var projectColumns = map[string]bool{
	"post_id":        true,
	"name":           true,
	"principal_id":   true,
	"start_date":     true,
	"number_seconds": true,
	"invoicable":     true,
	"invoiced":       true,
	"invoice_number": true,
	"finished":       true,
}

// ProjectRepository provides persistence operations for the orbis_projects table.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// FindIDByPostID returns the row id linked to a post. found is false when no
// row exists yet.
func (r *ProjectRepository) FindIDByPostID(ctx context.Context, postID int64) (int64, bool, error) {
	const q = `SELECT id FROM orbis_projects WHERE post_id = $1;`

	var id int64
	err := r.db.QueryRowContext(ctx, q, postID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to look up project for post %d: %w", postID, err)
	}
	return id, true, nil
}

// Insert creates a row from cols and returns the generated id.
func (r *ProjectRepository) Insert(ctx context.Context, cols []Column) (int64, error) {
	names, args, err := bindColumns(cols)
	if err != nil {
		return 0, err
	}

	placeholders := make([]string, len(names))
	for i := range names {
		placeholders[i] = "$" + strconv.Itoa(i+1)
	}

	q := fmt.Sprintf(
		"INSERT INTO orbis_projects (%s) VALUES (%s) RETURNING id;",
		strings.Join(names, ", "),
		strings.Join(placeholders, ", "),
	)

	var id int64
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert project: %w", err)
	}
	return id, nil
}

// Update writes cols to the row with the given id.
func (r *ProjectRepository) Update(ctx context.Context, id int64, cols []Column) error {
	names, args, err := bindColumns(cols)
	if err != nil {
		return err
	}

	sets := make([]string, len(names))
	for i, n := range names {
		sets[i] = n + " = $" + strconv.Itoa(i+1)
	}
	args = append(args, id)

	q := fmt.Sprintf(
		"UPDATE orbis_projects SET %s WHERE id = $%d;",
		strings.Join(sets, ", "),
		len(args),
	)

	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("failed to update project %d: %w", id, err)
	}
	return nil
}

// GetByPostID loads the row of a post together with its principal, if any.
func (r *ProjectRepository) GetByPostID(ctx context.Context, postID int64) (*domain.ProjectRow, *domain.Principal, error) {
	const q = `
SELECT p.id, p.post_id, p.name, p.principal_id, p.start_date, p.number_seconds,
       p.invoicable, p.invoiced, p.invoice_number, p.finished,
       c.id, c.post_id, c.name
FROM orbis_projects AS p
LEFT JOIN orbis_companies AS c ON c.id = p.principal_id
WHERE p.post_id = $1;
`
	var (
		row           domain.ProjectRow
		principalID   sql.NullInt64
		startDate     sql.NullTime
		invoiceNumber sql.NullString
		companyID     sql.NullInt64
		companyPostID sql.NullInt64
		companyName   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, postID).Scan(
		&row.ID, &row.PostID, &row.Name, &principalID, &startDate, &row.NumberSeconds,
		&row.Invoicable, &row.Invoiced, &invoiceNumber, &row.Finished,
		&companyID, &companyPostID, &companyName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.ErrProjectNotFound
		}
		return nil, nil, fmt.Errorf("failed to get project for post %d: %w", postID, err)
	}

	if principalID.Valid {
		id := principalID.Int64
		row.PrincipalID = &id
	}
	if startDate.Valid {
		t := startDate.Time
		row.StartDate = &t
	}
	if invoiceNumber.Valid {
		n := invoiceNumber.String
		row.InvoiceNumber = &n
	}

	var principal *domain.Principal
	if companyID.Valid {
		principal = &domain.Principal{
			ID:     companyID.Int64,
			PostID: companyPostID.Int64,
			Name:   companyName.String,
		}
	}
	return &row, principal, nil
}

func bindColumns(cols []Column) ([]string, []any, error) {
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("no columns to write")
	}
	names := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+1)
	for _, c := range cols {
		if !projectColumns[c.Name] {
			return nil, nil, fmt.Errorf("unknown project column %q", c.Name)
		}
		names = append(names, c.Name)
		args = append(args, c.Format.bind(c.Value))
	}
	return names, args, nil
}

// bind converts v to the Go type matching the declared format, the way
// values are cast when preparing a statement.
func (f Format) bind(v any) any {
	if f == FormatInt {
		switch t := v.(type) {
		case nil:
			return int64(0)
		case bool:
			if t {
				return int64(1)
			}
			return int64(0)
		case int:
			return int64(t)
		case int64:
			return t
		case float64:
			return int64(t)
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
			if err != nil {
				fl, ferr := strconv.ParseFloat(strings.TrimSpace(t), 64)
				if ferr != nil {
					return int64(0)
				}
				return int64(fl)
			}
			return n
		}
		return int64(0)
	}

	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
