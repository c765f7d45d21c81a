package users

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool used by Repo.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repo struct {
	db querier
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type UpsertUser struct {
	ExternalID  string
	DisplayName string
}

// EnsureUser creates or refreshes the user row for an external identity and
// returns its id.
func (r *Repo) EnsureUser(ctx context.Context, u UpsertUser) (int64, error) {
	if u.ExternalID == "" {
		return 0, fmt.Errorf("external id required")
	}

	const q = `
insert into users (external_id, display_name, updated_at)
values ($1, nullif($2,''), now())
on conflict (external_id) do update
set
  display_name = coalesce(excluded.display_name, users.display_name),
  updated_at = now()
returning id;
`
	var id int64
	if err := r.db.QueryRow(ctx, q, u.ExternalID, u.DisplayName).Scan(&id); err != nil {
		return 0, fmt.Errorf("ensure user %s: %w", u.ExternalID, err)
	}
	return id, nil
}
