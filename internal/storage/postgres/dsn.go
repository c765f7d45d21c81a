package postgres

import (
	"fmt"

	"github.com/orbis-25/orbis-projects-backend/config"
)

// DSN builds a keyword/value connection string understood by both lib/pq and
// the pgx stdlib driver.
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name,
	)
}
