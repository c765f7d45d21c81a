package projects

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/events"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
)

func TestNew_RegistersSaveHooksInOrder(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	m := New(Deps{
		DB:        db,
		Redis:     client,
		Nonces:    auth.NewNonces([]byte("0123456789abcdef0123456789abcdef"), time.Hour),
		Locale:    form.DefaultLocale,
		Observers: []events.Observer{events.LogObserver()},
	})

	assert.Equal(t, []string{"save_project", "save_project_invoices", "save_project_sync"}, m.Hooks.Names())
	assert.NotNil(t, m.Auditor())
}
