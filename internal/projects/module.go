// Package projects wires the project post type: its stores, save hooks,
// notifications and HTTP handlers.
package projects

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/format"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/events"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/form"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/hooks"
	projectshttp "github.com/orbis-25/orbis-projects-backend/internal/projects/http"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/repository"
	"github.com/orbis-25/orbis-projects-backend/internal/projects/service"
)

type Deps struct {
	DB              *sql.DB
	Redis           *redis.Client
	Nonces          *auth.Nonces
	Locale          form.Locale
	PermalinkFormat string
	// Observers receive project events in addition to the Redis publisher.
	Observers []events.Observer
}

// Module is the assembled project post type.
type Module struct {
	Posts      *repository.PostRepository
	Projects   *repository.ProjectRepository
	Invoices   *repository.InvoiceRepository
	Meta       *repository.MetaRepository
	Events     *events.Dispatcher
	Controller *service.Controller
	Hooks      *hooks.Registry

	handler *projectshttp.Handler
}

func New(d Deps) *Module {
	m := &Module{
		Posts:    repository.NewPostRepository(d.DB),
		Projects: repository.NewProjectRepository(d.DB),
		Invoices: repository.NewInvoiceRepository(d.DB),
		Meta:     repository.NewMetaRepository(d.Redis),
		Events:   events.NewDispatcher(events.NewRedisPublisher(d.Redis)),
		Hooks:    hooks.NewRegistry(),
	}
	for _, o := range d.Observers {
		m.Events.Subscribe(o)
	}

	m.Controller = service.NewController(service.Deps{
		Meta:            m.Meta,
		Projects:        m.Projects,
		Invoices:        m.Invoices,
		Nonces:          d.Nonces,
		Events:          m.Events,
		Numbers:         format.NumberFormat{DecimalPoint: d.Locale.DecimalPoint, ThousandsSep: d.Locale.ThousandsSep},
		PermalinkFormat: d.PermalinkFormat,
	})
	m.Controller.Register(m.Hooks)

	m.handler = projectshttp.New(m.Posts, m.Controller, m.Hooks, d.Nonces, d.Locale)
	return m
}

// Register attaches project routes to the given router group.
func (m *Module) Register(rg *gin.RouterGroup) {
	m.handler.Register(rg)
}

// Auditor returns a cache auditor over the module's stores.
func (m *Module) Auditor() *service.CacheAuditor {
	return service.NewCacheAuditor(m.Posts, m.Projects, m.Meta)
}
