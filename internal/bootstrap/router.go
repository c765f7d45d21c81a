package bootstrap

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/orbis-25/orbis-projects-backend/internal/api/http"
	"github.com/orbis-25/orbis-projects-backend/internal/api/http/middleware"
	"github.com/orbis-25/orbis-projects-backend/internal/api/http/routes"
	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/projects"
	"github.com/orbis-25/orbis-projects-backend/internal/users"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	RateLimitRPS   float64
	RateLimitBurst int
	// CORSOrigins lists the browser origins allowed to call the API. Empty
	// disables CORS.
	CORSOrigins []string
	Pool       *pgxpool.Pool
	Redis      *redis.Client
	Identities auth.IdentityVerifier
	Users      auth.UserEnsurer
	Projects   *projects.Module
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())

	if len(dep.CORSOrigins) > 0 {
		corsCfg := cors.DefaultConfig()
		corsCfg.AllowOrigins = dep.CORSOrigins
		corsCfg.AddAllowHeaders("Authorization", "X-Request-Id", "X-Orbis-Autosave")
		corsCfg.AddExposeHeaders("X-Request-Id")
		r.Use(cors.New(corsCfg))
	}

	var dbPing, redisPing httpapi.Pinger
	if dep.Pool != nil {
		dbPing = dep.Pool
	}
	if dep.Redis != nil {
		redisPing = httpapi.PingFunc(func(ctx context.Context) error {
			return dep.Redis.Ping(ctx).Err()
		})
	}
	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dbPing, redisPing)
	healthHandler.RegisterRoutes(r)

	r.Use(middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))

	userRepo := dep.Users
	if userRepo == nil {
		userRepo = users.NewRepo(dep.Pool)
	}
	routes.RegisterV1(r, routes.V1Deps{
		Users:      userRepo,
		Identities: dep.Identities,
		Projects:   dep.Projects,
	})

	return r
}
