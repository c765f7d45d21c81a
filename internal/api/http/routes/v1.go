package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orbis-25/orbis-projects-backend/internal/auth"
	"github.com/orbis-25/orbis-projects-backend/internal/projects"
)

type V1Deps struct {
	Users      auth.UserEnsurer
	Identities auth.IdentityVerifier
	Projects   *projects.Module
}

func RegisterV1(r *gin.Engine, dep V1Deps) {
	api := r.Group("/api/v1")
	api.Use(auth.WithUser(dep.Users, dep.Identities))

	projectsGroup := api.Group("/projects")
	dep.Projects.Register(projectsGroup)
}
