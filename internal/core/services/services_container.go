package services

import (
	portsrepo "github.com/vacaplanner/vacaplanner/internal/core/ports/repositories"
	portssvc "github.com/vacaplanner/vacaplanner/internal/core/ports/services"
	"github.com/vacaplanner/vacaplanner/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.User = NewUserService(repos.UserRepo, cfg)
	container.Leave = NewLeaveService(repos.LeaveRepo, repos.UserRepo)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuthHandler = NewGoogleOAuthHandlerService(cfg)

	return container
}
