package router

import (
	"grocerylist-api/internal/application"
	"grocerylist-api/internal/container"
	"grocerylist-api/internal/infrastructure/mongodb"
	handlers "grocerylist-api/internal/interface/http"
	"grocerylist-api/internal/router/modules"
)

// InitModules wires the application modules from the container singletons
// and registers them with the router registry. Called once during startup.
func InitModules(r *Registry) {
	repo := mongodb.NewUserRepository(container.GetMongoDB())

	service := application.NewService(
		repo,
		container.GetMailgun(),
		container.GetLogger(),
		container.GetConfig(),
	)

	handler := handlers.NewAuthHandler(
		service,
		container.GetSessions(),
		container.GetRabbitPub(),
		container.GetLogger(),
		container.GetConfig(),
	)

	r.Add(modules.NewAuthModule(handler))
}
