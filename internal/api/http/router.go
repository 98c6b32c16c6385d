package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/freshplate/recipe-service/internal/api/http/handlers"
	"github.com/freshplate/recipe-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Recipes        *handlers.RecipesHandler
	Tags           *handlers.TagsHandler
	Ingredients    *handlers.IngredientsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Everything under /api except account
// creation and the token endpoint sits behind the auth middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/", cfg.Users.Create)
	users.Post("/token", cfg.Users.Token)
	users.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)
	users.Patch("/me", cfg.AuthMiddleware.Handle, cfg.Users.UpdateMe)

	recipes := api.Group("/recipes", cfg.AuthMiddleware.Handle)
	recipes.Get("/", cfg.Recipes.List)
	recipes.Post("/", cfg.Recipes.Create)
	recipes.Get("/:id", cfg.Recipes.Get)
	recipes.Patch("/:id", cfg.Recipes.Update)
	recipes.Put("/:id", cfg.Recipes.Replace)
	recipes.Delete("/:id", cfg.Recipes.Delete)
	recipes.Post("/:id/upload-image", cfg.Recipes.UploadImage)

	tags := api.Group("/tags", cfg.AuthMiddleware.Handle)
	tags.Get("/", cfg.Tags.List)
	tags.Patch("/:id", cfg.Tags.Update)
	tags.Delete("/:id", cfg.Tags.Delete)

	ingredients := api.Group("/ingredients", cfg.AuthMiddleware.Handle)
	ingredients.Get("/", cfg.Ingredients.List)
	ingredients.Patch("/:id", cfg.Ingredients.Update)
	ingredients.Delete("/:id", cfg.Ingredients.Delete)
}
