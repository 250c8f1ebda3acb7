package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/config"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/handler"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/middleware"
	"github.com/wtoloza-dev/descubreboyaca-backend-sub001/internal/model"
)

type Handlers struct {
	Health     *handler.HealthHandler
	Auth       *handler.AuthHandler
	Restaurant *handler.RestaurantHandler
	Dish       *handler.DishHandler
	User       *handler.UserHandler
	Favorite   *handler.FavoriteHandler
	Archive    *handler.ArchiveHandler
	WS         *handler.WSHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)
	r.Use(rateLimitMiddleware.Handler)

	r.Get("/health", h.Health.Check)

	authenticated := authMiddleware.RequireAuth
	adminOnly := authMiddleware.RequireRoles(model.RoleAdmin)
	managers := authMiddleware.RequireRoles(model.RoleAdmin, model.RoleOwner)

	r.Route("/api/v1", func(api chi.Router) {
		// Hijacked connections cannot sit behind http.TimeoutHandler.
		api.With(authenticated, adminOnly).Get("/ws", h.WS.Events)

		api.Group(func(api chi.Router) {
			api.Use(middleware.Timeout(cfg.RequestTimeout))

			api.Route("/auth", func(auth chi.Router) {
				auth.Post("/login", h.Auth.Login)
				auth.Post("/register", h.Auth.Register)
				auth.Post("/refresh", h.Auth.Refresh)
				auth.With(authenticated).Post("/logout", h.Auth.Logout)
				auth.With(authenticated).Get("/me", h.Auth.Me)
			})

			api.Route("/restaurants", func(rest chi.Router) {
				rest.Get("/", h.Restaurant.List)
				rest.With(authenticated, adminOnly).Post("/", h.Restaurant.Create)
				rest.Get("/{id}", h.Restaurant.Get)
				rest.With(authenticated, managers).Put("/{id}", h.Restaurant.Update)
				rest.With(authenticated, adminOnly).Delete("/{id}", h.Restaurant.Delete)

				rest.Get("/{id}/dishes", h.Restaurant.ListDishes)
				rest.With(authenticated, managers).Post("/{id}/dishes", h.Restaurant.CreateDish)

				rest.With(authenticated, adminOnly).Get("/{id}/owners", h.Restaurant.ListOwners)
				rest.With(authenticated, adminOnly).Post("/{id}/owners", h.Restaurant.AssignOwner)
				rest.With(authenticated, adminOnly).Delete("/{id}/owners/{user_id}", h.Restaurant.RemoveOwner)
			})

			api.Get("/dishes/{id}", h.Dish.Get)
			api.With(authenticated, managers).Put("/dishes/{id}", h.Dish.Update)
			api.With(authenticated, managers).Delete("/dishes/{id}", h.Dish.Delete)

			api.Route("/users", func(users chi.Router) {
				users.Use(authenticated, adminOnly)
				users.Get("/", h.User.List)
				users.Get("/{id}", h.User.Get)
				users.Put("/{id}", h.User.Update)
				users.Delete("/{id}", h.User.Delete)
			})

			api.Route("/me", func(me chi.Router) {
				me.Use(authenticated)
				me.Get("/favorites", h.Favorite.List)
				me.Post("/favorites/{restaurant_id}", h.Favorite.Add)
				me.Delete("/favorites/{restaurant_id}", h.Favorite.Remove)
				me.Get("/restaurants", h.Restaurant.Owned)
			})

			api.Route("/archives", func(archives chi.Router) {
				archives.Use(authenticated, adminOnly)
				archives.Get("/", h.Archive.List)
				archives.Get("/{table}/{original_id}", h.Archive.Get)
				archives.Delete("/{table}/{original_id}", h.Archive.Delete)
			})
		})
	})

	return r
}
