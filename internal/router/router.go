// Package router wires the HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-class-booking/internal/handler"
	"github.com/iliyamo/fitness-class-booking/internal/middleware"
	"github.com/iliyamo/fitness-class-booking/internal/model"
)

// RegisterRoutes registers the unauthenticated infrastructure routes.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers registration, login and token management under
// /v1/auth, plus the profile endpoints that need a valid access token of
// any role.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout works with a refresh token in the body and needs no JWT.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateProfile)
	// Authenticated logout without a body revokes every session.
	auth.POST("/logout", a.Logout)
}

// RegisterPublic registers the guest browse endpoints. cacheMW fronts the
// listing routes; pass nil to serve uncached.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	g := e.Group("/v1", mws...)
	g.GET("/schedule", p.Schedule)
	g.GET("/sessions/:id", p.Session)
	g.GET("/workout-types", p.WorkoutTypes)
	g.GET("/workout-types/:id", p.WorkoutType)
	g.GET("/trainers", p.Trainers)
	g.GET("/news", p.NewsList)
	g.GET("/news/:id", p.NewsItem)
}

// RegisterMember registers the booking endpoints. Every route requires
// the MEMBER role; rateMW (the token bucket) guards the mutating ones.
func RegisterMember(e *echo.Echo, h *handler.MemberHandler, jwtSecret string, rateMW echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleMember),
	)
	mutating := []echo.MiddlewareFunc{}
	if rateMW != nil {
		mutating = append(mutating, rateMW)
	}
	g.POST("/sessions/:id/book", h.Book, mutating...)
	g.DELETE("/subscriptions/:id", h.Cancel, mutating...)
	g.GET("/my-workouts", h.MyWorkouts)
	g.GET("/my-workouts/next", h.NextWorkout)
	g.GET("/my-schedule", h.Schedule)
	g.GET("/sessions/:id/booked", h.IsBooked)
}

// RegisterTrainer registers the trainer timetable and roster endpoints.
func RegisterTrainer(e *echo.Echo, h *handler.TrainerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/trainer",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTrainer),
	)
	g.GET("/sessions", h.MySessions)
	g.GET("/sessions/:id/subscribers", h.Subscribers)
}

// RegisterAdmin registers session, catalog, news and oversight endpoints
// for the ADMIN role.
func RegisterAdmin(e *echo.Echo, h *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/sessions", h.CreateSession)
	g.PUT("/sessions/:id", h.UpdateSession)
	g.DELETE("/sessions/:id", h.DeleteSession)
	g.GET("/sessions/:id/subscribers", h.SessionSubscribers)
	g.DELETE("/subscriptions/:id", h.CancelSubscription)

	g.POST("/workout-types", h.CreateWorkoutType)
	g.PUT("/workout-types/:id", h.UpdateWorkoutType)
	g.DELETE("/workout-types/:id", h.DeleteWorkoutType)

	g.POST("/news", h.CreateNews)
	g.PUT("/news/:id", h.UpdateNews)
	g.DELETE("/news/:id", h.DeleteNews)

	g.GET("/stats", h.Dashboard)
}
