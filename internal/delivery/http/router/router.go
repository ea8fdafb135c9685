// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"sikre/internal/delivery/http/middleware"
	"sikre/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ItemHandler    *handler.ItemHandler
	ServiceHandler *handler.ServiceHandler
	GroupHandler   *handler.GroupHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	itemHandler    *handler.ItemHandler
	serviceHandler *handler.ServiceHandler
	groupHandler   *handler.GroupHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		itemHandler:    params.ItemHandler,
		serviceHandler: params.ServiceHandler,
		groupHandler:   params.GroupHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes. The provider route covers every configured federated
	// provider, e.g. /auth/google and /auth/github.
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/:provider", r.authHandler.FederatedLogin)
	}

	authedAuthGroup := e.Group("/auth")
	authedAuthGroup.Use(r.authMiddleware.Authenticate)
	{
		authedAuthGroup.GET("/me", r.authHandler.Me)
	}

	// Item routes. Authentication is required everywhere; per-resource
	// authorization happens inside the use cases.
	itemGroup := e.Group("/items")
	itemGroup.Use(r.authMiddleware.Authenticate)
	{
		itemGroup.GET("", r.itemHandler.ListItems)
		itemGroup.POST("", r.itemHandler.CreateItem)
		itemGroup.GET("/:id", r.itemHandler.GetItem)
		itemGroup.PUT("/:id", r.itemHandler.UpdateItem)
		itemGroup.DELETE("/:id", r.itemHandler.DeleteItem)
		itemGroup.POST("/:id/share", r.itemHandler.ShareItem)
		itemGroup.DELETE("/:id/share/:userId", r.itemHandler.RevokeItemShare)
		itemGroup.GET("/:id/services", r.serviceHandler.ListServices)
		itemGroup.POST("/:id/services", r.serviceHandler.CreateService)
	}

	serviceGroup := e.Group("/services")
	serviceGroup.Use(r.authMiddleware.Authenticate)
	{
		serviceGroup.GET("/:id", r.serviceHandler.GetService)
		serviceGroup.PUT("/:id", r.serviceHandler.UpdateService)
		serviceGroup.DELETE("/:id", r.serviceHandler.DeleteService)
	}

	categoryGroup := e.Group("/categories")
	categoryGroup.Use(r.authMiddleware.Authenticate)
	{
		categoryGroup.GET("", r.itemHandler.ListCategories)
		categoryGroup.POST("", r.itemHandler.CreateCategory)
	}

	groupGroup := e.Group("/groups")
	groupGroup.Use(r.authMiddleware.Authenticate)
	{
		groupGroup.POST("", r.groupHandler.CreateGroup)
		groupGroup.GET("/:id", r.groupHandler.GetGroup)
		groupGroup.GET("/:id/members", r.groupHandler.ListMembers)
		groupGroup.POST("/:id/members", r.groupHandler.AddMember)
		groupGroup.DELETE("/:id/members/:userId", r.groupHandler.RemoveMember)
	}
}
